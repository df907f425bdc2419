package sources

import (
	"fmt"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if len(c.Datasets) == 0 {
		return fmt.Errorf("no datasets specified in configuration")
	}

	for i := range c.Datasets {
		if err := c.Datasets[i].Validate(); err != nil {
			return fmt.Errorf("dataset %d: %w", i+1, err)
		}
	}

	return nil
}

// Validate checks a single dataset configuration. File existence is
// deferred to runtime (I/O layer).
func (d *DatasetConfig) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}

	if d.Archive != "" {
		if d.Pages != "" || d.Annotations != "" {
			return fmt.Errorf(
				"archive is mutually exclusive with pages/annotations")
		}
		return nil
	}

	if d.Pages == "" && d.Annotations == "" {
		return fmt.Errorf(
			"either archive, or at least one of pages/annotations is required")
	}

	return nil
}
