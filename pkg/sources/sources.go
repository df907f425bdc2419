// Package sources provides configuration and validation for page and
// annotation datasets.
//
// This package defines the schema for sources.yaml, which users provide
// to specify which datasets the populate command imports. A dataset is
// either a pair of COCO-style JSON files (pages and annotations,
// produced independently by the scanning and the labeling pipelines) or
// a single SQLite archive holding the same two tables.
package sources

// Config represents the complete sources.yaml configuration file.
type Config struct {
	// Datasets is the list of datasets to import.
	Datasets []DatasetConfig `yaml:"datasets"`
}

// DatasetConfig describes one dataset to import.
type DatasetConfig struct {
	// Name identifies the dataset in logs and summaries.
	Name string `yaml:"name"`

	// Pages is the path to a COCO-style JSON file with an "images"
	// array of full-page records.
	Pages string `yaml:"pages,omitempty"`

	// Annotations is the path to a COCO-style JSON file with an
	// "annotations" array of labeled regions.
	Annotations string `yaml:"annotations,omitempty"`

	// Archive is the path to a SQLite archive holding "pages" and
	// "annotations" tables. Mutually exclusive with Pages/Annotations.
	Archive string `yaml:"archive,omitempty"`
}

// IsArchive reports whether the dataset comes as a SQLite archive.
func (d DatasetConfig) IsArchive() bool {
	return d.Archive != ""
}
