package iopopulate

import (
	"os"

	"github.com/seiten/pagedb/internal/ioconfig"
	"github.com/seiten/pagedb/pkg/config"
	"github.com/seiten/pagedb/pkg/sources"
	"gopkg.in/yaml.v3"
)

// loadSources reads and validates the sources.yaml file. An explicit
// path from configuration wins over the default location.
func loadSources(cfg *config.Config) (*sources.Config, string, error) {
	path := cfg.Populate.SourcesFile
	if path == "" {
		var err error
		path, err = ioconfig.GetDefaultSourcesPath()
		if err != nil {
			return nil, "", SourcesConfigError("", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, SourcesConfigError(path, err)
	}

	var res sources.Config
	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, path, SourcesConfigError(path, err)
	}

	if err := res.Validate(); err != nil {
		return nil, path, SourcesConfigError(path, err)
	}

	return &res, path, nil
}
