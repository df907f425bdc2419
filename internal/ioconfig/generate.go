package ioconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/seiten/pagedb/pkg/config"
	"github.com/seiten/pagedb/pkg/templates"
	"gopkg.in/yaml.v3"
)

// GetConfigDir returns the configuration directory for pagedb.
// Uses ~/.config/pagedb/ on all platforms for consistency. The
// PAGEDB_CONFIG_DIR environment variable overrides it, which tests use
// to avoid touching real user configuration.
func GetConfigDir() (string, error) {
	if dir := os.Getenv("PAGEDB_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return config.ConfigDir(homeDir), nil
}

// GetDefaultConfigPath returns the full path to the default config file.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// GetDefaultSourcesPath returns the full path to the default sources
// file.
func GetDefaultSourcesPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "sources.yaml"), nil
}

// GenerateDefaultConfig creates documented default config and sources
// files in the config directory. Returns the config path. Existing
// files are never overwritten; when both already exist the call is a
// no-op.
func GenerateDefaultConfig() (string, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}

	sourcesPath, err := GetDefaultSourcesPath()
	if err != nil {
		return "", err
	}

	configExists := fileExists(configPath)
	sourcesExists := fileExists(sourcesPath)

	if configExists && sourcesExists {
		return configPath, nil
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if !configExists {
		err := os.WriteFile(configPath, []byte(templates.ConfigYAML), 0644)
		if err != nil {
			return "", fmt.Errorf("failed to write config file: %w", err)
		}
	}

	if !sourcesExists {
		err := os.WriteFile(sourcesPath, []byte(templates.SourcesYAML), 0644)
		if err != nil {
			return "", fmt.Errorf("failed to write sources file: %w", err)
		}
	}

	return configPath, nil
}

// ValidateGeneratedConfig reads a generated config file and checks it
// is well-formed YAML that unmarshals into a Config. Used by tests.
func ValidateGeneratedConfig(configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}

	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
