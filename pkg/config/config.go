// Package config provides configuration management for pagedb.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Validation helpers may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
//
// # Environment Variables
//
// Use PAGEDB_ prefix with underscores for nesting:
//
//	PAGEDB_DATABASE_HOST=localhost
//	PAGEDB_DATABASE_PORT=5432
//	PAGEDB_SERVER_PORT=8080
//	PAGEDB_DETECTOR_URL=http://localhost:8500/predict
package config

import (
	"runtime"
)

// Config represents the complete pagedb configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Server contains HTTP API settings.
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Detector contains settings for the remote layout detection service.
	Detector DetectorConfig `mapstructure:"detector" yaml:"detector"`

	// Populate contains settings specific to the populate command.
	Populate PopulateConfig `mapstructure:"populate" yaml:"populate"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel
	// operations such as dataset file reads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config and log directories reside.
	// It is set by the CLI at startup, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize defines the number of annotations per bulk-insert batch
	// during populate. Larger batches are faster but use more memory.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// ServerConfig contains HTTP API parameters.
type ServerConfig struct {
	// Host is the interface the API server binds to.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the API server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// CORSOrigin is the front-end origin allowed to call the API.
	CORSOrigin string `mapstructure:"cors_origin" yaml:"cors_origin"`
}

// DetectorConfig contains settings for the remote detection service that
// runs the layout model. The service is consumed as a black box.
type DetectorConfig struct {
	// URL is the prediction endpoint of the detection service.
	URL string `mapstructure:"url" yaml:"url"`

	// ScoreThreshold drops predictions below this confidence.
	ScoreThreshold float64 `mapstructure:"score_threshold" yaml:"score_threshold"`
}

// PopulateConfig contains settings specific to the populate command.
type PopulateConfig struct {
	// SourcesFile overrides the default sources.yaml location.
	// Runtime-only field, set via CLI flag.
	SourcesFile string `mapstructure:"sources_file" yaml:"sources_file"`

	// Strict makes populate fail when annotations remain unlinked after
	// reconciliation instead of reporting them and moving on.
	Strict bool `mapstructure:"strict" yaml:"strict"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format" yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level" yaml:"level"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "pagedb",
			SSLMode:   "disable",
			BatchSize: 10_000,
		},
		Server: ServerConfig{
			Host:       "127.0.0.1",
			Port:       8080,
			CORSOrigin: "http://localhost:3000",
		},
		Detector: DetectorConfig{
			URL:            "http://localhost:8500/predict",
			ScoreThreshold: 0.5,
		},
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
