package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidSSLMode(s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of annotations per bulk-insert batch.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptServerHost sets the interface the API server binds to.
func OptServerHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Server Host", s) {
			c.Server.Host = s
		}
	}
}

// OptServerPort sets the API server port number.
func OptServerPort(i int) Option {
	return func(c *Config) {
		if isValidInt("Server Port", i) {
			c.Server.Port = i
		}
	}
}

// OptServerCORSOrigin sets the front-end origin allowed to call the API.
func OptServerCORSOrigin(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("CORS Origin", s) {
			c.Server.CORSOrigin = s
		}
	}
}

// OptDetectorURL sets the prediction endpoint of the detection service.
func OptDetectorURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Detector URL", s) {
			c.Detector.URL = s
		}
	}
}

// OptDetectorScoreThreshold sets the confidence cutoff for predictions.
func OptDetectorScoreThreshold(f float64) Option {
	return func(c *Config) {
		if isValidFraction("Score Threshold", f) {
			c.Detector.ScoreThreshold = f
		}
	}
}

// OptPopulateSourcesFile overrides the sources.yaml location.
// Runtime-only field, set via CLI flag.
func OptPopulateSourcesFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if s != "" {
			c.Populate.SourcesFile = s
		}
	}
}

// OptPopulateStrict makes populate fail when annotations remain unlinked
// after reconciliation.
func OptPopulateStrict(b bool) Option {
	return func(c *Config) {
		c.Populate.Strict = b
	}
}

// OptLogFormat sets the log output format ('json' or 'text').
func OptLogFormat(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidLogFormat(s) {
			c.Log.Format = s
		}
	}
}

// OptLogLevel sets the log level ('error', 'warn', 'info', 'debug').
func OptLogLevel(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidLogLevel(s) {
			c.Log.Level = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers.
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the directory that config and log paths derive from.
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Dir", s) {
			c.HomeDir = s
		}
	}
}
