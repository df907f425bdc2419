package config

import (
	"slices"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, Populate.SourcesFile).
// Used for round-tripping config.yaml <-> Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option

	if c.Database.Host != "" {
		res = append(res, OptDatabaseHost(c.Database.Host))
	}
	if c.Database.Port > 0 {
		res = append(res, OptDatabasePort(c.Database.Port))
	}
	if c.Database.User != "" {
		res = append(res, OptDatabaseUser(c.Database.User))
	}
	if c.Database.Password != "" {
		res = append(res, OptDatabasePassword(c.Database.Password))
	}
	if c.Database.Database != "" {
		res = append(res, OptDatabaseDatabase(c.Database.Database))
	}
	if c.Database.SSLMode != "" {
		res = append(res, OptDatabaseSSLMode(c.Database.SSLMode))
	}
	if c.Database.BatchSize > 0 {
		res = append(res, OptDatabaseBatchSize(c.Database.BatchSize))
	}

	if c.Server.Host != "" {
		res = append(res, OptServerHost(c.Server.Host))
	}
	if c.Server.Port > 0 {
		res = append(res, OptServerPort(c.Server.Port))
	}
	if c.Server.CORSOrigin != "" {
		res = append(res, OptServerCORSOrigin(c.Server.CORSOrigin))
	}

	if c.Detector.URL != "" {
		res = append(res, OptDetectorURL(c.Detector.URL))
	}
	if c.Detector.ScoreThreshold > 0 {
		res = append(res, OptDetectorScoreThreshold(c.Detector.ScoreThreshold))
	}

	if c.Log.Format != "" {
		res = append(res, OptLogFormat(c.Log.Format))
	}
	if c.Log.Level != "" {
		res = append(res, OptLogLevel(c.Log.Level))
	}
	if c.JobsNumber > 0 {
		res = append(res, OptJobsNumber(c.JobsNumber))
	}
	if c.Populate.Strict {
		res = append(res, OptPopulateStrict(true))
	}

	return res
}

func isValidString(field, s string) bool {
	if s == "" {
		gn.Warn("Ignoring empty value for <em>%s</em>.", field)
		return false
	}
	return true
}

func isValidInt(field string, i int) bool {
	if i <= 0 {
		gn.Warn("Ignoring non-positive value %d for <em>%s</em>.", i, field)
		return false
	}
	return true
}

func isValidFraction(field string, f float64) bool {
	if f < 0 || f > 1 {
		gn.Warn("Ignoring out-of-range value %f for <em>%s</em>.", f, field)
		return false
	}
	return true
}

func isValidSSLMode(s string) bool {
	valid := []string{"disable", "require", "verify-ca", "verify-full"}
	if !slices.Contains(valid, s) {
		gn.Warn("Ignoring invalid SSL mode <em>%s</em>.", s)
		return false
	}
	return true
}

func isValidLogFormat(s string) bool {
	if s != "json" && s != "text" {
		gn.Warn("Ignoring invalid log format <em>%s</em>.", s)
		return false
	}
	return true
}

func isValidLogLevel(s string) bool {
	valid := []string{"debug", "info", "warn", "warning", "error"}
	if !slices.Contains(valid, s) {
		gn.Warn("Ignoring invalid log level <em>%s</em>.", s)
		return false
	}
	return true
}
