package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/seiten/pagedb/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cfg := config.New()

	t.Run("creates valid default config", func(t *testing.T) {
		require.NotNil(t, cfg)

		// Database defaults
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "pagedb", cfg.Database.Database)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 10_000, cfg.Database.BatchSize)

		// Server defaults
		assert.Equal(t, "127.0.0.1", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "http://localhost:3000", cfg.Server.CORSOrigin)

		// Detector defaults
		assert.Equal(t, "http://localhost:8500/predict", cfg.Detector.URL)
		assert.InDelta(t, 0.5, cfg.Detector.ScoreThreshold, 1e-9)

		// Log defaults
		assert.Equal(t, "text", cfg.Log.Format)
		assert.Equal(t, "info", cfg.Log.Level)

		assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
	})
}

func TestOptions(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabaseHost("db.example.org"),
		config.OptDatabasePort(5433),
		config.OptServerPort(9090),
		config.OptDetectorScoreThreshold(0.3),
		config.OptPopulateStrict(true),
		config.OptLogFormat("json"),
	})

	assert.Equal(t, "db.example.org", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.InDelta(t, 0.3, cfg.Detector.ScoreThreshold, 1e-9)
	assert.True(t, cfg.Populate.Strict)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestOptionsRejectInvalid(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabaseHost("  "),
		config.OptDatabasePort(-1),
		config.OptDatabaseSSLMode("bogus"),
		config.OptDetectorScoreThreshold(1.5),
		config.OptLogLevel("chatty"),
	})

	// Invalid options leave the defaults untouched.
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.InDelta(t, 0.5, cfg.Detector.ScoreThreshold, 1e-9)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestToOptionsRoundTrip(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabaseDatabase("pagedb_test"),
		config.OptServerCORSOrigin("http://front.example.org"),
		config.OptPopulateStrict(true),
	})

	clone := config.New()
	clone.Update(cfg.ToOptions())

	assert.Equal(t, cfg.Database, clone.Database)
	assert.Equal(t, cfg.Server, clone.Server)
	assert.Equal(t, cfg.Detector, clone.Detector)
	assert.Equal(t, cfg.Log, clone.Log)
	assert.Equal(t, cfg.Populate.Strict, clone.Populate.Strict)
}

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "pagedb"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "pagedb", "logs"),
		},
		{
			msg: "config file",
			fn:  config.ConfigFilePath,
			res: filepath.Join(tempHome, ".config", "pagedb", "config.yaml"),
		},
		{
			msg: "sources file",
			fn:  config.SourcesFilePath,
			res: filepath.Join(tempHome, ".config", "pagedb", "sources.yaml"),
		},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, v.fn(tempHome), v.msg)
	}
}
