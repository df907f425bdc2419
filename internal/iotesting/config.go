// Package iotesting provides shared test utilities for integration
// tests. This is an internal package for test infrastructure only.
package iotesting

import (
	"os"
	"testing"

	"github.com/seiten/pagedb/internal/ioconfig"
	"github.com/seiten/pagedb/pkg/config"
)

// TestDatabaseName is the database name used for all integration tests
// so tests never accidentally run against a production database.
const TestDatabaseName = "pagedb_test"

// GetTestConfig returns a configuration suitable for integration tests.
// It loads the standard config (from file or defaults) and overrides
// the database name to TestDatabaseName for safety.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test")
//	    }
//	    cfg := iotesting.GetTestConfig()
//	    // ... use cfg for database operations
//	}
func GetTestConfig() *config.Config {
	result, err := ioconfig.Load("")

	var cfg *config.Config
	if err != nil {
		cfg = config.New()
	} else {
		cfg = result.Config
	}

	cfg.Database.Database = TestDatabaseName

	return cfg
}

// GetTestDatabaseConfig returns only the database configuration.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}

// SetupTempConfigDir points PAGEDB_CONFIG_DIR at a fresh temporary
// directory for the duration of a test, so tests never touch the real
// ~/.config/pagedb/. Returns the directory path.
func SetupTempConfigDir(t *testing.T) string {
	t.Helper()

	tempDir := t.TempDir()

	original := os.Getenv("PAGEDB_CONFIG_DIR")
	if err := os.Setenv("PAGEDB_CONFIG_DIR", tempDir); err != nil {
		t.Fatalf("Failed to set PAGEDB_CONFIG_DIR: %v", err)
	}

	t.Cleanup(func() {
		if original != "" {
			os.Setenv("PAGEDB_CONFIG_DIR", original)
		} else {
			os.Unsetenv("PAGEDB_CONFIG_DIR")
		}
	})

	return tempDir
}
