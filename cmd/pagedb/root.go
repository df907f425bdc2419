package main

import (
	"fmt"
	"os"

	"github.com/seiten/pagedb/internal/ioconfig"
	"github.com/seiten/pagedb/pkg/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pagedb",
		Short: "pagedb manages the page annotation database lifecycle",
		Long: `pagedb is a CLI tool for managing the lifecycle of the newspaper page
annotation PostgreSQL database, from schema creation through dataset
import to the HTTP API used by the annotation front-end.

The tool provides five main commands:
  - create: Create database schema
  - migrate: Apply schema migrations
  - populate: Import page and annotation datasets
  - link: Reconcile annotation page references
  - serve: Run the HTTP annotation API

Configuration precedence (highest to lowest):
  1. CLI flags (--sources, --port, etc.)
  2. Environment variables (PAGEDB_*)
  3. Config file (~/.config/pagedb/config.yaml)
  4. Built-in defaults

Environment Variables:
  All configuration can be set via PAGEDB_* environment variables.
  Nested fields use underscores (database.host → PAGEDB_DATABASE_HOST).

  Examples:
    PAGEDB_DATABASE_HOST            PostgreSQL host
    PAGEDB_DATABASE_PORT            PostgreSQL port
    PAGEDB_DATABASE_PASSWORD        PostgreSQL password
    PAGEDB_SERVER_PORT              HTTP API port
    PAGEDB_DETECTOR_URL             Layout detection service URL
    PAGEDB_LOG_LEVEL                Log level (debug/info/warn/error)

  See 'go doc github.com/seiten/pagedb/pkg/config' for complete list.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Generate default config and sources files on first run.
			if cfgFile == "" {
				if _, err := ioconfig.GenerateDefaultConfig(); err != nil {
					// Only warn, defaults still work.
					fmt.Printf("Warning: could not generate config file: %v\n", err)
				}
			}

			result, err := ioconfig.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg = result.Config

			if homeDir, err := os.UserHomeDir(); err == nil {
				cfg.Update([]config.Option{config.OptHomeDir(homeDir)})
			}

			switch result.Source {
			case "file":
				fmt.Printf("Using config from: %s\n", result.SourcePath)
			case "defaults+env":
				fmt.Println("Using built-in defaults with environment variable overrides")
			case "defaults":
				fmt.Println("Using built-in defaults (no config file)")
			}

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.config/pagedb/config.yaml)")

	rootCmd.Flags().BoolP("version", "V", false, "version for pagedb")

	rootCmd.AddCommand(getCreateCmd())
	rootCmd.AddCommand(getMigrateCmd())
	rootCmd.AddCommand(getPopulateCmd())
	rootCmd.AddCommand(getLinkCmd())
	rootCmd.AddCommand(getServeCmd())

	return rootCmd
}

// getConfig returns the loaded configuration for subcommands.
func getConfig() *config.Config {
	return cfg
}
