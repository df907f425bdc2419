package main

import (
	"context"
	"fmt"

	"github.com/seiten/pagedb/internal/iodb"
	"github.com/seiten/pagedb/internal/iopopulate"
	"github.com/seiten/pagedb/pkg/config"
	"github.com/spf13/cobra"
)

var (
	sourcesFile    string
	strictPopulate bool
)

func getPopulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "populate",
		Short: "Import page and annotation datasets",
		Long: `Import pages and annotations from the datasets listed in sources.yaml.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Reads datasets (COCO-style JSON pairs or SQLite archives)
  3. Upserts pages and bulk-inserts annotations
  4. Reconciles annotation page references afterwards

A failing dataset is reported and skipped; the run fails only when
every dataset fails. With --strict the run also fails when annotations
remain without a page after reconciliation.

Examples:
  pagedb populate
  pagedb populate --sources datasets.yaml --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := getConfig()

			var opts []config.Option
			if sourcesFile != "" {
				opts = append(opts, config.OptPopulateSourcesFile(sourcesFile))
			}
			if strictPopulate {
				opts = append(opts, config.OptPopulateStrict(true))
			}
			cfg.Update(opts)

			op := iodb.NewPgxOperator()
			if err := op.Connect(ctx, &cfg.Database); err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer op.Close()

			populator := iopopulate.New(cfg, op)
			if err := populator.Populate(ctx); err != nil {
				return fmt.Errorf("population failed: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&sourcesFile, "sources", "",
		"datasets file (default: ~/.config/pagedb/sources.yaml)")
	cmd.Flags().BoolVar(&strictPopulate, "strict", false,
		"fail when annotations remain without a page after reconciliation")

	return cmd
}
