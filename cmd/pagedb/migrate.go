package main

import (
	"context"
	"fmt"

	"github.com/seiten/pagedb/internal/iodb"
	"github.com/seiten/pagedb/internal/ioschema"
	"github.com/spf13/cobra"
)

func getMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations",
		Long: `Update the database schema to the latest version.

GORM AutoMigrate adds missing tables and columns without touching
existing data; the cascade constraint is reapplied afterwards. Safe to
run multiple times.

Examples:
  pagedb migrate
  pagedb migrate --config custom.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := getConfig()

			op := iodb.NewPgxOperator()
			if err := op.Connect(ctx, &cfg.Database); err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer op.Close()

			sm := ioschema.NewManager(op)
			fmt.Println("Applying schema migrations...")
			if err := sm.Migrate(ctx, cfg); err != nil {
				return fmt.Errorf("failed to migrate schema: %w", err)
			}

			fmt.Println("✓ Schema is up to date")
			return nil
		},
	}
	return cmd
}
