package main

import (
	"context"
	"fmt"

	"github.com/seiten/pagedb/internal/iodb"
	"github.com/seiten/pagedb/internal/iolink"
	"github.com/spf13/cobra"
)

func getLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Reconcile annotation page references",
		Long: `Derive the canonical page identifier from every annotation's recorded
file name and repair its page reference.

Annotations whose identifier matches no page are left untouched; the
linker never creates pages. The operation is idempotent, re-running it
on already-linked data updates nothing.

Examples:
  pagedb link
  pagedb link --config custom.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := getConfig()

			op := iodb.NewPgxOperator()
			if err := op.Connect(ctx, &cfg.Database); err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer op.Close()

			linker := iolink.New(op)
			if _, err := linker.ReconcileAll(ctx); err != nil {
				return fmt.Errorf("reconciliation failed: %w", err)
			}

			return nil
		},
	}
	return cmd
}
