package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/seiten/pagedb/internal/iodb"
	"github.com/seiten/pagedb/internal/iodetect"
	"github.com/seiten/pagedb/internal/ioserver"
	"github.com/seiten/pagedb/internal/iostore"
	"github.com/seiten/pagedb/pkg/config"
	"github.com/seiten/pagedb/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

func getServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP annotation API",
		Long: `Run the HTTP API the annotation front-end talks to.

Endpoints:
  POST /segment       run layout detection on an uploaded page image
  POST /save          save the regions drawn for one page
  POST /save_all      save whole pages with their regions in bulk
  POST /ground_truth  read the stored regions of one page
  GET  /health        server and detector status

The layout detection service is consumed over HTTP; its URL and score
threshold come from the detector section of the configuration.

Examples:
  pagedb serve
  pagedb serve --port 9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			if servePort != 0 {
				cfg.Update([]config.Option{config.OptServerPort(servePort)})
			}

			ctx, stop := signal.NotifyContext(context.Background(),
				syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			op := iodb.NewPgxOperator()
			if err := op.Connect(ctx, &cfg.Database); err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer op.Close()

			log := logger.New(cfg.Log)
			srv := ioserver.New(
				cfg,
				iostore.NewPageStore(op),
				iostore.NewAnnotationStore(op),
				iodetect.New(cfg.Detector),
				log,
			)

			if err := srv.Run(ctx); err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&servePort, "port", 0,
		"HTTP API port (overrides configuration)")

	return cmd
}
