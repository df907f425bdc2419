// Package iopopulate implements the Populator interface for importing
// page and annotation datasets into PostgreSQL. This is an impure I/O
// package that reads COCO-style JSON files and SQLite archives and
// performs bulk inserts.
package iopopulate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/google/uuid"
	"github.com/seiten/pagedb/internal/iolink"
	"github.com/seiten/pagedb/internal/iostore"
	"github.com/seiten/pagedb/pkg/config"
	"github.com/seiten/pagedb/pkg/db"
	"github.com/seiten/pagedb/pkg/lifecycle"
	"github.com/seiten/pagedb/pkg/schema"
	"github.com/seiten/pagedb/pkg/sources"
	"github.com/seiten/pagedb/pkg/store"
	"golang.org/x/sync/errgroup"
)

// populator implements the Populator interface.
type populator struct {
	cfg      *config.Config
	operator db.Operator
	pages    store.PageStore
	anns     store.AnnotationStore
	linker   lifecycle.Linker
}

// New creates a new Populator.
func New(cfg *config.Config, op db.Operator) lifecycle.Populator {
	return &populator{
		cfg:      cfg,
		operator: op,
		pages:    iostore.NewPageStore(op),
		anns:     iostore.NewAnnotationStore(op),
		linker:   iolink.New(op),
	}
}

// Populate imports all configured datasets, then reconciles annotation
// page references. Each dataset is imported in isolation: a failing one
// is reported and skipped, and the run fails only when every dataset
// fails.
func (p *populator) Populate(ctx context.Context) error {
	pool := p.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	startTime := time.Now()
	runID := uuid.New().String()
	slog.Info("Starting database population", "run_id", runID)

	srcCfg, path, err := loadSources(p.cfg)
	if err != nil {
		return err
	}

	slog.Info("Loaded dataset sources",
		"path", path,
		"datasets", len(srcCfg.Datasets),
	)

	successCount := 0
	errorCount := 0

	for i, dataset := range srcCfg.Datasets {
		datasetStart := time.Now()

		fmt.Println()
		fmt.Println(strings.Repeat("─", 60))
		gn.Info("Dataset [%d/%d]: %s",
			i+1, len(srcCfg.Datasets), dataset.Name)
		fmt.Println(strings.Repeat("─", 60))

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := p.processDataset(ctx, dataset); err != nil {
			errorCount++
			slog.Error("Failed to import dataset",
				"run_id", runID,
				"dataset", dataset.Name,
				"error", err,
			)
			// Continue with the next dataset instead of failing.
			continue
		}

		successCount++
		duration := time.Since(datasetStart)
		slog.Info("Dataset imported",
			"run_id", runID,
			"dataset", dataset.Name,
			"duration", gnfmt.TimeString(duration.Seconds()),
		)
		gn.Info("Completed in %s", gnfmt.TimeString(duration.Seconds()))
	}

	if errorCount > 0 && successCount == 0 {
		return AllDatasetsFailedError(errorCount)
	}

	if err := p.reconcile(ctx); err != nil {
		return err
	}

	totalDuration := time.Since(startTime)
	slog.Info("Population complete",
		"run_id", runID,
		"success", successCount,
		"errors", errorCount,
		"duration", gnfmt.TimeString(totalDuration.Seconds()),
	)
	gn.Info(`Population complete
Datasets succeeded: %d, failed: %d, total: %d.
Elapsed time: <em>%s</em>
`,
		successCount,
		errorCount,
		len(srcCfg.Datasets),
		gnfmt.TimeString(totalDuration.Seconds()),
	)

	if errorCount > 0 {
		slog.Warn("Some datasets failed to import",
			"failed", errorCount,
			"succeeded", successCount)
	}
	return nil
}

// processDataset loads one dataset and imports its pages and
// annotations.
func (p *populator) processDataset(
	ctx context.Context,
	dataset sources.DatasetConfig,
) error {
	gn.Info("(1/3) Reading dataset files...")
	pages, anns, err := p.readDataset(ctx, dataset)
	if err != nil {
		return err
	}

	gn.Info("(2/3) Importing %s pages...",
		humanize.Comma(int64(len(pages))))
	if err := p.importPages(ctx, pages); err != nil {
		return PagesError(dataset.Name, err)
	}

	gn.Info("(3/3) Importing %s annotations...",
		humanize.Comma(int64(len(anns))))
	n, err := p.importAnnotations(ctx, anns)
	if err != nil {
		return AnnotationsError(dataset.Name, err)
	}
	gn.Message("<em>Imported %s annotations</em>", humanize.Comma(int64(n)))

	return nil
}

// readDataset loads pages and annotations from either a SQLite archive
// or a pair of COCO JSON files. The two JSON files come from
// independent pipelines and are read concurrently.
func (p *populator) readDataset(
	ctx context.Context,
	dataset sources.DatasetConfig,
) ([]schema.Page, []store.AnnotationInput, error) {
	if dataset.IsArchive() {
		archiveDB, err := openArchive(dataset.Archive)
		if err != nil {
			return nil, nil, DatasetReadError(dataset.Name, dataset.Archive, err)
		}
		defer archiveDB.Close()

		pages, err := readArchivePages(archiveDB)
		if err != nil {
			return nil, nil, DatasetReadError(dataset.Name, dataset.Archive, err)
		}
		anns, err := readArchiveAnnotations(archiveDB)
		if err != nil {
			return nil, nil, DatasetReadError(dataset.Name, dataset.Archive, err)
		}
		return pages, anns, nil
	}

	var (
		pages []schema.Page
		anns  []store.AnnotationInput
	)

	g, _ := errgroup.WithContext(ctx)
	if dataset.Pages != "" {
		g.Go(func() error {
			var err error
			pages, err = readCOCOPages(dataset.Pages)
			if err != nil {
				return DatasetReadError(dataset.Name, dataset.Pages, err)
			}
			return nil
		})
	}
	if dataset.Annotations != "" {
		g.Go(func() error {
			var err error
			anns, err = readCOCOAnnotations(dataset.Annotations)
			if err != nil {
				return DatasetReadError(dataset.Name, dataset.Annotations, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return pages, anns, nil
}

// importPages upserts every page of a dataset, so re-importing a
// dataset refreshes page metadata instead of duplicating rows.
func (p *populator) importPages(
	ctx context.Context,
	pages []schema.Page,
) error {
	if len(pages) == 0 {
		return nil
	}

	bar := pb.Full.Start(len(pages))
	defer bar.Finish()
	bar.Set(pb.CleanOnFinish, true)

	for _, page := range pages {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, err := p.pages.Upsert(ctx, page); err != nil {
			return err
		}
		bar.Increment()
	}

	return nil
}

// importAnnotations bulk-inserts annotations in batches with an
// unresolved page reference; the linker joins them to pages afterwards.
func (p *populator) importAnnotations(
	ctx context.Context,
	anns []store.AnnotationInput,
) (int, error) {
	if len(anns) == 0 {
		return 0, nil
	}

	batchSize := p.cfg.Database.BatchSize
	if batchSize <= 0 {
		batchSize = len(anns)
	}

	bar := pb.Full.Start(len(anns))
	defer bar.Finish()
	bar.Set(pb.CleanOnFinish, true)

	total := 0
	for start := 0; start < len(anns); start += batchSize {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		default:
		}

		end := min(start+batchSize, len(anns))
		n, err := p.anns.BulkInsert(ctx, anns[start:end], nil)
		if err != nil {
			return total, err
		}
		total += n
		bar.Add(end - start)
	}

	return total, nil
}

// reconcile links imported annotations to their pages and, in strict
// mode, fails when any remain without one.
func (p *populator) reconcile(ctx context.Context) error {
	gn.Info("Reconciling annotation page references...")
	if _, err := p.linker.ReconcileAll(ctx); err != nil {
		return err
	}

	unlinked, err := p.anns.Unlinked(ctx)
	if err != nil {
		return err
	}
	if len(unlinked) == 0 {
		return nil
	}

	if p.cfg.Populate.Strict {
		return UnlinkedError(len(unlinked))
	}

	slog.Warn("Annotations remain without a page",
		"count", len(unlinked))
	gn.Warn("<em>%s</em> annotations reference pages that were not imported.",
		humanize.Comma(int64(len(unlinked))))
	return nil
}
