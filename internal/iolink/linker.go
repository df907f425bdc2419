// Package iolink implements the batch linker that reconciles annotation
// page references after bulk imports. This is an impure I/O package.
package iolink

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/jackc/pgx/v5"
	"github.com/seiten/pagedb/pkg/db"
	"github.com/seiten/pagedb/pkg/ident"
	"github.com/seiten/pagedb/pkg/lifecycle"
)

// linker implements the lifecycle.Linker interface.
type linker struct {
	operator db.Operator
}

// New creates a new Linker.
func New(op db.Operator) lifecycle.Linker {
	return &linker{operator: op}
}

// annRef is the minimal projection of an annotation the linker needs.
type annRef struct {
	imageID  int
	fileName string
	keyID    sql.NullInt32
}

// ReconcileAll scans every annotation, derives the canonical page
// identifier from its recorded file name, and repairs the page reference
// where it is missing or wrong. Annotations whose identifier matches no
// page keep their current reference; the linker never creates pages.
//
// The derivation is deterministic, so a second run finds nothing to
// update and the operation is idempotent.
func (l *linker) ReconcileAll(ctx context.Context) (int, error) {
	pool := l.operator.Pool()
	if pool == nil {
		return 0, NotConnectedError()
	}

	start := time.Now()
	slog.Info("Starting annotation reconciliation")

	pageIDs, err := l.loadPageIDs(ctx)
	if err != nil {
		return 0, err
	}

	anns, err := l.loadAnnotations(ctx)
	if err != nil {
		return 0, err
	}

	slog.Info("Loaded reconciliation inputs",
		"pages", len(pageIDs),
		"annotations", len(anns),
	)

	updates := make(map[int]int)
	unmatched := 0
	for _, a := range anns {
		key := ident.AnnotationPageKey(a.fileName)
		id, ok := pageIDs[key]
		if !ok {
			unmatched++
			continue
		}
		if a.keyID.Valid && int(a.keyID.Int32) == id {
			continue
		}
		updates[a.imageID] = id
	}

	if err := l.applyUpdates(ctx, updates); err != nil {
		return 0, err
	}

	duration := time.Since(start)
	slog.Info("Reconciliation complete",
		"updated", len(updates),
		"unmatched", unmatched,
		"duration", gnfmt.TimeString(duration.Seconds()),
	)
	gn.Info(`Reconciliation complete
Updated <em>%s</em> annotations, %s left without a page.
Elapsed time: <em>%s</em>
`,
		humanize.Comma(int64(len(updates))),
		humanize.Comma(int64(unmatched)),
		gnfmt.TimeString(duration.Seconds()),
	)

	return len(updates), nil
}

func (l *linker) loadPageIDs(
	ctx context.Context,
) (map[string]int, error) {
	pool := l.operator.Pool()

	rows, err := pool.Query(ctx,
		"SELECT id, file_name FROM pages")
	if err != nil {
		return nil, ScanError("pages", err)
	}
	defer rows.Close()

	res := make(map[string]int)
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, ScanError("pages", err)
		}
		res[name] = id
	}
	if err := rows.Err(); err != nil {
		return nil, ScanError("pages", err)
	}

	return res, nil
}

func (l *linker) loadAnnotations(
	ctx context.Context,
) ([]annRef, error) {
	pool := l.operator.Pool()

	rows, err := pool.Query(ctx,
		"SELECT image_id, file_name, key_id FROM annotations")
	if err != nil {
		return nil, ScanError("annotations", err)
	}
	defer rows.Close()

	var res []annRef
	for rows.Next() {
		var a annRef
		if err := rows.Scan(&a.imageID, &a.fileName, &a.keyID); err != nil {
			return nil, ScanError("annotations", err)
		}
		res = append(res, a)
	}
	if err := rows.Err(); err != nil {
		return nil, ScanError("annotations", err)
	}

	return res, nil
}

// applyUpdates writes all repaired references in one transaction so a
// partial reconciliation never becomes visible.
func (l *linker) applyUpdates(
	ctx context.Context,
	updates map[int]int,
) error {
	if len(updates) == 0 {
		return nil
	}

	pool := l.operator.Pool()
	tx, err := pool.Begin(ctx)
	if err != nil {
		return UpdateError(err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for imageID, pageID := range updates {
		batch.Queue(
			"UPDATE annotations SET key_id = $1 WHERE image_id = $2",
			pageID, imageID,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range updates {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return UpdateError(err)
		}
	}
	if err := br.Close(); err != nil {
		return UpdateError(err)
	}

	return tx.Commit(ctx)
}
