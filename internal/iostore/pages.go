// Package iostore implements the page and annotation stores over
// PostgreSQL. This is an impure I/O package that implements contracts
// defined in pkg/store.
package iostore

import (
	"context"
	"errors"

	"github.com/gnames/gnuuid"
	"github.com/jackc/pgx/v5"
	"github.com/seiten/pagedb/pkg/db"
	"github.com/seiten/pagedb/pkg/schema"
	"github.com/seiten/pagedb/pkg/store"
)

// pageStore implements store.PageStore.
type pageStore struct {
	operator db.Operator
}

// NewPageStore creates a new PageStore.
func NewPageStore(op db.Operator) store.PageStore {
	return &pageStore{operator: op}
}

// GetOrCreate returns the id of the page with the given canonical name,
// creating it with zero dimensions and empty provenance when absent.
//
// The unique index on file_name is the critical section: a concurrent
// caller may insert the same name between our SELECT and INSERT. The
// INSERT uses ON CONFLICT DO NOTHING, and when it affects no row the
// name is re-selected once, so exactly one row per canonical name
// survives and both callers get its id.
func (s *pageStore) GetOrCreate(
	ctx context.Context,
	key string,
) (int, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return 0, NotConnectedError()
	}

	selectQ := "SELECT id FROM pages WHERE file_name = $1"

	var id int
	err := pool.QueryRow(ctx, selectQ, key).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, SelectPageError(key, err)
	}

	insertQ := `
		INSERT INTO pages (uuid, file_name, width, height, year, nr)
		VALUES ($1, $2, 0, 0, '', '')
		ON CONFLICT (file_name) DO NOTHING
		RETURNING id
	`

	err = pool.QueryRow(ctx, insertQ,
		gnuuid.New(key).String(), key).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, InsertPageError(key, err)
	}

	// Lost the race: a concurrent caller created the row.
	err = pool.QueryRow(ctx, selectQ, key).Scan(&id)
	if err != nil {
		return 0, SelectPageError(key, err)
	}
	return id, nil
}

// Upsert inserts a full page row or updates the metadata of an existing
// one, keyed by the canonical file name. Returns the page id.
func (s *pageStore) Upsert(
	ctx context.Context,
	p schema.Page,
) (int, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return 0, NotConnectedError()
	}

	query := `
		INSERT INTO pages (uuid, file_name, width, height, year, nr)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (file_name) DO UPDATE SET
			width = EXCLUDED.width,
			height = EXCLUDED.height,
			year = EXCLUDED.year,
			nr = EXCLUDED.nr
		RETURNING id
	`

	var id int
	err := pool.QueryRow(ctx, query,
		gnuuid.New(p.FileName).String(),
		p.FileName, p.Width, p.Height, p.Year, p.Nr,
	).Scan(&id)
	if err != nil {
		return 0, UpsertPageError(p.FileName, err)
	}

	return id, nil
}

// ByKey returns the page with the given canonical name, or nil when it
// does not exist.
func (s *pageStore) ByKey(
	ctx context.Context,
	key string,
) (*schema.Page, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}

	query := `
		SELECT id, uuid, file_name, width, height, year, nr
		FROM pages
		WHERE file_name = $1
	`

	var p schema.Page
	err := pool.QueryRow(ctx, query, key).Scan(
		&p.ID, &p.UUID, &p.FileName,
		&p.Width, &p.Height, &p.Year, &p.Nr,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, SelectPageError(key, err)
	}

	return &p, nil
}

// KeyIDs loads the complete {file_name -> id} mapping for all pages.
func (s *pageStore) KeyIDs(
	ctx context.Context,
) (map[string]int, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}

	rows, err := pool.Query(ctx,
		"SELECT id, file_name FROM pages")
	if err != nil {
		return nil, PageMapError(err)
	}
	defer rows.Close()

	res := make(map[string]int)
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, PageMapError(err)
		}
		res[name] = id
	}
	if err := rows.Err(); err != nil {
		return nil, PageMapError(err)
	}

	return res, nil
}

// Delete removes a page by id. The cascade constraint removes all its
// annotations in the same statement.
func (s *pageStore) Delete(ctx context.Context, id int) error {
	pool := s.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	_, err := pool.Exec(ctx,
		"DELETE FROM pages WHERE id = $1", id)
	if err != nil {
		return DeletePageError(id, err)
	}

	return nil
}
