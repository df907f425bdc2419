package iostore

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/seiten/pagedb/pkg/db"
	"github.com/seiten/pagedb/pkg/ident"
	"github.com/seiten/pagedb/pkg/schema"
	"github.com/seiten/pagedb/pkg/store"
)

// annotationStore implements store.AnnotationStore.
type annotationStore struct {
	operator db.Operator
}

// NewAnnotationStore creates a new AnnotationStore.
func NewAnnotationStore(op db.Operator) store.AnnotationStore {
	return &annotationStore{operator: op}
}

// Insert persists one annotation referencing an already-resolved page.
// Width and height come from the declared size when present, otherwise
// from the bbox; the two channels are never cross-validated.
func (s *annotationStore) Insert(
	ctx context.Context,
	pageID int,
	in store.AnnotationInput,
) (int, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return 0, NotConnectedError()
	}

	width, height := in.Dimensions()
	bbox, err := in.BBox.Value()
	if err != nil {
		return 0, InsertAnnotationError(in.FileName, err)
	}

	query := `
		INSERT INTO annotations
			(key_id, category_id, bbox, file_name,
			 width, height, percent_page)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING image_id
	`

	var id int
	err = pool.QueryRow(ctx, query,
		pageID, in.CategoryID, bbox, in.FileName,
		width, height, in.Percent(),
	).Scan(&id)
	if err != nil {
		return 0, InsertAnnotationError(in.FileName, err)
	}

	return id, nil
}

// InsertMany persists the annotations of one page in a single
// transaction. On failure the transaction is rolled back, so a save of
// several regions never half-applies.
func (s *annotationStore) InsertMany(
	ctx context.Context,
	pageID int,
	ins []store.AnnotationInput,
) (int, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return 0, NotConnectedError()
	}
	if len(ins) == 0 {
		return 0, nil
	}

	records := make([][]any, 0, len(ins))
	for _, in := range ins {
		width, height := in.Dimensions()
		bbox, err := in.BBox.Value()
		if err != nil {
			return 0, InsertAnnotationError(in.FileName, err)
		}
		records = append(records, []any{
			pageID, in.CategoryID, bbox, in.FileName,
			width, height, in.Percent(),
		})
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, BulkInsertError(err)
	}
	defer tx.Rollback(ctx)

	n, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"annotations"},
		[]string{
			"key_id", "category_id", "bbox", "file_name",
			"width", "height", "percent_page",
		},
		pgx.CopyFromRows(records),
	)
	if err != nil {
		return 0, BulkInsertError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, BulkInsertError(err)
	}

	return int(n), nil
}

// BulkInsert persists many annotations in one transaction using pgx
// CopyFrom. With a non-nil mapping, annotations whose file name has no
// entry are silently skipped; with a nil mapping every annotation is
// inserted with a NULL page reference for later reconciliation.
func (s *annotationStore) BulkInsert(
	ctx context.Context,
	ins []store.AnnotationInput,
	pageIDs map[string]int,
) (int, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return 0, NotConnectedError()
	}

	columns := []string{
		"key_id", "category_id", "bbox", "file_name",
		"width", "height", "percent_page",
	}

	var records [][]any
	for _, in := range ins {
		var keyID any
		if pageIDs != nil {
			id, ok := pageIDs[ident.AnnotationPageKey(in.FileName)]
			if !ok {
				continue
			}
			keyID = id
		}

		width, height := in.Dimensions()
		bbox, err := in.BBox.Value()
		if err != nil {
			return 0, BulkInsertError(err)
		}

		records = append(records, []any{
			keyID, in.CategoryID, bbox, in.FileName,
			width, height, in.Percent(),
		})
	}

	if len(records) == 0 {
		return 0, nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, BulkInsertError(err)
	}
	defer tx.Rollback(ctx)

	n, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"annotations"},
		columns,
		pgx.CopyFromRows(records),
	)
	if err != nil {
		return 0, BulkInsertError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, BulkInsertError(err)
	}

	return int(n), nil
}

// ByPage returns the annotations owned by a page in insertion order.
// Width and height of each returned item are recomputed from the stored
// bbox; the stored declared values are intentionally ignored on the
// read path.
func (s *annotationStore) ByPage(
	ctx context.Context,
	key string,
) ([]schema.Annotation, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}

	query := `
		SELECT a.image_id, a.category_id, a.bbox, a.file_name,
			a.percent_page, a.key_id
		FROM annotations a
		JOIN pages p ON a.key_id = p.id
		WHERE p.file_name = $1
		ORDER BY a.image_id
	`

	rows, err := pool.Query(ctx, query, key)
	if err != nil {
		return nil, QueryAnnotationsError(key, err)
	}
	defer rows.Close()

	var res []schema.Annotation
	for rows.Next() {
		var a schema.Annotation
		err := rows.Scan(
			&a.ImageID, &a.CategoryID, &a.BBox, &a.FileName,
			&a.PercentPage, &a.KeyID,
		)
		if err != nil {
			return nil, QueryAnnotationsError(key, err)
		}

		a.Width = a.BBox.Width()
		a.Height = a.BBox.Height()
		res = append(res, a)
	}
	if err := rows.Err(); err != nil {
		return nil, QueryAnnotationsError(key, err)
	}

	return res, nil
}

// Unlinked returns {image_id -> raw file name} for annotations whose
// page reference is unresolved.
func (s *annotationStore) Unlinked(
	ctx context.Context,
) (map[int]string, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}

	rows, err := pool.Query(ctx,
		"SELECT image_id, file_name FROM annotations WHERE key_id IS NULL")
	if err != nil {
		return nil, QueryAnnotationsError("", err)
	}
	defer rows.Close()

	res := make(map[int]string)
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, QueryAnnotationsError("", err)
		}
		res[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, QueryAnnotationsError("", err)
	}

	return res, nil
}
