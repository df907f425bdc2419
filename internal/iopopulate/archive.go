package iopopulate

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/seiten/pagedb/pkg/ident"
	"github.com/seiten/pagedb/pkg/schema"
	"github.com/seiten/pagedb/pkg/store"
	_ "modernc.org/sqlite"
)

// openArchive opens a SQLite archive read-only.
func openArchive(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro", path)
	archiveDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := archiveDB.Ping(); err != nil {
		archiveDB.Close()
		return nil, err
	}
	return archiveDB, nil
}

// readArchivePages reads the "pages" table of a SQLite archive. Year
// and nr columns are optional in older archives.
func readArchivePages(archiveDB *sql.DB) ([]schema.Page, error) {
	rows, err := archiveDB.Query(`
		SELECT file_name, width, height,
			COALESCE(year, ''), COALESCE(nr, '')
		FROM pages
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []schema.Page
	for rows.Next() {
		var p schema.Page
		err := rows.Scan(&p.FileName, &p.Width, &p.Height, &p.Year, &p.Nr)
		if err != nil {
			return nil, err
		}
		p.FileName = ident.PageKey(p.FileName)
		res = append(res, p)
	}
	return res, rows.Err()
}

// readArchiveAnnotations reads the "annotations" table of a SQLite
// archive. The bbox column holds a JSON array [x1, y1, x2, y2].
func readArchiveAnnotations(archiveDB *sql.DB) ([]store.AnnotationInput, error) {
	rows, err := archiveDB.Query(`
		SELECT category_id, bbox, file_name, width, height, percent_page
		FROM annotations
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []store.AnnotationInput
	for rows.Next() {
		var (
			in      store.AnnotationInput
			bboxRaw string
			width   sql.NullFloat64
			height  sql.NullFloat64
			percent sql.NullFloat64
		)
		err := rows.Scan(&in.CategoryID, &bboxRaw, &in.FileName,
			&width, &height, &percent)
		if err != nil {
			return nil, err
		}

		var coords []float64
		if err := json.Unmarshal([]byte(bboxRaw), &coords); err != nil {
			return nil, fmt.Errorf("bad bbox %q: %w", bboxRaw, err)
		}
		in.BBox = schema.NewBBox(coords)

		if width.Valid && height.Valid {
			in.Size = &[2]float64{width.Float64, height.Float64}
		}
		if percent.Valid {
			p := percent.Float64
			in.PercentPage = &p
		}

		res = append(res, in)
	}
	return res, rows.Err()
}
