// Package schema provides database schema models for pagedb.
// A page owns its annotations; deleting a page cascades to them.
package schema

import (
	"database/sql"
)

// DDLGenerator defines how Go models generate PostgreSQL DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the PostgreSQL table name for this model.
	TableName() string
}

// Page represents one physical scanned newspaper page.
type Page struct {
	// ID is a surrogate key assigned on creation, immutable.
	ID int `db:"id" ddl:"SERIAL PRIMARY KEY" gorm:"primaryKey"`

	// UUID is a deterministic UUID v5 derived from FileName.
	// Carried for traceability across exports; FileName stays the join key.
	UUID string `db:"uuid" ddl:"UUID" gorm:"type:uuid"`

	// FileName is the canonical page identifier: extension-stripped,
	// unique per logical page. Two raw names that strip to the same
	// canonical form refer to the same page.
	FileName string `db:"file_name" ddl:"VARCHAR(255) NOT NULL UNIQUE" gorm:"type:varchar(255);uniqueIndex;not null"`

	// Width and Height are pixel dimensions. Zero is a valid
	// "unknown" sentinel for pages auto-created from annotation saves.
	Width  int `db:"width" ddl:"INT NOT NULL DEFAULT 0" gorm:"not null;default:0"`
	Height int `db:"height" ddl:"INT NOT NULL DEFAULT 0" gorm:"not null;default:0"`

	// Year and Nr are free-form provenance metadata of the issue.
	Year string `db:"year" ddl:"VARCHAR(10)" gorm:"type:varchar(10)"`
	Nr   string `db:"nr" ddl:"VARCHAR(10)" gorm:"type:varchar(10)"`
}

// Annotation represents one detected or hand-labeled region on a page.
type Annotation struct {
	// ImageID is the surrogate primary key.
	ImageID int `db:"image_id" ddl:"SERIAL PRIMARY KEY" gorm:"column:image_id;primaryKey"`

	// CategoryID is an ordinal from the closed category set.
	CategoryID int `db:"category_id" ddl:"INT NOT NULL" gorm:"not null"`

	// BBox holds absolute pixel coordinates [x1, y1, x2, y2].
	BBox BBox `db:"bbox" ddl:"JSONB NOT NULL" gorm:"type:jsonb;not null"`

	// FileName is the raw identifier as supplied by the producer.
	// Kept for traceability; joins always go through KeyID, never
	// through this column.
	FileName string `db:"file_name" ddl:"VARCHAR(255)" gorm:"type:varchar(255)"`

	// Width and Height are the declared region dimensions. On the write
	// path a caller-declared size wins over the bbox-derived one; on the
	// read path dimensions are always recomputed from BBox.
	Width  float64 `db:"width" ddl:"DOUBLE PRECISION NOT NULL DEFAULT 0" gorm:"not null;default:0"`
	Height float64 `db:"height" ddl:"DOUBLE PRECISION NOT NULL DEFAULT 0" gorm:"not null;default:0"`

	// PercentPage is the fraction of total page pixel area covered by
	// the region, in [0,1].
	PercentPage float64 `db:"percent_page" ddl:"DOUBLE PRECISION NOT NULL DEFAULT 0" gorm:"not null;default:0"`

	// KeyID references the owning page. NULL only transiently, until the
	// linker or insert-time get-or-create resolves it.
	KeyID sql.NullInt32 `db:"key_id" ddl:"INT REFERENCES pages(id) ON DELETE CASCADE" gorm:"column:key_id"`
}
