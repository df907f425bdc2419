// Package store defines the contracts for page and annotation persistence.
// Implementations live in internal/iostore.
package store

import (
	"context"

	"github.com/seiten/pagedb/pkg/schema"
)

// AnnotationInput is the payload for annotation writes. It carries the
// raw file name as supplied by the producer and two optional "declared"
// channels that take precedence over bbox-derived values when present.
type AnnotationInput struct {
	// CategoryID is an ordinal from the closed category set.
	CategoryID int

	// BBox is the region in absolute pixel coordinates.
	BBox schema.BBox

	// FileName is the raw, non-canonical identifier. Stored verbatim
	// for traceability.
	FileName string

	// Size is the declared [width, height] pair. When set it is stored
	// verbatim, without cross-validation against BBox. The producing
	// pipeline's values are treated as authoritative.
	Size *[2]float64

	// PercentPage is the declared fraction of page area. When nil the
	// stored value defaults to zero; the store never recomputes it from
	// page dimensions, which may not be loaded at insert time.
	PercentPage *float64
}

// Dimensions returns the width and height to persist: the declared size
// verbatim when present, otherwise values derived from the bounding box.
func (in AnnotationInput) Dimensions() (float64, float64) {
	if in.Size != nil {
		return in.Size[0], in.Size[1]
	}
	return in.BBox.Width(), in.BBox.Height()
}

// Percent returns the declared page fraction, or zero when absent.
func (in AnnotationInput) Percent() float64 {
	if in.PercentPage != nil {
		return *in.PercentPage
	}
	return 0
}

// PageStore provides CRUD over pages keyed on the canonical identifier.
type PageStore interface {
	// GetOrCreate looks a page up by canonical name and returns its id
	// without mutation. A missing page is created with zero dimensions
	// and empty provenance. Atomic with respect to concurrent callers
	// for the same name: at most one row per canonical name.
	GetOrCreate(ctx context.Context, key string) (int, error)

	// Upsert inserts a full page row, or updates all metadata fields in
	// place when the canonical name already exists. Returns the page id.
	Upsert(ctx context.Context, p schema.Page) (int, error)

	// ByKey returns the page with the given canonical name, or nil when
	// no such page exists.
	ByKey(ctx context.Context, key string) (*schema.Page, error)

	// KeyIDs returns the complete {canonical name -> id} mapping.
	KeyIDs(ctx context.Context) (map[string]int, error)

	// Delete removes a page. Its annotations go with it (cascade).
	Delete(ctx context.Context, id int) error
}

// AnnotationStore provides CRUD over annotations.
type AnnotationStore interface {
	// Insert persists one annotation referencing an already-resolved
	// page. Returns the new annotation id.
	Insert(ctx context.Context, pageID int, in AnnotationInput) (int, error)

	// InsertMany persists the annotations of one page in a single
	// transaction. All-or-nothing: on failure no row is committed.
	// Returns the number of rows inserted.
	InsertMany(ctx context.Context, pageID int, ins []AnnotationInput) (int, error)

	// BulkInsert persists many annotations in one transaction. A
	// non-nil mapping is keyed by canonical page name; annotations
	// whose derived page key has no entry are silently skipped, the
	// documented policy for partial imports, not an error. With a
	// nil mapping every annotation is
	// inserted with an unresolved page reference for the linker to fix
	// up afterwards. Returns the number of rows inserted.
	BulkInsert(ctx context.Context, ins []AnnotationInput, pageIDs map[string]int) (int, error)

	// ByPage returns the annotations owned by the page with the given
	// canonical name, in insertion order. Width and height of each item
	// are recomputed from the stored bbox, not read from the stored
	// declared values.
	ByPage(ctx context.Context, key string) ([]schema.Annotation, error)

	// Unlinked returns the ids and raw file names of annotations whose
	// page reference is unresolved.
	Unlinked(ctx context.Context) (map[int]string, error)
}
