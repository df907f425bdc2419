package lifecycle

import (
	"context"
)

// Populator imports page and annotation datasets into the database.
// Datasets are produced independently; annotations arrive without page
// references and are joined afterwards via the Linker.
type Populator interface {
	// Populate imports all configured datasets. Per-dataset failures
	// are isolated; an error is returned only when every dataset fails
	// or when a whole-batch failure aborts the run.
	Populate(ctx context.Context) error
}
