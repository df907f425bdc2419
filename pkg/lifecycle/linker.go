package lifecycle

import (
	"context"
)

// Linker reconciles annotation page references after bulk imports.
// It is a full-scan batch operation, designed for offline reconciliation
// of independently produced datasets, not for interactive latency.
type Linker interface {
	// ReconcileAll computes the canonical page identifier for every
	// annotation's recorded file name and repairs its page reference
	// accordingly. Annotations whose identifier matches no page are left
	// untouched; the linker never creates pages. Idempotent: a second
	// run performs zero updates. Returns the number of annotations
	// updated.
	ReconcileAll(ctx context.Context) (int, error)
}
