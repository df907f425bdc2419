package lifecycle

import (
	"context"

	"github.com/seiten/pagedb/pkg/config"
)

// SchemaManager defines the interface for database schema management.
// It uses GORM AutoMigrate plus explicit constraint DDL for the
// annotations -> pages cascade. Schema management is idempotent - safe
// to run multiple times.
type SchemaManager interface {
	// Create creates the initial database schema using GORM AutoMigrate
	// and applies the ON DELETE CASCADE foreign key from annotations to
	// pages.
	Create(ctx context.Context, cfg *config.Config) error

	// Migrate updates the database schema to the latest version. GORM
	// handles column additions automatically; constraints are reapplied.
	Migrate(ctx context.Context, cfg *config.Config) error
}
