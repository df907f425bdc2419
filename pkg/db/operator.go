// Package db defines the contract for basic database management.
package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seiten/pagedb/pkg/config"
)

// Operator provides connection lifecycle management and exposes the
// pgxpool.Pool for higher-level components (stores, linker, populator)
// to execute their specialized SQL internally.
//
// The interface stays minimal on purpose. Pool() lets components use
// performance-critical pgx features such as CopyFrom for bulk inserts;
// schema creation and migration are handled by GORM via the schema
// manager.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool for components to run
	// transactions, bulk inserts (CopyFrom), and custom queries.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables in the public
	// schema. Used to decide whether schema creation should prompt for
	// confirmation.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all tables in the public schema. Used during
	// schema initialization when overwriting existing data.
	DropAllTables(ctx context.Context) error
}
