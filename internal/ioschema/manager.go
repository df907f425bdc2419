// Package ioschema implements the SchemaManager interface for database
// schema management. This is an impure I/O package that wraps GORM
// AutoMigrate and applies the referential-integrity DDL the stores rely
// on.
package ioschema

import (
	"context"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/seiten/pagedb/pkg/config"
	"github.com/seiten/pagedb/pkg/db"
	"github.com/seiten/pagedb/pkg/lifecycle"
	"github.com/seiten/pagedb/pkg/schema"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// manager implements the lifecycle.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

// Create creates the initial database schema using GORM AutoMigrate and
// applies the cascade foreign key from annotations to pages.
func (m *manager) Create(
	ctx context.Context,
	cfg *config.Config,
) error {
	if err := m.autoMigrate(); err != nil {
		return err
	}

	return m.setConstraints(ctx)
}

// Migrate updates the database schema to the latest version using GORM
// AutoMigrate and re-applies constraints.
func (m *manager) Migrate(
	ctx context.Context,
	cfg *config.Config,
) error {
	if err := m.autoMigrate(); err != nil {
		return MigrateSchemaError(err)
	}

	return m.setConstraints(ctx)
}

func (m *manager) autoMigrate() error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	if err := schema.Migrate(gormDB); err != nil {
		return CreateSchemaError(err)
	}

	return nil
}

// setConstraints applies DDL that AutoMigrate does not cover. The
// cascade delete from annotations.key_id to pages.id is what every
// page-removal path relies on; no annotation row may survive its page.
func (m *manager) setConstraints(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	stmts := []string{
		`ALTER TABLE annotations
			DROP CONSTRAINT IF EXISTS fk_annotations_page`,
		`ALTER TABLE annotations
			ADD CONSTRAINT fk_annotations_page
			FOREIGN KEY (key_id) REFERENCES pages(id)
			ON DELETE CASCADE`,
	}

	for _, q := range stmts {
		if _, err := pool.Exec(ctx, q); err != nil {
			return ConstraintError("annotations", "key_id", err)
		}
	}

	return nil
}
