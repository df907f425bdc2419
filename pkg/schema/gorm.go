package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&Page{},
		&Annotation{},
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
// The ON DELETE CASCADE foreign key from annotations.key_id to pages.id
// is applied separately by the schema manager; AutoMigrate only creates
// tables, columns and indexes.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
