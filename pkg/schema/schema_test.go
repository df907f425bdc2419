package schema_test

import (
	"testing"

	"github.com/seiten/pagedb/pkg/schema"
	"github.com/stretchr/testify/assert"
)

// TestPageTableDDL tests DDL generation for the Page model.
func TestPageTableDDL(t *testing.T) {
	p := schema.Page{}
	ddl := p.TableDDL()

	assert.Contains(t, ddl, "CREATE TABLE pages")
	assert.Contains(t, ddl, "id SERIAL PRIMARY KEY")
	assert.Contains(t, ddl, "file_name VARCHAR(255) NOT NULL UNIQUE")
	assert.Contains(t, ddl, "width INT NOT NULL DEFAULT 0")
	assert.Contains(t, ddl, "height INT NOT NULL DEFAULT 0")
	assert.Contains(t, ddl, "year VARCHAR(10)")
	assert.Contains(t, ddl, "nr VARCHAR(10)")
}

func TestPageTableName(t *testing.T) {
	assert.Equal(t, "pages", schema.Page{}.TableName())
}

// TestAnnotationTableDDL tests DDL generation for the Annotation model.
func TestAnnotationTableDDL(t *testing.T) {
	a := schema.Annotation{}
	ddl := a.TableDDL()

	assert.Contains(t, ddl, "CREATE TABLE annotations")
	assert.Contains(t, ddl, "image_id SERIAL PRIMARY KEY")
	assert.Contains(t, ddl, "category_id INT NOT NULL")
	assert.Contains(t, ddl, "bbox JSONB NOT NULL")
	assert.Contains(t, ddl, "percent_page DOUBLE PRECISION")
	assert.Contains(t, ddl,
		"key_id INT REFERENCES pages(id) ON DELETE CASCADE")
}

func TestAnnotationIndexDDL(t *testing.T) {
	idx := schema.Annotation{}.IndexDDL()
	assert.Len(t, idx, 2)
	assert.Contains(t, idx[0], "annotations(key_id)")
}

func TestAllModels(t *testing.T) {
	assert.Len(t, schema.AllModels(), 2)
}
