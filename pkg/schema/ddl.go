package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
func generateDDL(model interface{}, tableName string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

// Page DDL methods

func (p Page) TableDDL() string {
	return generateDDL(p, "pages")
}

func (p Page) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX idx_pages_file_name ON pages(file_name);",
	}
}

func (p Page) TableName() string {
	return "pages"
}

// Annotation DDL methods

func (a Annotation) TableDDL() string {
	return generateDDL(a, "annotations")
}

func (a Annotation) IndexDDL() []string {
	return []string{
		"CREATE INDEX idx_annotations_key_id ON annotations(key_id);",
		"CREATE INDEX idx_annotations_file_name ON annotations(file_name);",
	}
}

func (a Annotation) TableName() string {
	return "annotations"
}
