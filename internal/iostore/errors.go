package iostore

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/seiten/pagedb/pkg/errcode"
)

// NotConnectedError creates an error for store operations attempted
// without a database connection.
func NotConnectedError() error {
	msg := "Store operation attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// SelectPageError creates an error for page lookup failures.
func SelectPageError(key string, err error) error {
	msg := "Could not look up page <em>%s</em>"

	return &gn.Error{
		Code: errcode.PageSelectError,
		Msg:  msg,
		Vars: []any{key},
		Err:  fmt.Errorf("failed to select page %q: %w", key, err),
	}
}

// InsertPageError creates an error for page creation failures.
func InsertPageError(key string, err error) error {
	msg := "Could not create page <em>%s</em>"

	return &gn.Error{
		Code: errcode.PageInsertError,
		Msg:  msg,
		Vars: []any{key},
		Err:  fmt.Errorf("failed to insert page %q: %w", key, err),
	}
}

// UpsertPageError creates an error for page upsert failures.
func UpsertPageError(key string, err error) error {
	msg := "Could not save page <em>%s</em>"

	return &gn.Error{
		Code: errcode.PageUpsertError,
		Msg:  msg,
		Vars: []any{key},
		Err:  fmt.Errorf("failed to upsert page %q: %w", key, err),
	}
}

// DeletePageError creates an error for page deletion failures.
func DeletePageError(id int, err error) error {
	msg := "Could not delete page <em>%d</em>"

	return &gn.Error{
		Code: errcode.PageDeleteError,
		Msg:  msg,
		Vars: []any{id},
		Err:  fmt.Errorf("failed to delete page %d: %w", id, err),
	}
}

// PageMapError creates an error for failures while loading the
// {file_name -> id} mapping.
func PageMapError(err error) error {
	msg := "Could not load the page name mapping"

	return &gn.Error{
		Code: errcode.PageMapError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to load page mapping: %w", err),
	}
}

// InsertAnnotationError creates an error for single annotation insert
// failures.
func InsertAnnotationError(fileName string, err error) error {
	msg := "Could not save annotation for <em>%s</em>"

	return &gn.Error{
		Code: errcode.AnnotationInsertError,
		Msg:  msg,
		Vars: []any{fileName},
		Err: fmt.Errorf("failed to insert annotation %q: %w",
			fileName, err),
	}
}

// BulkInsertError creates an error for failed bulk annotation inserts.
// The transaction is rolled back; no partial batch is committed.
func BulkInsertError(err error) error {
	msg := "Could not bulk-insert annotations; batch rolled back"

	return &gn.Error{
		Code: errcode.AnnotationBulkInsertError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to bulk-insert annotations: %w", err),
	}
}

// QueryAnnotationsError creates an error for annotation read failures.
func QueryAnnotationsError(key string, err error) error {
	msg := "Could not read annotations"
	var vars []any
	if key != "" {
		msg = "Could not read annotations for page <em>%s</em>"
		vars = []any{key}
	}

	return &gn.Error{
		Code: errcode.AnnotationQueryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to query annotations: %w", err),
	}
}
