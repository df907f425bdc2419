package iopopulate

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/seiten/pagedb/pkg/errcode"
)

// NotConnectedError creates an error for populate attempted without a
// database connection.
func NotConnectedError() error {
	msg := "Populate attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// SourcesConfigError creates an error for unreadable or invalid
// sources.yaml files.
func SourcesConfigError(path string, err error) error {
	msg := `Could not load datasets from <em>%s</em>

<em>How to fix:</em>
  1. Check the file exists and is readable
  2. Each dataset needs a <em>name</em> and either a <em>pages</em> and
     <em>annotations</em> JSON pair or a single <em>archive</em>`

	return &gn.Error{
		Code: errcode.PopulateSourcesConfigError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("failed to load sources config %q: %w", path, err),
	}
}

// DatasetReadError creates an error for failed dataset file reads.
func DatasetReadError(name, path string, err error) error {
	msg := "Could not read dataset <em>%s</em> from <em>%s</em>"

	return &gn.Error{
		Code: errcode.PopulateDatasetReadError,
		Msg:  msg,
		Vars: []any{name, path},
		Err:  fmt.Errorf("failed to read dataset %q (%s): %w", name, path, err),
	}
}

// PagesError creates an error for failed page imports of one dataset.
func PagesError(name string, err error) error {
	msg := "Could not import pages of dataset <em>%s</em>"

	return &gn.Error{
		Code: errcode.PopulatePagesError,
		Msg:  msg,
		Vars: []any{name},
		Err:  fmt.Errorf("failed to import pages of %q: %w", name, err),
	}
}

// AnnotationsError creates an error for failed annotation imports of one
// dataset.
func AnnotationsError(name string, err error) error {
	msg := "Could not import annotations of dataset <em>%s</em>"

	return &gn.Error{
		Code: errcode.PopulateAnnotationsError,
		Msg:  msg,
		Vars: []any{name},
		Err:  fmt.Errorf("failed to import annotations of %q: %w", name, err),
	}
}

// AllDatasetsFailedError creates an error for populate runs where no
// dataset imported successfully.
func AllDatasetsFailedError(count int) error {
	msg := "All <em>%d</em> datasets failed to import"

	return &gn.Error{
		Code: errcode.PopulateAllDatasetsFailedError,
		Msg:  msg,
		Vars: []any{count},
		Err:  fmt.Errorf("all %d datasets failed", count),
	}
}

// UnlinkedError creates an error for strict populate runs that leave
// annotations without a page.
func UnlinkedError(count int) error {
	msg := `<em>%d</em> annotations remain without a page

The referenced pages are missing from every imported dataset. Re-run
without <em>--strict</em> to keep them for later reconciliation.`

	return &gn.Error{
		Code: errcode.PopulateUnlinkedError,
		Vars: []any{count},
		Msg:  msg,
		Err:  fmt.Errorf("%d annotations unlinked after reconciliation", count),
	}
}
