package iolink

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/seiten/pagedb/pkg/errcode"
)

// NotConnectedError creates an error for reconciliation attempted
// without a database connection.
func NotConnectedError() error {
	msg := "Reconciliation attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// ScanError creates an error for failed reads of reconciliation inputs.
func ScanError(table string, err error) error {
	msg := "Could not read <em>%s</em> for reconciliation"

	return &gn.Error{
		Code: errcode.LinkScanError,
		Msg:  msg,
		Vars: []any{table},
		Err:  fmt.Errorf("failed to scan %s: %w", table, err),
	}
}

// UpdateError creates an error for failed reference repairs. The
// transaction is rolled back; no partial reconciliation is committed.
func UpdateError(err error) error {
	msg := "Could not repair annotation page references"

	return &gn.Error{
		Code: errcode.LinkUpdateError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to update annotations: %w", err),
	}
}
