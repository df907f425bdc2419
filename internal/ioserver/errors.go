package ioserver

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/seiten/pagedb/pkg/errcode"
)

// StartError creates an error for listener failures.
func StartError(addr string, err error) error {
	msg := `Could not start the HTTP API on <em>%s</em>

<em>Possible causes:</em>
  - The port is already in use
  - The configured host is not a local interface`

	return &gn.Error{
		Code: errcode.ServerStartError,
		Msg:  msg,
		Vars: []any{addr},
		Err:  fmt.Errorf("failed to serve on %s: %w", addr, err),
	}
}
