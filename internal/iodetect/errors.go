package iodetect

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/seiten/pagedb/pkg/errcode"
)

// RequestError creates an error for requests that could not be built or
// sent.
func RequestError(url string, err error) error {
	msg := "Could not build detection request for <em>%s</em>"

	return &gn.Error{
		Code: errcode.DetectorRequestError,
		Msg:  msg,
		Vars: []any{url},
		Err:  fmt.Errorf("failed to build request to %q: %w", url, err),
	}
}

// UnavailableError creates an error for unreachable detection services.
func UnavailableError(url string, err error) error {
	msg := `Could not reach the detection service at <em>%s</em>

<em>Possible causes:</em>
  - The inference service is not running
  - The detector URL in the configuration is wrong`

	return &gn.Error{
		Code: errcode.DetectorUnavailableError,
		Msg:  msg,
		Vars: []any{url},
		Err:  fmt.Errorf("detection service %q unreachable: %w", url, err),
	}
}

// ResponseError creates an error for undecodable detection responses.
func ResponseError(url string, err error) error {
	msg := "Could not decode the response of the detection service"

	return &gn.Error{
		Code: errcode.DetectorResponseError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("bad response from %q: %w", url, err),
	}
}

// ResponseStatusError creates an error for non-200 detection responses.
// The service's raw body goes into the wrapped error for logs, never
// into the user-facing message.
func ResponseStatusError(url string, status int, body []byte) error {
	msg := "Detection service returned status <em>%d</em>"

	return &gn.Error{
		Code: errcode.DetectorResponseError,
		Msg:  msg,
		Vars: []any{status},
		Err: fmt.Errorf("detection service %q returned %d: %s",
			url, status, body),
	}
}
