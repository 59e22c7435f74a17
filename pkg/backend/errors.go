// Package backend pkg/backend/errors.go provides errors for the backend package.
package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse indicates the backend returned a payload that
	// does not decode to the expected shape (e.g. a non-sequence device
	// list).
	ErrMalformedResponse = errors.New("malformed backend response")

	errEmptyScanID = errors.New("backend returned empty scan_id")
)

// TransportError is a network or HTTP-level failure talking to the
// scanner backend. Detail carries the server's error message when the
// body could be parsed.
type TransportError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("backend request failed: %v", e.Err)
	case e.Detail != "":
		return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Detail)
	default:
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
