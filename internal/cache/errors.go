package cache

import (
	"errors"
	"fmt"
)

// ErrUnavailable is the sentinel matched by every UnavailableError.
var ErrUnavailable = errors.New("cache unavailable")

// ErrUnsupportedScheme is returned by Open for unknown connection schemes.
var ErrUnsupportedScheme = errors.New("unsupported cache scheme: expected memory, sqlite, redis or rediss")

// UnavailableError reports a failed connect, read or write against a store.
// Callers should not retry internally; the error is surfaced to whoever asked
// for a classification.
type UnavailableError struct {
	// Op is the store operation that failed (e.g. "list proxy ips").
	Op string

	// Err is the underlying driver error.
	Err error
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	return fmt.Sprintf("cache unavailable: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying driver error.
func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrUnavailable.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

// unavailable wraps err for op, or returns nil when err is nil.
func unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return &UnavailableError{Op: op, Err: err}
}
