package dataset

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidMagic  = errors.New("invalid magic number")
	ErrCountMismatch = errors.New("image count does not match label count")
	ErrTruncated     = errors.New("file is truncated")
	ErrInvalidHeader = errors.New("invalid header")
)

// FormatError reports a malformed dataset file. It wraps one of the
// package sentinels, so callers can test it with errors.Is.
type FormatError struct {
	Source  string // File path, or "images"/"labels" for readers
	Err     error  // Sentinel describing the failure
	Details string // Additional details
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("dataset: %s: %v: %s", e.Source, e.Err, e.Details)
	}
	return fmt.Sprintf("dataset: %s: %v", e.Source, e.Err)
}

// Unwrap returns the sentinel.
func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatErr(source string, err error, format string, args ...any) error {
	return &FormatError{Source: source, Err: err, Details: fmt.Sprintf(format, args...)}
}
