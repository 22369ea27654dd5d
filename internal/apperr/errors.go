// Package apperr defines sentinel errors shared across layers.
package apperr

import "errors"

var (
	// ErrInvalidPath marks a configured source or destination root that
	// does not exist or is not a directory. Reported before any write.
	ErrInvalidPath = errors.New("invalid input path")
	// ErrNotFound marks a missing file or manifest entry.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a concurrent-modification conflict.
	ErrConflict = errors.New("conflict")
)
