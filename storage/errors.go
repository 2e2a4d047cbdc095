package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when a snapshot is not found.
	ErrNotFound = errors.New("snapshot not found")
)
