package repository

import "errors"

// Repository errors
var (
	// ErrNotFound indicates the requested row was not found, is
	// soft-deleted, or is outside the requested owner scope.
	ErrNotFound = errors.New("not found")
)
