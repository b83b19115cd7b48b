package service

import "errors"

// Service errors
var (
	// ErrInternalError masks infrastructure failures from API clients.
	ErrInternalError = errors.New("internal server error")

	// ErrResourceBusy indicates a concurrent request holds the lock on the
	// same entity. Clients should retry.
	ErrResourceBusy = errors.New("resource is busy, try again")
)
