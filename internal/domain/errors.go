// Package domain contains the core business entities for the Inventario backend.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, network, etc.).

var (
	// ErrUserNotFound indicates the requested user does not exist or is
	// soft-deleted.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyUsed indicates a non-deleted user with the same email
	// exists.
	ErrEmailAlreadyUsed = errors.New("email already in use")

	// ErrInvalidCredentials indicates authentication failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenRevoked indicates the presented session token no longer
	// matches the user's stored current token.
	ErrTokenRevoked = errors.New("token revoked or invalid")

	// ErrWarehouseNotFound indicates the warehouse does not exist, is
	// soft-deleted, or belongs to another user. The three cases are
	// deliberately indistinguishable to callers.
	ErrWarehouseNotFound = errors.New("warehouse not found for user")

	// ErrProductNotFound indicates the product does not exist, is
	// soft-deleted, or is not reachable through the acting user's warehouses.
	ErrProductNotFound = errors.New("product not found for user")
)

// ValidationError carries the user-facing messages produced by field
// validation. It is recovered locally and rendered as a failure envelope,
// never as an infrastructure fault.
type ValidationError struct {
	// Messages are the individual rule-violation messages.
	Messages []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", e.Messages[0])
}

// NewValidationError creates a ValidationError from messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// AsValidationError extracts a *ValidationError from err, or nil.
func AsValidationError(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
