// Package domain contains the core business entities for the Inventario
// backend. These are pure Go structs with no external dependencies,
// representing the fundamental concepts of the inventory system.
package domain

import (
	"time"
)

// User represents a registered account in the system.
// Users own warehouses, and transitively the products stored in them.
type User struct {
	// ID is the unique identifier for the user (auto-generated).
	ID int64 `json:"id"`

	// Name is the display name.
	// Constraints: 2-250 characters.
	Name string `json:"name"`

	// Email is the login identifier, unique among non-deleted users.
	// A soft-deleted user's email may be reused.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// This must never be exposed in API responses.
	PasswordHash string `json:"-"`

	// CurrentToken is the single session token currently accepted for this
	// user, or nil when logged out. Issuing a new token supersedes the
	// previous one; the request authentication gate compares the presented
	// bearer token against this value on every request.
	CurrentToken *string `json:"-"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time `json:"updated_at"`

	// DeletedAt marks the record as soft-deleted when non-nil.
	// Soft-deleted users are excluded from every read path.
	DeletedAt *time.Time `json:"-"`
}

// NewUser creates a new User with server-assigned timestamps.
func NewUser(name, email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsDeleted returns true if the user has been soft-deleted.
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}
