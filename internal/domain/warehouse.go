// Package domain contains the core business entities for the Inventario backend.
package domain

import (
	"time"
)

// Warehouse represents a named stock location ("estoque") owned by a user.
// A warehouse is only visible and operable through requests authenticated as
// its owner.
type Warehouse struct {
	// ID is the unique identifier for the warehouse.
	ID int64 `json:"id"`

	// Name identifies the warehouse to its owner. Required, non-empty.
	Name string `json:"name"`

	// OwnerID is the ID of the user who owns this warehouse.
	// Immutable after creation.
	OwnerID int64 `json:"owner_id"`

	// Products holds the non-deleted products stored in this warehouse.
	// Populated only on read paths that attach products (list, get).
	Products []*Product `json:"products"`

	// CreatedAt is the timestamp when the warehouse was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp when the warehouse was last updated.
	UpdatedAt time.Time `json:"updated_at"`

	// DeletedAt marks the record as soft-deleted when non-nil.
	// Soft-deleting a warehouse cascades to its live products.
	DeletedAt *time.Time `json:"-"`
}

// NewWarehouse creates a new Warehouse owned by the given user.
func NewWarehouse(ownerID int64, name string) *Warehouse {
	now := time.Now().UTC()
	return &Warehouse{
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsDeleted returns true if the warehouse has been soft-deleted.
func (w *Warehouse) IsDeleted() bool {
	return w.DeletedAt != nil
}

// OwnedBy reports whether the warehouse belongs to the given user.
func (w *Warehouse) OwnedBy(userID int64) bool {
	return w.OwnerID == userID
}
