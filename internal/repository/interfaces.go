// Package repository defines data access interfaces for the Inventario
// backend. These interfaces abstract database operations, allowing for
// different implementations (PostgreSQL, SQLite, mocks for testing) while
// keeping the service layer clean.
//
// All read methods exclude soft-deleted rows. Scoped methods additionally
// constrain rows to the given owner; an out-of-scope row is reported as
// ErrNotFound, never as a distinct "forbidden" condition.
package repository

import (
	"context"

	"github.com/prn-tf/inventario/internal/domain"
)

// =============================================================================
// User Repository
// =============================================================================

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create creates a new user and assigns its ID.
	// Returns domain.ErrEmailAlreadyUsed if a live user holds the email.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a live user by ID.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a live user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update persists name, email, password hash and updated_at of a live
	// user. Returns ErrNotFound if the row is missing or soft-deleted.
	Update(ctx context.Context, user *domain.User) error

	// UpdateToken sets the user's current session token (nil clears it) and
	// bumps updated_at. Returns ErrNotFound for missing or deleted users.
	UpdateToken(ctx context.Context, id int64, token *string) error

	// CheckToken reports whether the live user's stored current token
	// exactly matches the presented token. A missing user, a deleted user,
	// or a cleared token all yield false.
	CheckToken(ctx context.Context, id int64, token string) (bool, error)

	// EmailInUse reports whether a live user other than excludeID holds the
	// email. Pass excludeID 0 when creating.
	EmailInUse(ctx context.Context, email string, excludeID int64) (bool, error)

	// SoftDelete marks a live user as deleted.
	SoftDelete(ctx context.Context, id int64) error
}

// =============================================================================
// Warehouse Repository
// =============================================================================

// WarehouseRepository defines the interface for warehouse data access.
type WarehouseRepository interface {
	// Create creates a new warehouse and assigns its ID.
	Create(ctx context.Context, warehouse *domain.Warehouse) error

	// GetOwned retrieves a live warehouse by ID, scoped to its owner.
	GetOwned(ctx context.Context, id, ownerID int64) (*domain.Warehouse, error)

	// ListByOwner returns all live warehouses owned by the user.
	// Products are not attached; callers join them via ProductRepository.
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Warehouse, error)

	// Update persists name and updated_at of a live warehouse.
	Update(ctx context.Context, warehouse *domain.Warehouse) error

	// CascadeDelete soft-deletes the owner's live warehouse together with
	// every live product it holds, inside a single storage transaction, so a
	// crash can never leave live products under a dead warehouse. Returns
	// ErrNotFound when the warehouse is missing, already deleted, or owned
	// by someone else; in that case nothing is written.
	CascadeDelete(ctx context.Context, id, ownerID int64) error
}

// =============================================================================
// Product Repository
// =============================================================================

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// CreateBatch persists all products atomically and assigns their IDs.
	// An empty batch is a no-op.
	CreateBatch(ctx context.Context, products []*domain.Product) error

	// GetOwned retrieves a live product whose live warehouse belongs to the
	// given owner.
	GetOwned(ctx context.Context, id, ownerID int64) (*domain.Product, error)

	// ListByWarehouseIDs returns all live products stored in any of the
	// given warehouses.
	ListByWarehouseIDs(ctx context.Context, warehouseIDs []int64) ([]*domain.Product, error)

	// Update persists the mutable fields (name, description, price,
	// quantity, warehouse_id) and updated_at of a live product.
	Update(ctx context.Context, product *domain.Product) error

	// SoftDelete marks a live product as deleted, scoped through its
	// warehouse to the given owner.
	SoftDelete(ctx context.Context, id, ownerID int64) error
}

// =============================================================================
// Aggregates
// =============================================================================

// Repositories holds all repository instances.
type Repositories struct {
	User      UserRepository
	Warehouse WarehouseRepository
	Product   ProductRepository
}

// DatabaseHealth is an interface for database health checks.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Health(ctx context.Context) error
	Close() error
}
