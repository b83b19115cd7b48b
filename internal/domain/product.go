// Package domain contains the core business entities for the Inventario backend.
package domain

import (
	"time"
)

// Product represents a stocked item ("produto") inside a warehouse.
// A product's ownership is transitive: it belongs to the user who owns its
// warehouse.
type Product struct {
	// ID is the unique identifier for the product.
	ID int64 `json:"id"`

	// Name identifies the product. Constraints: 2-250 characters.
	Name string `json:"name"`

	// Description describes the product. Constraints: 2-1000 characters.
	Description string `json:"description"`

	// Price is the unit price. Must be greater than zero.
	Price float64 `json:"price"`

	// Quantity is the stocked amount. Must not be negative.
	Quantity int64 `json:"quantity"`

	// WarehouseID is the ID of the warehouse holding this product.
	// The referenced warehouse must be live and owned by the acting user.
	WarehouseID int64 `json:"warehouse_id"`

	// CreatedAt is the timestamp when the product was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp when the product was last updated.
	UpdatedAt time.Time `json:"updated_at"`

	// DeletedAt marks the record as soft-deleted when non-nil.
	DeletedAt *time.Time `json:"-"`
}

// NewProduct creates a new Product with server-assigned timestamps.
func NewProduct(warehouseID int64, name, description string, price float64, quantity int64) *Product {
	now := time.Now().UTC()
	return &Product{
		Name:        name,
		Description: description,
		Price:       price,
		Quantity:    quantity,
		WarehouseID: warehouseID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsDeleted returns true if the product has been soft-deleted.
func (p *Product) IsDeleted() bool {
	return p.DeletedAt != nil
}
