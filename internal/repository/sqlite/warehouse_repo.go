package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/prn-tf/inventario/internal/domain"
	"github.com/prn-tf/inventario/internal/repository"
)

// warehouseRepository implements repository.WarehouseRepository for SQLite.
type warehouseRepository struct {
	db *DB
}

// NewWarehouseRepository creates a new SQLite warehouse repository.
func NewWarehouseRepository(db *DB) repository.WarehouseRepository {
	return &warehouseRepository{db: db}
}

// Create creates a new warehouse.
func (r *warehouseRepository) Create(ctx context.Context, warehouse *domain.Warehouse) error {
	query := `
		INSERT INTO warehouses (name, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		warehouse.Name,
		warehouse.OwnerID,
		fmtTime(warehouse.CreatedAt),
		fmtTime(warehouse.UpdatedAt),
	)

	if err != nil {
		return fmt.Errorf("failed to create warehouse: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	warehouse.ID = id

	return nil
}

// GetOwned retrieves a live warehouse by ID, scoped to its owner.
func (r *warehouseRepository) GetOwned(ctx context.Context, id, ownerID int64) (*domain.Warehouse, error) {
	query := `
		SELECT id, name, user_id, created_at, updated_at
		FROM warehouses
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL
	`

	warehouse := &domain.Warehouse{}
	var createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&warehouse.ID,
		&warehouse.Name,
		&warehouse.OwnerID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get warehouse: %w", err)
	}

	warehouse.CreatedAt = parseTime(createdAt)
	warehouse.UpdatedAt = parseTime(updatedAt)

	return warehouse, nil
}

// ListByOwner returns all live warehouses owned by the user.
func (r *warehouseRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Warehouse, error) {
	query := `
		SELECT id, name, user_id, created_at, updated_at
		FROM warehouses
		WHERE user_id = ? AND deleted_at IS NULL
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}
	defer rows.Close()

	warehouses := []*domain.Warehouse{}
	for rows.Next() {
		warehouse := &domain.Warehouse{}
		var createdAt, updatedAt string

		if err := rows.Scan(
			&warehouse.ID,
			&warehouse.Name,
			&warehouse.OwnerID,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan warehouse: %w", err)
		}

		warehouse.CreatedAt = parseTime(createdAt)
		warehouse.UpdatedAt = parseTime(updatedAt)
		warehouses = append(warehouses, warehouse)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate warehouses: %w", err)
	}

	return warehouses, nil
}

// Update persists the name of a live warehouse.
func (r *warehouseRepository) Update(ctx context.Context, warehouse *domain.Warehouse) error {
	query := `
		UPDATE warehouses
		SET name = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		warehouse.Name,
		fmtTime(warehouse.UpdatedAt),
		warehouse.ID,
		warehouse.OwnerID,
	)

	if err != nil {
		return fmt.Errorf("failed to update warehouse: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// CascadeDelete soft-deletes a live warehouse and all of its live products
// in one transaction. The conditional warehouse update doubles as the
// ownership check: zero rows affected means nothing is touched.
func (r *warehouseRepository) CascadeDelete(ctx context.Context, id, ownerID int64) error {
	now := fmtTime(time.Now())

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE warehouses
			SET deleted_at = ?, updated_at = ?
			WHERE id = ? AND user_id = ? AND deleted_at IS NULL
		`, now, now, id, ownerID)
		if err != nil {
			return fmt.Errorf("failed to delete warehouse: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrNotFound
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE products
			SET deleted_at = ?, updated_at = ?
			WHERE warehouse_id = ? AND deleted_at IS NULL
		`, now, now, id); err != nil {
			return fmt.Errorf("failed to delete warehouse products: %w", err)
		}

		return nil
	})
}
