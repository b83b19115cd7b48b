package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/prn-tf/inventario/internal/domain"
	"github.com/prn-tf/inventario/internal/repository"
)

// warehouseRepository implements repository.WarehouseRepository for PostgreSQL.
type warehouseRepository struct {
	db *DB
}

// NewWarehouseRepository creates a new PostgreSQL warehouse repository.
func NewWarehouseRepository(db *DB) repository.WarehouseRepository {
	return &warehouseRepository{db: db}
}

// Create creates a new warehouse.
func (r *warehouseRepository) Create(ctx context.Context, warehouse *domain.Warehouse) error {
	query := `
		INSERT INTO warehouses (name, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		warehouse.Name,
		warehouse.OwnerID,
		warehouse.CreatedAt,
		warehouse.UpdatedAt,
	).Scan(&warehouse.ID)

	if err != nil {
		return fmt.Errorf("failed to create warehouse: %w", err)
	}

	return nil
}

// GetOwned retrieves a live warehouse by ID, scoped to its owner.
func (r *warehouseRepository) GetOwned(ctx context.Context, id, ownerID int64) (*domain.Warehouse, error) {
	query := `
		SELECT id, name, user_id, created_at, updated_at
		FROM warehouses
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	warehouse := &domain.Warehouse{}
	err := r.db.Pool.QueryRow(ctx, query, id, ownerID).Scan(
		&warehouse.ID,
		&warehouse.Name,
		&warehouse.OwnerID,
		&warehouse.CreatedAt,
		&warehouse.UpdatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get warehouse: %w", err)
	}

	return warehouse, nil
}

// ListByOwner returns all live warehouses owned by the user.
func (r *warehouseRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Warehouse, error) {
	query := `
		SELECT id, name, user_id, created_at, updated_at
		FROM warehouses
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}
	defer rows.Close()

	warehouses := []*domain.Warehouse{}
	for rows.Next() {
		warehouse := &domain.Warehouse{}
		if err := rows.Scan(
			&warehouse.ID,
			&warehouse.Name,
			&warehouse.OwnerID,
			&warehouse.CreatedAt,
			&warehouse.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan warehouse: %w", err)
		}
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
		SET name = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4 AND deleted_at IS NULL
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		warehouse.Name,
		warehouse.UpdatedAt,
		warehouse.ID,
		warehouse.OwnerID,
	)

	if err != nil {
		return fmt.Errorf("failed to update warehouse: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// CascadeDelete soft-deletes a live warehouse and all of its live products
// in one transaction. The conditional warehouse update doubles as the
// ownership check: zero rows affected means nothing is touched.
func (r *warehouseRepository) CascadeDelete(ctx context.Context, id, ownerID int64) error {
	now := time.Now().UTC()

	return r.db.WithTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE warehouses
			SET deleted_at = $1, updated_at = $1
			WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL
		`, now, id, ownerID)
		if err != nil {
			return fmt.Errorf("failed to delete warehouse: %w", err)
		}

		if tag.RowsAffected() == 0 {
			return repository.ErrNotFound
		}

		if _, err := tx.Exec(ctx, `
			UPDATE products
			SET deleted_at = $1, updated_at = $1
			WHERE warehouse_id = $2 AND deleted_at IS NULL
		`, now, id); err != nil {
			return fmt.Errorf("failed to delete warehouse products: %w", err)
		}

		return nil
	})
}
