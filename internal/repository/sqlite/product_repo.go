package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/prn-tf/inventario/internal/domain"
	"github.com/prn-tf/inventario/internal/repository"
)

// productRepository implements repository.ProductRepository for SQLite.
type productRepository struct {
	db *DB
}

// NewProductRepository creates a new SQLite product repository.
func NewProductRepository(db *DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// CreateBatch persists all products in one transaction.
func (r *productRepository) CreateBatch(ctx context.Context, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO products (name, description, price, quantity, warehouse_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare product insert: %w", err)
		}
		defer stmt.Close()

		for _, product := range products {
			result, err := stmt.ExecContext(ctx,
				product.Name,
				product.Description,
				product.Price,
				product.Quantity,
				product.WarehouseID,
				fmtTime(product.CreatedAt),
				fmtTime(product.UpdatedAt),
			)
			if err != nil {
				return fmt.Errorf("failed to create product: %w", err)
			}

			id, err := result.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to get last insert ID: %w", err)
			}
			product.ID = id
		}

		return nil
	})
}

// GetOwned retrieves a live product whose live warehouse belongs to the owner.
func (r *productRepository) GetOwned(ctx context.Context, id, ownerID int64) (*domain.Product, error) {
	query := `
		SELECT p.id, p.name, p.description, p.price, p.quantity, p.warehouse_id, p.created_at, p.updated_at
		FROM products p
		JOIN warehouses w ON w.id = p.warehouse_id
		WHERE p.id = ? AND w.user_id = ? AND p.deleted_at IS NULL AND w.deleted_at IS NULL
	`

	return r.scanProduct(r.db.QueryRowContext(ctx, query, id, ownerID))
}

func (r *productRepository) scanProduct(row *sql.Row) (*domain.Product, error) {
	product := &domain.Product{}
	var createdAt, updatedAt string

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Quantity,
		&product.WarehouseID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	product.CreatedAt = parseTime(createdAt)
	product.UpdatedAt = parseTime(updatedAt)

	return product, nil
}

// ListByWarehouseIDs returns all live products stored in the given warehouses.
func (r *productRepository) ListByWarehouseIDs(ctx context.Context, warehouseIDs []int64) ([]*domain.Product, error) {
	if len(warehouseIDs) == 0 {
		return []*domain.Product{}, nil
	}

	placeholders := make([]string, len(warehouseIDs))
	args := make([]interface{}, len(warehouseIDs))
	for i, id := range warehouseIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, name, description, price, quantity, warehouse_id, created_at, updated_at
		FROM products
		WHERE warehouse_id IN (%s) AND deleted_at IS NULL
		ORDER BY id
	`, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		var createdAt, updatedAt string

		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.Quantity,
			&product.WarehouseID,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		product.CreatedAt = parseTime(createdAt)
		product.UpdatedAt = parseTime(updatedAt)
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

// Update persists the mutable fields of a live product.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = ?, description = ?, price = ?, quantity = ?, warehouse_id = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.Quantity,
		product.WarehouseID,
		fmtTime(product.UpdatedAt),
		product.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
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

// SoftDelete marks a live product as deleted, scoped to the owner.
func (r *productRepository) SoftDelete(ctx context.Context, id, ownerID int64) error {
	query := `
		UPDATE products
		SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
		  AND warehouse_id IN (
			SELECT id FROM warehouses WHERE user_id = ? AND deleted_at IS NULL
		  )
	`

	now := fmtTime(time.Now())
	result, err := r.db.ExecContext(ctx, query, now, now, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
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
