package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/prn-tf/inventario/internal/domain"
	"github.com/prn-tf/inventario/internal/repository"
)

// productRepository implements repository.ProductRepository for PostgreSQL.
type productRepository struct {
	db *DB
}

// NewProductRepository creates a new PostgreSQL product repository.
func NewProductRepository(db *DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// CreateBatch persists all products in one transaction.
func (r *productRepository) CreateBatch(ctx context.Context, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		query := `
			INSERT INTO products (name, description, price, quantity, warehouse_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`

		for _, product := range products {
			err := tx.QueryRow(ctx, query,
				product.Name,
				product.Description,
				product.Price,
				product.Quantity,
				product.WarehouseID,
				product.CreatedAt,
				product.UpdatedAt,
			).Scan(&product.ID)
			if err != nil {
				return fmt.Errorf("failed to create product: %w", err)
			}
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
		WHERE p.id = $1 AND w.user_id = $2 AND p.deleted_at IS NULL AND w.deleted_at IS NULL
	`

	return r.scanProduct(ctx, query, id, ownerID)
}

func (r *productRepository) scanProduct(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	product := &domain.Product{}

	err := r.db.Pool.QueryRow(ctx, query, args...).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Quantity,
		&product.WarehouseID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// ListByWarehouseIDs returns all live products stored in the given warehouses.
func (r *productRepository) ListByWarehouseIDs(ctx context.Context, warehouseIDs []int64) ([]*domain.Product, error) {
	if len(warehouseIDs) == 0 {
		return []*domain.Product{}, nil
	}

	query := `
		SELECT id, name, description, price, quantity, warehouse_id, created_at, updated_at
		FROM products
		WHERE warehouse_id = ANY($1) AND deleted_at IS NULL
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query, warehouseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.Quantity,
			&product.WarehouseID,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
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
		SET name = $1, description = $2, price = $3, quantity = $4, warehouse_id = $5, updated_at = $6
		WHERE id = $7 AND deleted_at IS NULL
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.Quantity,
		product.WarehouseID,
		product.UpdatedAt,
		product.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SoftDelete marks a live product as deleted, scoped to the owner.
func (r *productRepository) SoftDelete(ctx context.Context, id, ownerID int64) error {
	query := `
		UPDATE products
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
		  AND warehouse_id IN (
			SELECT id FROM warehouses WHERE user_id = $3 AND deleted_at IS NULL
		  )
	`

	tag, err := r.db.Pool.Exec(ctx, query, time.Now().UTC(), id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
