package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/inventario/internal/domain"
	"github.com/prn-tf/inventario/internal/lock"
	"github.com/prn-tf/inventario/internal/repository"
)

// ProductService handles product operations. Products are reached
// through their warehouse, so every operation is scoped to the acting
// user's warehouses.
type ProductService struct {
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	locker        lock.Locker
	logger        zerolog.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	locker lock.Locker,
	logger zerolog.Logger,
) *ProductService {
	return &ProductService{
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		locker:        locker,
		logger:        logger.With().Str("service", "product").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// ProductInput describes one product to create.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Quantity    int64
	WarehouseID int64
}

// AddProductsInput contains the batch of products to create.
type AddProductsInput struct {
	OwnerID int64
	Items   []ProductInput
}

// AddProductsOutput contains the created products.
type AddProductsOutput struct {
	Products []*domain.Product
}

// GetProductOutput contains the result of fetching a product.
// Product is nil when no live product matches within the owner scope.
type GetProductOutput struct {
	Product *domain.Product
}

// UpdateProductInput contains the data needed to update a product.
type UpdateProductInput struct {
	ID          int64
	OwnerID     int64
	Name        string
	Description string
	Price       float64
	Quantity    int64
	WarehouseID int64
}

// UpdateProductOutput contains the result of updating a product.
type UpdateProductOutput struct {
	Product *domain.Product
}

// =============================================================================
// Service Methods
// =============================================================================

// AddRange creates a batch of products. The whole batch is validated
// before anything is written: one invalid item or one foreign warehouse
// rejects the entire request.
func (s *ProductService) AddRange(ctx context.Context, input AddProductsInput) (*AddProductsOutput, error) {
	if len(input.Items) == 0 {
		return nil, domain.NewValidationError("at least one product is required.")
	}

	products := make([]*domain.Product, 0, len(input.Items))
	checkedWarehouses := make(map[int64]bool)

	for _, item := range input.Items {
		product := domain.NewProduct(item.WarehouseID, item.Name, item.Description, item.Price, item.Quantity)
		if messages := domain.ValidateProduct(product); messages != nil {
			return nil, domain.NewValidationError(messages...)
		}

		if !checkedWarehouses[item.WarehouseID] {
			if _, err := s.warehouseRepo.GetOwned(ctx, item.WarehouseID, input.OwnerID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, fmt.Errorf("%w: product %q", domain.ErrWarehouseNotFound, item.Name)
				}
				s.logger.Error().Err(err).Int64("warehouse_id", item.WarehouseID).Msg("failed to check warehouse")
				return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
			}
			checkedWarehouses[item.WarehouseID] = true
		}

		products = append(products, product)
	}

	if err := s.productRepo.CreateBatch(ctx, products); err != nil {
		s.logger.Error().Err(err).Int64("owner_id", input.OwnerID).Msg("failed to create products")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Int("count", len(products)).Int64("owner_id", input.OwnerID).Msg("products created")

	return &AddProductsOutput{Products: products}, nil
}

// GetByID fetches a product. A product outside the owner's scope is
// reported the same way as a missing one: no product in the output, no
// error.
func (s *ProductService) GetByID(ctx context.Context, id, ownerID int64) (*GetProductOutput, error) {
	product, err := s.productRepo.GetOwned(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &GetProductOutput{}, nil
		}
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return &GetProductOutput{Product: product}, nil
}

// Update changes the mutable fields (name, description, price, quantity)
// of a live product owned by the acting user. The referenced warehouse is
// verified for ownership but the product never changes warehouse.
func (s *ProductService) Update(ctx context.Context, input UpdateProductInput) (*UpdateProductOutput, error) {
	candidate := domain.NewProduct(input.WarehouseID, input.Name, input.Description, input.Price, input.Quantity)
	if messages := domain.ValidateProduct(candidate); messages != nil {
		return nil, domain.NewValidationError(messages...)
	}

	var updated *domain.Product
	err := withLock(ctx, s.locker, lock.ProductKey(input.ID), func() error {
		product, err := s.productRepo.GetOwned(ctx, input.ID, input.OwnerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrProductNotFound
			}
			s.logger.Error().Err(err).Int64("product_id", input.ID).Msg("failed to get product")
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}

		// The referenced warehouse must belong to the caller, but the
		// product stays where it is; updates never relocate it.
		if _, err := s.warehouseRepo.GetOwned(ctx, input.WarehouseID, input.OwnerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrWarehouseNotFound
			}
			s.logger.Error().Err(err).Int64("warehouse_id", input.WarehouseID).Msg("failed to check warehouse")
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}

		product.Name = input.Name
		product.Description = input.Description
		product.Price = input.Price
		product.Quantity = input.Quantity
		product.UpdatedAt = time.Now().UTC()

		if err := s.productRepo.Update(ctx, product); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrProductNotFound
			}
			s.logger.Error().Err(err).Int64("product_id", input.ID).Msg("failed to update product")
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}

		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("product_id", input.ID).Msg("product updated")

	return &UpdateProductOutput{Product: updated}, nil
}

// Delete soft-deletes a live product owned by the acting user.
func (s *ProductService) Delete(ctx context.Context, id, ownerID int64) error {
	err := withLock(ctx, s.locker, lock.ProductKey(id), func() error {
		if err := s.productRepo.SoftDelete(ctx, id, ownerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrProductNotFound
			}
			s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}
