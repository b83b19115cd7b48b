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

// WarehouseService handles warehouse operations. Every operation is
// scoped to the acting user; other users' warehouses are invisible.
type WarehouseService struct {
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	locker        lock.Locker
	logger        zerolog.Logger
}

// NewWarehouseService creates a new WarehouseService.
func NewWarehouseService(
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	locker lock.Locker,
	logger zerolog.Logger,
) *WarehouseService {
	return &WarehouseService{
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		locker:        locker,
		logger:        logger.With().Str("service", "warehouse").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// CreateWarehouseInput contains the data needed to create a warehouse.
type CreateWarehouseInput struct {
	OwnerID int64
	Name    string
}

// CreateWarehouseOutput contains the result of creating a warehouse.
type CreateWarehouseOutput struct {
	Warehouse *domain.Warehouse
}

// GetWarehouseOutput contains the result of fetching a warehouse.
// Warehouse is nil when no live warehouse matches within the owner scope.
type GetWarehouseOutput struct {
	Warehouse *domain.Warehouse
}

// ListWarehousesOutput contains the owner's warehouses with their
// products attached.
type ListWarehousesOutput struct {
	Warehouses []*domain.Warehouse
}

// UpdateWarehouseInput contains the data needed to rename a warehouse.
type UpdateWarehouseInput struct {
	ID      int64
	OwnerID int64
	Name    string
}

// UpdateWarehouseOutput contains the result of updating a warehouse.
type UpdateWarehouseOutput struct {
	Warehouse *domain.Warehouse
}

// =============================================================================
// Service Methods
// =============================================================================

// Create creates a new warehouse for the owner.
func (s *WarehouseService) Create(ctx context.Context, input CreateWarehouseInput) (*CreateWarehouseOutput, error) {
	warehouse := domain.NewWarehouse(input.OwnerID, input.Name)
	warehouse.Products = []*domain.Product{}
	if messages := domain.ValidateWarehouse(warehouse); messages != nil {
		return nil, domain.NewValidationError(messages...)
	}

	if err := s.warehouseRepo.Create(ctx, warehouse); err != nil {
		s.logger.Error().Err(err).Int64("owner_id", input.OwnerID).Msg("failed to create warehouse")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Int64("warehouse_id", warehouse.ID).Int64("owner_id", input.OwnerID).Msg("warehouse created")

	return &CreateWarehouseOutput{Warehouse: warehouse}, nil
}

// GetByID fetches a warehouse with its products. A warehouse outside the
// owner's scope is reported the same way as a missing one: no warehouse
// in the output, no error.
func (s *WarehouseService) GetByID(ctx context.Context, id, ownerID int64) (*GetWarehouseOutput, error) {
	warehouse, err := s.warehouseRepo.GetOwned(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &GetWarehouseOutput{}, nil
		}
		s.logger.Error().Err(err).Int64("warehouse_id", id).Msg("failed to get warehouse")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	products, err := s.productRepo.ListByWarehouseIDs(ctx, []int64{warehouse.ID})
	if err != nil {
		s.logger.Error().Err(err).Int64("warehouse_id", id).Msg("failed to load warehouse products")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	warehouse.Products = products

	return &GetWarehouseOutput{Warehouse: warehouse}, nil
}

// List returns all of the owner's warehouses with their products
// attached. Products are loaded in a single query and grouped in memory.
func (s *WarehouseService) List(ctx context.Context, ownerID int64) (*ListWarehousesOutput, error) {
	warehouses, err := s.warehouseRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error().Err(err).Int64("owner_id", ownerID).Msg("failed to list warehouses")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if len(warehouses) == 0 {
		return &ListWarehousesOutput{Warehouses: warehouses}, nil
	}

	ids := make([]int64, len(warehouses))
	byID := make(map[int64]*domain.Warehouse, len(warehouses))
	for i, w := range warehouses {
		ids[i] = w.ID
		byID[w.ID] = w
		w.Products = []*domain.Product{}
	}

	products, err := s.productRepo.ListByWarehouseIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Int64("owner_id", ownerID).Msg("failed to load products")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	for _, p := range products {
		if w, ok := byID[p.WarehouseID]; ok {
			w.Products = append(w.Products, p)
		}
	}

	return &ListWarehousesOutput{Warehouses: warehouses}, nil
}

// Update renames a live warehouse owned by the acting user.
func (s *WarehouseService) Update(ctx context.Context, input UpdateWarehouseInput) (*UpdateWarehouseOutput, error) {
	candidate := &domain.Warehouse{Name: input.Name}
	if messages := domain.ValidateWarehouse(candidate); messages != nil {
		return nil, domain.NewValidationError(messages...)
	}

	var updated *domain.Warehouse
	err := withLock(ctx, s.locker, lock.WarehouseKey(input.ID), func() error {
		warehouse, err := s.warehouseRepo.GetOwned(ctx, input.ID, input.OwnerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrWarehouseNotFound
			}
			s.logger.Error().Err(err).Int64("warehouse_id", input.ID).Msg("failed to get warehouse")
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}

		warehouse.Name = input.Name
		warehouse.UpdatedAt = time.Now().UTC()

		if err := s.warehouseRepo.Update(ctx, warehouse); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrWarehouseNotFound
			}
			s.logger.Error().Err(err).Int64("warehouse_id", input.ID).Msg("failed to update warehouse")
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}

		updated = warehouse
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("warehouse_id", input.ID).Msg("warehouse updated")

	return &UpdateWarehouseOutput{Warehouse: updated}, nil
}

// Delete soft-deletes a warehouse together with every product it holds.
// The cascade runs in one storage transaction.
func (s *WarehouseService) Delete(ctx context.Context, id, ownerID int64) error {
	err := withLock(ctx, s.locker, lock.WarehouseKey(id), func() error {
		if err := s.warehouseRepo.CascadeDelete(ctx, id, ownerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrWarehouseNotFound
			}
			s.logger.Error().Err(err).Int64("warehouse_id", id).Msg("failed to delete warehouse")
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("warehouse_id", id).Msg("warehouse deleted")
	return nil
}
