package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/prn-tf/inventario/internal/domain"
	"github.com/prn-tf/inventario/internal/lock"
)

func newProductFixture() (*ProductService, *WarehouseService, *stubProductRepo) {
	products := newStubProductRepo()
	warehouses := newStubWarehouseRepo(products)
	products.warehouses = warehouses

	productSvc := NewProductService(products, warehouses, lock.NewNoOpLocker(), zerolog.Nop())
	warehouseSvc := NewWarehouseService(warehouses, products, lock.NewNoOpLocker(), zerolog.Nop())
	return productSvc, warehouseSvc, products
}

func TestProductService_AddRange(t *testing.T) {
	svc, warehouseSvc, _ := newProductFixture()
	ctx := context.Background()

	w, _ := warehouseSvc.Create(ctx, CreateWarehouseInput{OwnerID: 1, Name: "Main"})

	output, err := svc.AddRange(ctx, AddProductsInput{
		OwnerID: 1,
		Items: []ProductInput{
			{Name: "Bolt", Description: "M8 bolt", Price: 0.25, Quantity: 500, WarehouseID: w.Warehouse.ID},
			{Name: "Nut", Description: "M8 nut", Price: 0.10, Quantity: 500, WarehouseID: w.Warehouse.ID},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(output.Products))
	}
	for _, p := range output.Products {
		if p.ID == 0 {
			t.Error("expected product ID to be assigned")
		}
	}
}

func TestProductService_AddRangeEmptyBatch(t *testing.T) {
	svc, _, _ := newProductFixture()

	_, err := svc.AddRange(context.Background(), AddProductsInput{OwnerID: 1})
	if domain.AsValidationError(err) == nil {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestProductService_AddRangeRejectsWholeBatchOnInvalidItem(t *testing.T) {
	svc, warehouseSvc, products := newProductFixture()
	ctx := context.Background()

	w, _ := warehouseSvc.Create(ctx, CreateWarehouseInput{OwnerID: 1, Name: "Main"})

	_, err := svc.AddRange(ctx, AddProductsInput{
		OwnerID: 1,
		Items: []ProductInput{
			{Name: "Good", Description: "fine", Price: 1, Quantity: 1, WarehouseID: w.Warehouse.ID},
			{Name: "Bad", Description: "free", Price: 0, Quantity: 1, WarehouseID: w.Warehouse.ID},
		},
	})
	if domain.AsValidationError(err) == nil {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(products.products) != 0 {
		t.Errorf("expected nothing persisted, got %d products", len(products.products))
	}
}

func TestProductService_AddRangeRejectsForeignWarehouse(t *testing.T) {
	svc, warehouseSvc, products := newProductFixture()
	ctx := context.Background()

	theirs, _ := warehouseSvc.Create(ctx, CreateWarehouseInput{OwnerID: 2, Name: "Theirs"})

	_, err := svc.AddRange(ctx, AddProductsInput{
		OwnerID: 1,
		Items: []ProductInput{
			{Name: "Sneaky", Description: "wrong home", Price: 1, Quantity: 1, WarehouseID: theirs.Warehouse.ID},
		},
	})
	if !errors.Is(err, domain.ErrWarehouseNotFound) {
		t.Fatalf("expected ErrWarehouseNotFound, got %v", err)
	}
	if len(products.products) != 0 {
		t.Errorf("expected nothing persisted, got %d products", len(products.products))
	}
}

func TestProductService_GetByIDMissingIsNotAnError(t *testing.T) {
	svc, _, _ := newProductFixture()

	output, err := svc.GetByID(context.Background(), 99, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Product != nil {
		t.Error("expected no product in output")
	}
}

func TestProductService_UpdateKeepsWarehouse(t *testing.T) {
	svc, warehouseSvc, _ := newProductFixture()
	ctx := context.Background()

	w1, _ := warehouseSvc.Create(ctx, CreateWarehouseInput{OwnerID: 1, Name: "A"})
	w2, _ := warehouseSvc.Create(ctx, CreateWarehouseInput{OwnerID: 1, Name: "B"})

	created, err := svc.AddRange(ctx, AddProductsInput{
		OwnerID: 1,
		Items:   []ProductInput{{Name: "Bolt", Description: "M8", Price: 0.25, Quantity: 10, WarehouseID: w1.Warehouse.ID}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Naming a different (owned) warehouse passes the ownership check,
	// but the product stays in its original warehouse.
	output, err := svc.Update(ctx, UpdateProductInput{
		ID:          created.Products[0].ID,
		OwnerID:     1,
		Name:        "Bolt",
		Description: "M8",
		Price:       0.30,
		Quantity:    8,
		WarehouseID: w2.Warehouse.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Product.WarehouseID != w1.Warehouse.ID {
		t.Errorf("expected product to remain in warehouse %d, got %d", w1.Warehouse.ID, output.Product.WarehouseID)
	}
	if output.Product.Price != 0.30 || output.Product.Quantity != 8 {
		t.Errorf("expected mutable fields updated, got price %v quantity %d", output.Product.Price, output.Product.Quantity)
	}
}

func TestProductService_UpdateRejectsForeignTargetWarehouse(t *testing.T) {
	svc, warehouseSvc, _ := newProductFixture()
	ctx := context.Background()

	mine, _ := warehouseSvc.Create(ctx, CreateWarehouseInput{OwnerID: 1, Name: "Mine"})
	theirs, _ := warehouseSvc.Create(ctx, CreateWarehouseInput{OwnerID: 2, Name: "Theirs"})

	created, _ := svc.AddRange(ctx, AddProductsInput{
		OwnerID: 1,
		Items:   []ProductInput{{Name: "Bolt", Description: "M8", Price: 0.25, Quantity: 10, WarehouseID: mine.Warehouse.ID}},
	})

	_, err := svc.Update(ctx, UpdateProductInput{
		ID:          created.Products[0].ID,
		OwnerID:     1,
		Name:        "Bolt",
		Description: "M8",
		Price:       0.25,
		Quantity:    10,
		WarehouseID: theirs.Warehouse.ID,
	})
	if !errors.Is(err, domain.ErrWarehouseNotFound) {
		t.Errorf("expected ErrWarehouseNotFound, got %v", err)
	}
}

func TestProductService_DeleteScopedToOwner(t *testing.T) {
	svc, warehouseSvc, _ := newProductFixture()
	ctx := context.Background()

	w, _ := warehouseSvc.Create(ctx, CreateWarehouseInput{OwnerID: 1, Name: "Main"})
	created, _ := svc.AddRange(ctx, AddProductsInput{
		OwnerID: 1,
		Items:   []ProductInput{{Name: "Bolt", Description: "M8", Price: 0.25, Quantity: 10, WarehouseID: w.Warehouse.ID}},
	})
	id := created.Products[0].ID

	if err := svc.Delete(ctx, id, 2); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound for other owner, got %v", err)
	}
	if err := svc.Delete(ctx, id, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(ctx, id, 1); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound on second delete, got %v", err)
	}
}
