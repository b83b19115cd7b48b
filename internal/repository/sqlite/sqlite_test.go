package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/inventario/internal/domain"
	"github.com/prn-tf/inventario/internal/repository"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(context.Background(), DefaultConfig(":memory:"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func seedUser(t *testing.T, db *DB, email string) *domain.User {
	t.Helper()

	user := domain.NewUser("Test User", email, "hash")
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := domain.NewUser("Maria", "maria@example.com", "hash")
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "maria@example.com", got.Email)
	require.Nil(t, got.CurrentToken)

	got, err = repo.GetByEmail(ctx, "maria@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	_, err = repo.GetByID(ctx, 999)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_EmailUniqueAmongLiveUsers(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := seedUser(t, db, "dup@example.com")

	err := repo.Create(ctx, domain.NewUser("Other", "dup@example.com", "hash"))
	require.ErrorIs(t, err, domain.ErrEmailAlreadyUsed)

	// A soft-deleted user releases the email for reuse.
	require.NoError(t, repo.SoftDelete(ctx, first.ID))
	require.NoError(t, repo.Create(ctx, domain.NewUser("Other", "dup@example.com", "hash")))
}

func TestUserRepository_TokenLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "token@example.com")

	ok, err := repo.CheckToken(ctx, user.ID, "jwt-a")
	require.NoError(t, err)
	require.False(t, ok)

	token := "jwt-a"
	require.NoError(t, repo.UpdateToken(ctx, user.ID, &token))

	ok, err = repo.CheckToken(ctx, user.ID, "jwt-a")
	require.NoError(t, err)
	require.True(t, ok)

	// A new login replaces the stored token, revoking the old one.
	replacement := "jwt-b"
	require.NoError(t, repo.UpdateToken(ctx, user.ID, &replacement))

	ok, err = repo.CheckToken(ctx, user.ID, "jwt-a")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, repo.UpdateToken(ctx, user.ID, nil))

	ok, err = repo.CheckToken(ctx, user.ID, "jwt-b")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUserRepository_EmailInUse(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "inuse@example.com")

	inUse, err := repo.EmailInUse(ctx, "inuse@example.com", 0)
	require.NoError(t, err)
	require.True(t, inUse)

	// The owner of the email is excluded when updating their own profile.
	inUse, err = repo.EmailInUse(ctx, "inuse@example.com", user.ID)
	require.NoError(t, err)
	require.False(t, inUse)
}

func TestUserRepository_SoftDeleteHidesUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "gone@example.com")
	require.NoError(t, repo.SoftDelete(ctx, user.ID))

	_, err := repo.GetByID(ctx, user.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.ErrorIs(t, repo.SoftDelete(ctx, user.ID), repository.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, user), repository.ErrNotFound)
}

func TestWarehouseRepository_OwnershipScoping(t *testing.T) {
	db := newTestDB(t)
	repo := NewWarehouseRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@example.com")
	intruder := seedUser(t, db, "intruder@example.com")

	warehouse := domain.NewWarehouse(owner.ID, "Central")
	require.NoError(t, repo.Create(ctx, warehouse))

	got, err := repo.GetOwned(ctx, warehouse.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, "Central", got.Name)

	// Someone else's warehouse looks like it doesn't exist.
	_, err = repo.GetOwned(ctx, warehouse.ID, intruder.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	warehouse.Name = "Renamed"
	warehouse.OwnerID = intruder.ID
	require.ErrorIs(t, repo.Update(ctx, warehouse), repository.ErrNotFound)

	list, err := repo.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = repo.ListByOwner(ctx, intruder.ID)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestWarehouseRepository_CascadeDelete(t *testing.T) {
	db := newTestDB(t)
	warehouses := NewWarehouseRepository(db)
	products := NewProductRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "cascade@example.com")

	warehouse := domain.NewWarehouse(owner.ID, "Doomed")
	require.NoError(t, warehouses.Create(ctx, warehouse))

	other := domain.NewWarehouse(owner.ID, "Survivor")
	require.NoError(t, warehouses.Create(ctx, other))

	batch := []*domain.Product{
		domain.NewProduct(warehouse.ID, "Widget", "A widget", 9.99, 3),
		domain.NewProduct(warehouse.ID, "Gadget", "A gadget", 19.99, 1),
		domain.NewProduct(other.ID, "Keeper", "Stays alive", 5.00, 2),
	}
	require.NoError(t, products.CreateBatch(ctx, batch))

	require.NoError(t, warehouses.CascadeDelete(ctx, warehouse.ID, owner.ID))

	_, err := warehouses.GetOwned(ctx, warehouse.ID, owner.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	for _, p := range batch[:2] {
		_, err := products.GetOwned(ctx, p.ID, owner.ID)
		require.ErrorIs(t, err, repository.ErrNotFound)
	}

	// Products in other warehouses are untouched.
	_, err = products.GetOwned(ctx, batch[2].ID, owner.ID)
	require.NoError(t, err)

	// Deleting again finds nothing.
	require.ErrorIs(t, warehouses.CascadeDelete(ctx, warehouse.ID, owner.ID), repository.ErrNotFound)
}

func TestWarehouseRepository_CascadeDeleteWrongOwner(t *testing.T) {
	db := newTestDB(t)
	warehouses := NewWarehouseRepository(db)
	products := NewProductRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "o1@example.com")
	intruder := seedUser(t, db, "o2@example.com")

	warehouse := domain.NewWarehouse(owner.ID, "Protected")
	require.NoError(t, warehouses.Create(ctx, warehouse))

	product := domain.NewProduct(warehouse.ID, "Safe", "Still here", 1.00, 1)
	require.NoError(t, products.CreateBatch(ctx, []*domain.Product{product}))

	require.ErrorIs(t, warehouses.CascadeDelete(ctx, warehouse.ID, intruder.ID), repository.ErrNotFound)

	_, err := products.GetOwned(ctx, product.ID, owner.ID)
	require.NoError(t, err)
}

func TestProductRepository_ScopedAccess(t *testing.T) {
	db := newTestDB(t)
	warehouses := NewWarehouseRepository(db)
	products := NewProductRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "p1@example.com")
	intruder := seedUser(t, db, "p2@example.com")

	warehouse := domain.NewWarehouse(owner.ID, "Main")
	require.NoError(t, warehouses.Create(ctx, warehouse))

	product := domain.NewProduct(warehouse.ID, "Bolt", "M8 bolt", 0.25, 500)
	require.NoError(t, products.CreateBatch(ctx, []*domain.Product{product}))
	require.NotZero(t, product.ID)

	got, err := products.GetOwned(ctx, product.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, "Bolt", got.Name)

	_, err = products.GetOwned(ctx, product.ID, intruder.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.ErrorIs(t, products.SoftDelete(ctx, product.ID, intruder.ID), repository.ErrNotFound)
	require.NoError(t, products.SoftDelete(ctx, product.ID, owner.ID))

	_, err = products.GetOwned(ctx, product.ID, owner.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProductRepository_ListByWarehouseIDs(t *testing.T) {
	db := newTestDB(t)
	warehouses := NewWarehouseRepository(db)
	products := NewProductRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "list@example.com")

	w1 := domain.NewWarehouse(owner.ID, "A")
	w2 := domain.NewWarehouse(owner.ID, "B")
	require.NoError(t, warehouses.Create(ctx, w1))
	require.NoError(t, warehouses.Create(ctx, w2))

	require.NoError(t, products.CreateBatch(ctx, []*domain.Product{
		domain.NewProduct(w1.ID, "One", "first", 1, 1),
		domain.NewProduct(w2.ID, "Two", "second", 2, 2),
		domain.NewProduct(w2.ID, "Three", "third", 3, 3),
	}))

	list, err := products.ListByWarehouseIDs(ctx, []int64{w1.ID, w2.ID})
	require.NoError(t, err)
	require.Len(t, list, 3)

	list, err = products.ListByWarehouseIDs(ctx, []int64{w2.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)

	list, err = products.ListByWarehouseIDs(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestProductRepository_Update(t *testing.T) {
	db := newTestDB(t)
	warehouses := NewWarehouseRepository(db)
	products := NewProductRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "upd@example.com")

	warehouse := domain.NewWarehouse(owner.ID, "Main")
	require.NoError(t, warehouses.Create(ctx, warehouse))

	product := domain.NewProduct(warehouse.ID, "Nut", "M8 nut", 0.10, 100)
	require.NoError(t, products.CreateBatch(ctx, []*domain.Product{product}))

	product.Name = "Locknut"
	product.Price = 0.15
	product.Quantity = 80
	require.NoError(t, products.Update(ctx, product))

	got, err := products.GetOwned(ctx, product.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, "Locknut", got.Name)
	require.InDelta(t, 0.15, got.Price, 1e-9)
	require.EqualValues(t, 80, got.Quantity)

	product.ID = 999
	require.ErrorIs(t, products.Update(ctx, product), repository.ErrNotFound)
}

func TestSoftDeleteStampsUpdatedAt(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	warehouses := NewWarehouseRepository(db)
	products := NewProductRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "stamp@example.com")

	warehouse := domain.NewWarehouse(owner.ID, "Doomed")
	require.NoError(t, warehouses.Create(ctx, warehouse))

	keeper := domain.NewWarehouse(owner.ID, "Keeper")
	require.NoError(t, warehouses.Create(ctx, keeper))

	cascaded := domain.NewProduct(warehouse.ID, "Bolt", "M8 bolt", 0.25, 5)
	direct := domain.NewProduct(keeper.ID, "Nut", "M8 nut", 0.10, 5)
	require.NoError(t, products.CreateBatch(ctx, []*domain.Product{cascaded, direct}))

	// Age every row so a deletion that fails to bump updated_at is visible.
	stale := fmtTime(time.Now().Add(-time.Hour))
	for _, table := range []string{"users", "warehouses", "products"} {
		_, err := db.ExecContext(ctx, "UPDATE "+table+" SET updated_at = ?", stale)
		require.NoError(t, err)
	}

	require.NoError(t, warehouses.CascadeDelete(ctx, warehouse.ID, owner.ID))
	require.NoError(t, products.SoftDelete(ctx, direct.ID, owner.ID))
	require.NoError(t, users.SoftDelete(ctx, owner.ID))

	checks := []struct {
		table string
		id    int64
	}{
		{"warehouses", warehouse.ID},
		{"products", cascaded.ID},
		{"products", direct.ID},
		{"users", owner.ID},
	}
	for _, c := range checks {
		var deletedAt, updatedAt string
		err := db.QueryRowContext(ctx,
			"SELECT deleted_at, updated_at FROM "+c.table+" WHERE id = ?", c.id,
		).Scan(&deletedAt, &updatedAt)
		require.NoError(t, err)
		require.Equal(t, deletedAt, updatedAt, "%s %d: updated_at not bumped to deletion time", c.table, c.id)
		require.NotEqual(t, stale, updatedAt, "%s %d: updated_at still stale", c.table, c.id)
	}
}
