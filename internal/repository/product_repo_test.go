package repository

import (
	"context"
	"testing"

	"go-supermarket-pos/internal/model"
	"go-supermarket-pos/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestProductRepoFindAllFilters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "1001", 20)
	testutil.SeedProduct(t, db, "1002", 3)
	milk := testutil.SeedProduct(t, db, "2001", 0)
	require.NoError(t, db.Model(milk).Updates(map[string]interface{}{"name": "Fresh Milk", "category": "Dairy"}).Error)

	all, total, err := repo.FindAll(ctx, ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	dairy, total, err := repo.FindAll(ctx, ProductFilter{Category: "Dairy"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, dairy, 1)
	assert.Equal(t, "2001", dairy[0].Barcode)

	found, _, err := repo.FindAll(ctx, ProductFilter{Search: "milk"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, milk.ID, found[0].ID)

	low, _, err := repo.FindAll(ctx, ProductFilter{Status: string(model.StatusLowStock)})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "1002", low[0].Barcode)

	page, total, err := repo.FindAll(ctx, ProductFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 1)
}

func TestProductRepoUpdateAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()

	p := testutil.SeedProduct(t, db, "1001", 20)

	require.NoError(t, repo.Update(ctx, p.ID, map[string]interface{}{model.ColName: "Renamed", model.ColUpdatedBy: "manager"}))
	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "manager", got.UpdatedBy)

	assert.ErrorIs(t, repo.Update(ctx, uuid.New(), map[string]interface{}{model.ColName: "x"}), gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(ctx, p.ID, "manager"))
	_, err = repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID, "manager"), gorm.ErrRecordNotFound)

	// The row survives for sale history.
	assert.Equal(t, 20, testutil.Stock(t, db, p.ID))
}

func TestProductRepoFindAvailable(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "1001", 4)
	testutil.SeedProduct(t, db, "1002", 0)
	gone := testutil.SeedProduct(t, db, "1003", 9)
	require.NoError(t, repo.Delete(ctx, gone.ID, "manager"))

	products, err := repo.FindAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "1001", products[0].Barcode)
	assert.Equal(t, 4, products[0].QuantityInStock)
	assert.Equal(t, "2", products[0].SellingPrice.String())

	low, err := repo.FindLowStock(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, low, 2)
	assert.Equal(t, "1002", low[0].Barcode)
}

func TestProductRepoDecrementStock(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductRepo(db)

	p := testutil.SeedProduct(t, db, "1001", 10)

	ok, err := repo.DecrementStock(db, p.ID, 4, 5, "worker")
	require.NoError(t, err)
	assert.True(t, ok)

	var got model.Product
	require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
	assert.Equal(t, 6, got.QuantityInStock)
	assert.Equal(t, model.StatusInStock, got.Status)
	assert.Equal(t, "worker", got.UpdatedBy)

	ok, err = repo.DecrementStock(db, p.ID, 2, 5, "worker")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
	assert.Equal(t, model.StatusLowStock, got.Status)

	ok, err = repo.DecrementStock(db, p.ID, 5, 5, "worker")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 4, testutil.Stock(t, db, p.ID))

	ok, err = repo.DecrementStock(db, p.ID, 4, 5, "worker")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
	assert.Equal(t, 0, got.QuantityInStock)
	assert.Equal(t, model.StatusOutOfStock, got.Status)

	ok, err = repo.DecrementStock(db, uuid.New(), 1, 5, "worker")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProductRepoDecrementIgnoresStaleRead(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductRepo(db)
	p := testutil.SeedProduct(t, db, "1001", 5)

	// Both callers saw 5 units; the second write must re-check the live row.
	seen, err := repo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, 5, seen.QuantityInStock)

	ok, err := repo.DecrementStock(db, p.ID, 4, 5, "till1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.DecrementStock(db, p.ID, seen.QuantityInStock-2, 5, "till2")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, testutil.Stock(t, db, p.ID))

	var got model.Product
	require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
	assert.Equal(t, "till1", got.UpdatedBy)
}

func TestProductRepoDecrementSkipsDeleted(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductRepo(db)

	p := testutil.SeedProduct(t, db, "1001", 10)
	require.NoError(t, repo.Delete(context.Background(), p.ID, "manager"))

	ok, err := repo.DecrementStock(db, p.ID, 1, 5, "worker")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 10, testutil.Stock(t, db, p.ID))
}
