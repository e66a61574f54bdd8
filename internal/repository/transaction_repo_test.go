package repository

import (
	"context"
	"testing"
	"time"

	"go-supermarket-pos/internal/model"
	"go-supermarket-pos/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRepoCreateAndFind(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTransactionRepo(db)
	products := NewProductRepo(db)
	ctx := context.Background()

	bread := testutil.SeedProduct(t, db, "1001", 10)
	milk := testutil.SeedProduct(t, db, "1002", 10)

	header := &model.Transaction{
		WorkerID:      uuid.New(),
		TotalAmount:   decimal.RequireFromString("6.00"),
		PaymentMethod: "cash",
	}
	require.NoError(t, repo.CreateHeader(db, header))
	assert.NotEqual(t, uuid.Nil, header.ID)
	assert.False(t, header.TransactionDate.IsZero())

	require.NoError(t, repo.CreateItem(db, &model.TransactionItem{TransactionID: header.ID, ProductID: bread.ID, Quantity: 2}))
	require.NoError(t, repo.CreateItem(db, &model.TransactionItem{TransactionID: header.ID, ProductID: milk.ID, Quantity: 1}))

	// Deleting a product keeps it visible on past sales.
	require.NoError(t, products.Delete(ctx, milk.ID, "manager"))

	got, err := repo.FindByID(ctx, header.ID)
	require.NoError(t, err)
	assert.Equal(t, header.WorkerID, got.WorkerID)
	assert.True(t, decimal.RequireFromString("6").Equal(got.TotalAmount))
	require.Len(t, got.Items, 2)
	for _, item := range got.Items {
		require.NotNil(t, item.Product)
		assert.Equal(t, item.ProductID, item.Product.ID)
	}

	list, total, err := repo.FindAll(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Items, 2)
}

func TestTransactionRepoDashboardStats(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTransactionRepo(db)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "1001", 10) // 10 * 1.50
	testutil.SeedProduct(t, db, "1002", 2)  // 2 * 1.50
	testutil.SeedProduct(t, db, "1003", 0)

	require.NoError(t, repo.CreateHeader(db, &model.Transaction{
		WorkerID:    uuid.New(),
		TotalAmount: decimal.RequireFromString("12.50"),
	}))

	stats, err := repo.GetDashboardStats(ctx, 5, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.LowStockCount)
	assert.Equal(t, int64(1), stats.OutOfStockCount)
	assert.True(t, decimal.RequireFromString("18").Equal(stats.StockValuation), stats.StockValuation.String())
	assert.Equal(t, int64(1), stats.SalesCount)
	assert.True(t, decimal.RequireFromString("12.5").Equal(stats.Revenue), stats.Revenue.String())
}
