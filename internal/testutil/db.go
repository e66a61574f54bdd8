// Package testutil opens throwaway stores for package tests.
package testutil

import (
	"testing"

	"go-supermarket-pos/internal/model"
	"go-supermarket-pos/pkg/config"
	"go-supermarket-pos/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Models lists every table the API migrates.
var Models = []interface{}{
	&model.Privilege{},
	&model.Role{},
	&model.User{},
	&model.Product{},
	&model.Transaction{},
	&model.TransactionItem{},
}

// NewDB opens a private in-memory sqlite store with the schema migrated.
// A single connection serializes transactions the way row locks do on postgres.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models...))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// SeedProduct inserts a product with the given barcode and stock.
func SeedProduct(t *testing.T, db *gorm.DB, barcode string, qty int) *model.Product {
	t.Helper()

	p := &model.Product{
		Barcode:         barcode,
		Name:            "Product " + barcode,
		Category:        "Groceries",
		QuantityInStock: qty,
		Unit:            "piece",
		BuyingPrice:     decimal.RequireFromString("1.50"),
		SellingPrice:    decimal.RequireFromString("2.00"),
		Status:          model.StatusFor(qty, 5),
	}
	p.CreatedBy = "seed"
	p.UpdatedBy = "seed"
	require.NoError(t, db.Create(p).Error)
	return p
}

// Stock reads the current quantity of a product, including soft-deleted ones.
func Stock(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()

	var p model.Product
	require.NoError(t, db.Unscoped().First(&p, "id = ?", id).Error)
	return p.QuantityInStock
}

// Count returns the number of rows in the table behind m.
func Count(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}
