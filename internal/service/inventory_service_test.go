package service

import (
	"context"
	"testing"

	"go-supermarket-pos/internal/model"
	"go-supermarket-pos/internal/repository"
	"go-supermarket-pos/internal/testutil"
	"go-supermarket-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newInventory(db *gorm.DB, cache CatalogCache) InventoryService {
	return NewInventoryService(repository.NewProductRepo(db), repository.NewTransactionRepo(db), nil, cache, 5)
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func validCreate(barcode string) *CreateProductRequest {
	return &CreateProductRequest{
		Barcode:         barcode,
		Name:            "Whole Milk 1L",
		Category:        "Dairy",
		QuantityInStock: 3,
		BuyingPrice:     price("0.80"),
		SellingPrice:    price("1.20"),
		ExpiryDate:      "2026-12-31",
		Supplier:        "Farm Co",
	}
}

func TestCreateProduct(t *testing.T) {
	db := testutil.NewDB(t)
	cache := new(mockCache)
	cache.On("Delete", mock.Anything, []string{CatalogCacheKey}).Return(nil).Once()
	svc := newInventory(db, cache)

	p, err := svc.CreateProduct(context.Background(), validCreate("8991001"), testActor)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, model.StatusLowStock, p.Status)
	assert.Equal(t, "piece", p.Unit)
	require.NotNil(t, p.ExpiryDate)
	assert.Equal(t, "2026-12-31", p.ExpiryDate.Format("2006-01-02"))
	assert.Equal(t, testActor.ID.String(), p.CreatedBy)
	cache.AssertExpectations(t)
}

func TestCreateProductRejectsInvalidInput(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newInventory(db, nil)
	ctx := context.Background()

	req := validCreate("")
	_, err := svc.CreateProduct(ctx, req, testActor)
	var verr *validator.ErrorResponse
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "required", verr.Tag)

	req = validCreate("1")
	req.ExpiryDate = "31-12-2026"
	_, err = svc.CreateProduct(ctx, req, testActor)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "date_ymd", verr.Tag)

	req = validCreate("1")
	req.Status = "Sold out"
	_, err = svc.CreateProduct(ctx, req, testActor)
	require.ErrorAs(t, err, &verr)

	req = validCreate("1")
	req.SellingPrice = nil
	_, err = svc.CreateProduct(ctx, req, testActor)
	require.ErrorAs(t, err, &verr)

	req = validCreate("1")
	req.BuyingPrice = price("-1")
	_, err = svc.CreateProduct(ctx, req, testActor)
	assert.ErrorIs(t, err, ErrNegativePrice)

	req = validCreate("1")
	req.QuantityInStock = -1
	_, err = svc.CreateProduct(ctx, req, testActor)
	require.ErrorAs(t, err, &verr)

	assert.Equal(t, int64(0), testutil.Count(t, db, &model.Product{}))
}

func TestCreateProductDuplicateBarcode(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newInventory(db, nil)

	_, err := svc.CreateProduct(context.Background(), validCreate("8991001"), testActor)
	require.NoError(t, err)
	_, err = svc.CreateProduct(context.Background(), validCreate("8991001"), testActor)
	assert.ErrorIs(t, err, ErrDuplicateBarcode)
	assert.Equal(t, "Product with this barcode already exists", err.Error())
}

func TestUpdateProductPartial(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newInventory(db, nil)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, validCreate("8991001"), testActor)
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(ctx, p.ID, &UpdateProductRequest{QuantityInStock: intPtr(40)}, testActor)
	require.NoError(t, err)
	assert.Equal(t, 40, updated.QuantityInStock)
	assert.Equal(t, model.StatusInStock, updated.Status)
	assert.Equal(t, "Whole Milk 1L", updated.Name)
	assert.Equal(t, "Farm Co", updated.Supplier)

	updated, err = svc.UpdateProduct(ctx, p.ID, &UpdateProductRequest{
		Name:       strPtr("Skimmed Milk 1L"),
		Status:     strPtr("Out of stock"),
		ExpiryDate: strPtr(""),
	}, testActor)
	require.NoError(t, err)
	assert.Equal(t, "Skimmed Milk 1L", updated.Name)
	assert.Equal(t, model.StatusOutOfStock, updated.Status)
	assert.Nil(t, updated.ExpiryDate)
	assert.Equal(t, 40, updated.QuantityInStock)
}

func TestUpdateProductErrors(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newInventory(db, nil)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, validCreate("8991001"), testActor)
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, validCreate("8991002"), testActor)
	require.NoError(t, err)

	_, err = svc.UpdateProduct(ctx, p.ID, &UpdateProductRequest{}, testActor)
	assert.ErrorIs(t, err, ErrNoFieldsToUpdate)

	_, err = svc.UpdateProduct(ctx, uuid.New(), &UpdateProductRequest{Name: strPtr("x")}, testActor)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.UpdateProduct(ctx, p.ID, &UpdateProductRequest{Barcode: strPtr("8991002")}, testActor)
	assert.ErrorIs(t, err, ErrDuplicateBarcode)

	_, err = svc.UpdateProduct(ctx, p.ID, &UpdateProductRequest{Barcode: strPtr("8991001"), Name: strPtr("same barcode")}, testActor)
	assert.NoError(t, err)

	_, err = svc.UpdateProduct(ctx, p.ID, &UpdateProductRequest{QuantityInStock: intPtr(-4)}, testActor)
	var verr *validator.ErrorResponse
	assert.ErrorAs(t, err, &verr)

	_, err = svc.UpdateProduct(ctx, p.ID, &UpdateProductRequest{SellingPrice: price("-0.01")}, testActor)
	assert.ErrorIs(t, err, ErrNegativePrice)
}

func TestDeleteProduct(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newInventory(db, nil)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, validCreate("8991001"), testActor)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID, testActor))
	_, err = svc.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, svc.DeleteProduct(ctx, p.ID, testActor), ErrProductNotFound)
}

func TestListProductsPaging(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newInventory(db, nil)

	for _, code := range []string{"1", "2", "3", "4", "5"} {
		testutil.SeedProduct(t, db, code, 10)
	}

	resp, err := svc.ListProducts(context.Background(), repository.ProductFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, int64(5), resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 2, resp.Limit)
	assert.Equal(t, int64(3), resp.TotalPages)

	resp, err = svc.ListProducts(context.Background(), repository.ProductFilter{Search: "nothing-matches"})
	require.NoError(t, err)
	assert.NotNil(t, resp.Products)
	assert.Equal(t, 0, resp.Count)
	assert.Equal(t, repository.DefaultPageLimit, resp.Limit)
}

func TestTransactionsReadSide(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.SeedProduct(t, db, "1001", 10)
	ctx := context.Background()

	sold, err := newPOS(db, nil, nil).RecordSale(ctx, sale(SaleItem{ProductID: p.ID, Quantity: 2}), testActor)
	require.NoError(t, err)

	svc := newInventory(db, nil)
	list, err := svc.ListTransactions(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, int64(1), list.Total)

	got, err := svc.GetTransaction(ctx, sold.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].Product)
	assert.Equal(t, "1001", got.Items[0].Product.Barcode)

	_, err = svc.GetTransaction(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}
