package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"go-supermarket-pos/internal/repository"
	"go-supermarket-pos/internal/service"
	"go-supermarket-pos/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventoryApp(t *testing.T) *fiber.App {
	t.Helper()
	db := testutil.NewDB(t)
	svc := service.NewInventoryService(repository.NewProductRepo(db), repository.NewTransactionRepo(db), nil, nil, 5)
	h := NewInventoryHandler(svc)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Post("/products", h.CreateProduct)
	app.Get("/products", h.GetProducts)
	app.Get("/products/:id", h.GetProduct)
	app.Put("/products/:id", h.UpdateProduct)
	app.Delete("/products/:id", h.DeleteProduct)
	app.Get("/transactions/:id", h.GetTransaction)
	return app
}

func sendJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	out := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

const breadJSON = `{"barcode":"8991001","name":"Bread","category":"Bakery","quantity_in_stock":12,"buying_price":"1.10","selling_price":"1.80","expiry_date":"2026-11-01"}`

func TestProductLifecycleOverHTTP(t *testing.T) {
	app := newInventoryApp(t)

	status, out := sendJSON(t, app, "POST", "/products", breadJSON)
	require.Equal(t, fiber.StatusCreated, status, out)
	data := out["data"].(map[string]interface{})
	id := data["id"].(string)
	assert.Equal(t, "In stock", data["status"])

	status, out = sendJSON(t, app, "POST", "/products", breadJSON)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Product with this barcode already exists", out["error"])

	status, out = sendJSON(t, app, "PUT", "/products/"+id, `{"quantity_in_stock":2}`)
	require.Equal(t, fiber.StatusOK, status, out)
	data = out["data"].(map[string]interface{})
	assert.Equal(t, "Low stock", data["status"])
	assert.Equal(t, "Bread", data["name"])

	status, out = sendJSON(t, app, "PUT", "/products/"+id, `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "No valid fields to update", out["error"])

	status, out = sendJSON(t, app, "GET", "/products?search=bread", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), out["total"])

	status, _ = sendJSON(t, app, "DELETE", "/products/"+id, "")
	assert.Equal(t, fiber.StatusOK, status)

	status, out = sendJSON(t, app, "GET", "/products/"+id, "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Product not found", out["error"])
}

func TestProductValidationOverHTTP(t *testing.T) {
	app := newInventoryApp(t)

	status, out := sendJSON(t, app, "POST", "/products", `{"barcode":"1","name":"x","category":"y","buying_price":1,"selling_price":2,"status":"Gone"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, out["error"], "product_status")

	status, out = sendJSON(t, app, "GET", "/products/not-a-uuid", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid product ID", out["error"])

	status, _ = sendJSON(t, app, "GET", "/transactions/"+uuid.NewString(), "")
	assert.Equal(t, fiber.StatusNotFound, status)
}
