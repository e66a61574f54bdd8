package handler

import (
	"errors"

	"go-supermarket-pos/internal/middleware"
	"go-supermarket-pos/internal/repository"
	"go-supermarket-pos/internal/service"
	"go-supermarket-pos/pkg/logger"
	"go-supermarket-pos/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// Helper untuk ambil User Info dari JWT Context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals(middleware.LocalUserID).(string)
	if !ok {
		return "system"
	}
	return userID
}

func getActor(c *fiber.Ctx) service.Actor {
	actor := service.Actor{Username: "system", Name: "System"}
	if id, err := uuid.Parse(getUserID(c)); err == nil {
		actor.ID = id
	}
	if username, ok := c.Locals(middleware.LocalUsername).(string); ok {
		actor.Username = username
	}
	if name, ok := c.Locals(middleware.LocalUserName).(string); ok && name != "" {
		actor.Name = name
	} else {
		actor.Name = actor.Username
	}
	return actor
}

// Helper untuk parse UUID dari string
func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// productError maps product service errors to a response.
func productError(c *fiber.Ctx, err error) error {
	var verr *validator.ErrorResponse
	switch {
	case errors.As(err, &verr),
		errors.Is(err, service.ErrNegativePrice),
		errors.Is(err, service.ErrDuplicateBarcode),
		errors.Is(err, service.ErrNoFieldsToUpdate):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
	logger.Error("Product request failed", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
}

// CreateProduct
// POST /api/v1/products
func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.CreateProduct(c.UserContext(), &req, getActor(c))
	if err != nil {
		return productError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

// UpdateProduct applies the fields present in the body.
// PUT /api/v1/products/:id
func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), productID, &req, getActor(c))
	if err != nil {
		return productError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

// DeleteProduct
// DELETE /api/v1/products/:id
func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.service.DeleteProduct(c.UserContext(), productID, getActor(c)); err != nil {
		return productError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// GetProducts
// GET /api/v1/products?search=&category=&status=&page=&limit=
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	filter := repository.ProductFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", repository.DefaultPageLimit),
	}

	products, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return productError(c, err)
	}
	return c.JSON(products)
}

// GetProduct
// GET /api/v1/products/:id
func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.service.GetProduct(c.UserContext(), productID)
	if err != nil {
		return productError(c, err)
	}
	return c.JSON(product)
}

// GetTransactions
// GET /api/v1/transactions?page=&limit=
func (h *InventoryHandler) GetTransactions(c *fiber.Ctx) error {
	transactions, err := h.service.ListTransactions(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("limit", repository.DefaultPageLimit))
	if err != nil {
		logger.Error("Failed to list transactions", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(transactions)
}

// GetTransaction
// GET /api/v1/transactions/:id
func (h *InventoryHandler) GetTransaction(c *fiber.Ctx) error {
	txID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	tx, err := h.service.GetTransaction(c.UserContext(), txID)
	if err != nil {
		if errors.Is(err, service.ErrTransactionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Transaction not found"})
		}
		logger.Error("Failed to load transaction", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(tx)
}
