package handler

import (
	"errors"

	"go-supermarket-pos/internal/service"
	"go-supermarket-pos/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type POSHandler struct {
	service service.POSService
}

func NewPOSHandler(s service.POSService) *POSHandler {
	return &POSHandler{service: s}
}

// CreateSale records a checkout.
// POST /api/v1/pos/transactions
func (h *POSHandler) CreateSale(c *fiber.Ctx) error {
	var req service.SaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	tx, err := h.service.RecordSale(c.UserContext(), req, getActor(c))
	if err != nil {
		return saleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":         "success",
		"transaction_id": tx.ID,
	})
}

func saleError(c *fiber.Ctx, err error) error {
	var stockErr *service.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":      "Insufficient stock for product " + stockErr.ProductID.String(),
			"product_id": stockErr.ProductID,
		})
	case errors.Is(err, service.ErrEmptyLineItems):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No items in transaction"})
	case service.IsBadRequest(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrStoreUnavailable):
		logger.Error("Sale rejected, store unavailable", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Service temporarily unavailable"})
	}
	logger.Error("Sale failed", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record transaction"})
}

// Catalog lists products a till can sell.
// GET /api/v1/pos/products
func (h *POSHandler) Catalog(c *fiber.Ctx) error {
	catalog, err := h.service.Catalog(c.UserContext())
	if err != nil {
		logger.Error("Failed to load POS catalog", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(catalog)
}
