package handler

import (
	"go-supermarket-pos/internal/service"
	"go-supermarket-pos/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
	alerts  *service.AlertService
}

func NewDashboardHandler(s service.DashboardService, alerts *service.AlertService) *DashboardHandler {
	return &DashboardHandler{service: s, alerts: alerts}
}

// GetDailySales returns units sold and revenue per day for charts
// Query params: days (default 7)
func (h *DashboardHandler) GetDailySales(c *fiber.Ctx) error {
	days := c.QueryInt("days", service.DefaultSalesDays)
	if days <= 0 {
		days = service.DefaultSalesDays
	}

	data, err := h.service.GetDailySales(c.UserContext(), days)
	if err != nil {
		logger.Error("Failed to fetch daily sales", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch daily sales"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats(c.UserContext())
	if err != nil {
		logger.Error("Failed to fetch dashboard stats", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}

	return c.JSON(stats)
}

// GetLowStock lists products at or below the low-stock threshold
func (h *DashboardHandler) GetLowStock(c *fiber.Ctx) error {
	products, err := h.service.GetLowStock(c.UserContext())
	if err != nil {
		logger.Error("Failed to fetch low-stock products", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch low-stock products"})
	}

	return c.JSON(fiber.Map{
		"count":    len(products),
		"products": products,
	})
}

// TriggerAlertScan runs the low-stock scan now and broadcasts the result
// POST /api/v1/alerts/scan
func (h *DashboardHandler) TriggerAlertScan(c *fiber.Ctx) error {
	items, err := h.alerts.Scan(c.UserContext())
	if err != nil {
		logger.Error("Low-stock scan failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to scan stock levels"})
	}
	return c.JSON(fiber.Map{
		"count":    len(items),
		"products": items,
	})
}
