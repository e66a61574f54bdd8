package handler

import (
	"errors"

	"go-supermarket-pos/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders unhandled errors as {"error": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	if code == fiber.StatusNotFound {
		message = "Route not found"
	}
	if code >= fiber.StatusInternalServerError {
		logger.Error("Unhandled error on %s %s", err, c.Method(), c.Path())
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}

// Health
// GET /api/health
func Health(appName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"message": appName + " is running",
		})
	}
}
