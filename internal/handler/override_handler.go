package handler

import (
	"go-pos-engine/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OverrideHandler struct {
	service service.OverrideService
}

func NewOverrideHandler(s service.OverrideService) *OverrideHandler {
	return &OverrideHandler{service: s}
}

type validateOverrideRequest struct {
	Code string `json:"code"`
}

// Validate checks a price-override authorization code
// POST /api/v1/override/validate
func (h *OverrideHandler) Validate(c *fiber.Ctx) error {
	var req validateOverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.Validate(req.Code)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	if result.Locked {
		return c.Status(429).JSON(result)
	}
	if !result.OK {
		return c.Status(403).JSON(result)
	}
	return c.JSON(result)
}

// Status reports the throttle state without consuming an attempt
// GET /api/v1/override/status
func (h *OverrideHandler) Status(c *fiber.Ctx) error {
	status, err := h.service.Status()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(status)
}
