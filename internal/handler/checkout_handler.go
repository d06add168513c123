package handler

import (
	"go-pos-engine/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CheckoutHandler struct {
	service service.CheckoutService
}

func NewCheckoutHandler(s service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: s}
}

// Commit handles checkout
// POST /api/v1/checkout
func (h *CheckoutHandler) Commit(c *fiber.Ctx) error {
	var req service.CommitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sale, err := h.service.Commit(&req)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"id":         sale.ID,
		"total":      sale.Total,
		"saleType":   sale.Kind,
		"change_due": sale.ChangeDue,
	})
}

// GetSales lists committed sales
// GET /api/v1/sales
func (h *CheckoutHandler) GetSales(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	sales, err := h.service.ListSales(limit, offset)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(sales)
}

// GetSale fetches one sale with its lines
// GET /api/v1/sales/:id
func (h *CheckoutHandler) GetSale(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.service.GetSale(id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(sale)
}
