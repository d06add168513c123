package handler

import (
	"go-pos-engine/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReturnsHandler struct {
	service service.ReturnsService
}

func NewReturnsHandler(s service.ReturnsService) *ReturnsHandler {
	return &ReturnsHandler{service: s}
}

// Search locates settled sales eligible for return
// GET /api/v1/returns/search?q=
func (h *ReturnsHandler) Search(c *fiber.Ctx) error {
	term := c.Query("q")

	results, err := h.service.FindReturnable(term)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"results": results, "count": len(results)})
}

// Accept records a return against a prior sale
// POST /api/v1/returns
func (h *ReturnsHandler) Accept(c *fiber.Ctx) error {
	var req service.AcceptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.Accept(&req)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.Status(201).JSON(result)
}

// GetReturns lists recorded returns
// GET /api/v1/returns
func (h *ReturnsHandler) GetReturns(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	returns, err := h.service.ListReturns(limit, offset)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(returns)
}

// GetReturn fetches one return with its lines
// GET /api/v1/returns/:id
func (h *ReturnsHandler) GetReturn(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid return ID"})
	}

	ret, err := h.service.GetReturn(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Return not found"})
	}
	return c.JSON(ret)
}
