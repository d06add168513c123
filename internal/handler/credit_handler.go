package handler

import (
	"go-pos-engine/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreditHandler struct {
	service service.CreditService
}

func NewCreditHandler(s service.CreditService) *CreditHandler {
	return &CreditHandler{service: s}
}

// RecordPayment applies a payment against an open credit
// POST /api/v1/credits/payments
func (h *CreditHandler) RecordPayment(c *fiber.Ctx) error {
	var req service.RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.RecordPayment(&req)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.Status(201).JSON(result)
}

// GetDebtors lists customers with outstanding balances
// GET /api/v1/credits/debtors
func (h *CreditHandler) GetDebtors(c *fiber.Ctx) error {
	debtors, err := h.service.DebtorsSummary()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(debtors)
}

// GetDebtor shows one customer's credits and payment history
// GET /api/v1/credits/debtors/:customerId
func (h *CreditHandler) GetDebtor(c *fiber.Ctx) error {
	customerID, err := uuid.Parse(c.Params("customerId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	detail, err := h.service.DebtorDetail(customerID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(detail)
}

// GetCredit fetches one credit with its payments
// GET /api/v1/credits/:id
func (h *CreditHandler) GetCredit(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid credit ID"})
	}

	credit, err := h.service.CreditDetail(id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(credit)
}
