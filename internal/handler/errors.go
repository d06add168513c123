package handler

import (
	"errors"

	"go-pos-engine/internal/model"

	"github.com/gofiber/fiber/v2"
)

// writeServiceError maps a typed engine failure to a response with enough
// structure to identify the offending field or line.
func writeServiceError(c *fiber.Ctx, err error) error {
	var stockErr *model.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(409).JSON(fiber.Map{
			"error":      "insufficient_stock",
			"detail":     stockErr.Error(),
			"product_id": stockErr.ProductID,
			"requested":  stockErr.Requested,
			"disponible": stockErr.Available,
		})
	}

	var excessErr *model.ExcessReturnQuantityError
	if errors.As(err, &excessErr) {
		return c.Status(400).JSON(fiber.Map{
			"error":      "excess_return_quantity",
			"detail":     excessErr.Error(),
			"detalle_id": excessErr.SaleLineItemID,
			"requested":  excessErr.Requested,
			"disponible": excessErr.Available,
		})
	}

	switch {
	case errors.Is(err, model.ErrSaleNotFound),
		errors.Is(err, model.ErrCreditNotFound),
		errors.Is(err, model.ErrProductNotFound),
		errors.Is(err, model.ErrCustomerNotFound),
		errors.Is(err, model.ErrLineNotInSale):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
}
