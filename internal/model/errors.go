package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Typed failures surfaced by the engine. Validation errors are rejected
// before any side effect; the rest abort the whole transaction.
var (
	ErrEmptyCart             = errors.New("sale must contain at least one item")
	ErrCustomerRequired      = errors.New("credit sale requires a registered customer")
	ErrInsufficientPayment   = errors.New("amount tendered does not cover the total")
	ErrInvalidInitialPayment = errors.New("initial payment must be between zero and the sale total")
	ErrInvalidPaymentAmount  = errors.New("payment amount must be greater than zero")
	ErrInvalidPrice          = errors.New("unit price must be a non-negative amount")
	ErrInvalidQuantity       = errors.New("quantity must be greater than zero")
	ErrOverPayment           = errors.New("payment exceeds outstanding balance")
	ErrEmptyReturn           = errors.New("return must reference at least one line")
	ErrLineNotInSale         = errors.New("line item does not belong to the sale")

	ErrProductNotFound  = errors.New("product not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrSaleNotFound     = errors.New("sale not found")
	ErrCreditNotFound   = errors.New("credit not found")
)

// InsufficientStockError names the product whose conditional decrement
// failed, with the stock it had at that moment.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (requested %d, available %d)",
		e.ProductID, e.Requested, e.Available)
}

// ExcessReturnQuantityError names the sale line whose returnable quantity
// was exceeded, with the quantity still available.
type ExcessReturnQuantityError struct {
	SaleLineItemID uuid.UUID
	Requested      int
	Available      int
}

func (e *ExcessReturnQuantityError) Error() string {
	return fmt.Sprintf("return quantity %d exceeds available %d on line %s",
		e.Requested, e.Available, e.SaleLineItemID)
}
