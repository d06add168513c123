package service

import (
	"time"

	"go-pos-engine/internal/model"
	"go-pos-engine/internal/money"
	"go-pos-engine/internal/repository"
	"go-pos-engine/internal/ws"
	"go-pos-engine/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckoutService turns a cart into a committed Sale and, for credit
// sales, an opened Credit. The whole commit is one storage transaction:
// either sale, lines, stock decrements and credit rows all land, or none.
type CheckoutService interface {
	Commit(req *CommitRequest) (*model.Sale, error)
	GetSale(id uuid.UUID) (*model.Sale, error)
	ListSales(limit, offset int) ([]model.Sale, error)
}

type CommitRequest struct {
	SaleType      string          `json:"saleType" validate:"required,oneof=DIRECT CREDIT"`
	PaymentMethod string          `json:"paymentMethod" validate:"required,oneof=CASH CARD TRANSFER"`
	CustomerID    *uuid.UUID      `json:"customerId"`
	Items         []CommitItem    `json:"items"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	Reference     string          `json:"reference"`
	Notes         string          `json:"notes"`

	// Optional client token; a retried commit with the same key returns
	// the sale committed the first time.
	IdempotencyKey string `json:"idempotencyKey"`
}

type CommitItem struct {
	ProductID uuid.UUID       `json:"productId" validate:"uuid_required"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Override  bool            `json:"override"`
}

type checkoutService struct {
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
	creditRepo   repository.CreditRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewCheckoutService(
	pRepo repository.ProductRepository,
	cRepo repository.CustomerRepository,
	sRepo repository.SaleRepository,
	crRepo repository.CreditRepository,
	db *gorm.DB,
	hub *ws.Hub,
) CheckoutService {
	return &checkoutService{
		productRepo:  pRepo,
		customerRepo: cRepo,
		saleRepo:     sRepo,
		creditRepo:   crRepo,
		db:           db,
		wsHub:        hub,
	}
}

// buildSale validates the cart and payment data and assembles the Sale in
// memory. No storage is touched; snapshots and stock move in Commit's
// transaction. Validation order: cart non-empty, credit customer present,
// line quantities and prices, tender rules.
func buildSale(req *CommitRequest, now time.Time) (*model.Sale, error) {
	if len(req.Items) == 0 {
		return nil, model.ErrEmptyCart
	}

	kind := model.SaleKind(req.SaleType)
	if kind == model.SaleCredit && req.CustomerID == nil {
		return nil, model.ErrCustomerRequired
	}

	total := decimal.Zero
	lines := make([]model.SaleLineItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Qty <= 0 {
			return nil, model.ErrInvalidQuantity
		}
		price := money.Sanitize(it.UnitPrice)
		if price.IsNegative() {
			return nil, model.ErrInvalidPrice
		}
		subtotal := money.LineTotal(it.Qty, price)
		total = total.Add(subtotal)

		productID := it.ProductID
		lines = append(lines, model.SaleLineItem{
			ProductID: &productID,
			Quantity:  it.Qty,
			UnitPrice: price,
			Subtotal:  subtotal,
			Override:  it.Override,
		})
	}

	method := model.PaymentMethod(req.PaymentMethod)
	paid := money.Sanitize(req.PaidAmount)
	change := decimal.Zero

	switch kind {
	case model.SaleDirect:
		if method == model.PayCash {
			if paid.LessThan(total) {
				return nil, model.ErrInsufficientPayment
			}
			change = paid.Sub(total)
		} else {
			// Card and transfer charge exactly the total; no change.
			paid = total
		}
	case model.SaleCredit:
		if paid.IsNegative() || paid.GreaterThan(total) {
			return nil, model.ErrInvalidInitialPayment
		}
	}

	sale := &model.Sale{
		OccurredAt:     now,
		Kind:           kind,
		PaymentMethod:  method,
		CustomerID:     req.CustomerID,
		Total:          total,
		AmountTendered: paid,
		ChangeDue:      change,
		Reference:      req.Reference,
		Lines:          lines,
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		sale.IdempotencyKey = &key
	}
	return sale, nil
}

func (s *checkoutService) Commit(req *CommitRequest) (*model.Sale, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validator.FirstError(errs)
	}

	if req.IdempotencyKey != "" {
		existing, err := s.saleRepo.FindByIdempotencyKey(req.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	now := time.Now()
	sale, err := buildSale(req, now)
	if err != nil {
		return nil, err
	}

	if req.CustomerID != nil {
		if _, err := s.customerRepo.FindByID(*req.CustomerID); err != nil {
			return nil, err
		}
	}

	var deltas []ws.StockDelta

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i := range sale.Lines {
			line := &sale.Lines[i]

			var product model.Product
			if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
				return model.ErrProductNotFound
			}
			line.ProductCodeSnapshot = product.Code
			line.ProductNameSnapshot = product.Name
			line.ProductCostSnapshot = product.Cost
			line.ProductKindSnapshot = product.Kind

			if product.Stocked() {
				if err := s.productRepo.DecrementStock(tx, product.ID, line.Quantity); err != nil {
					return err
				}
				deltas = append(deltas, ws.StockDelta{
					ProductID: product.ID.String(),
					Delta:     -line.Quantity,
				})
			}
		}

		if err := s.saleRepo.Create(tx, sale); err != nil {
			return err
		}

		if sale.Kind == model.SaleCredit {
			credit := &model.Credit{
				CustomerID: *sale.CustomerID,
				SaleID:     sale.ID,
				Total:      sale.Total,
				Paid:       sale.AmountTendered,
				Notes:      req.Notes,
			}
			credit.Recompute()
			if err := s.creditRepo.Create(tx, credit); err != nil {
				return err
			}

			if sale.AmountTendered.IsPositive() {
				initial := &model.CreditPayment{
					CreditID: credit.ID,
					PaidAt:   now,
					Amount:   sale.AmountTendered,
					Method:   sale.PaymentMethod,
					Memo:     "Initial payment",
				}
				if err := s.creditRepo.AddPayment(tx, initial); err != nil {
					return err
				}
			}
		}

		if sale.CustomerID != nil {
			if err := s.customerRepo.TouchLastPurchase(tx, *sale.CustomerID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		// A concurrent retry may have committed under the same key while
		// this transaction ran; surface the winner instead of the error.
		if req.IdempotencyKey != "" {
			if existing, lookupErr := s.saleRepo.FindByIdempotencyKey(req.IdempotencyKey); lookupErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}

	if len(deltas) > 0 {
		s.wsHub.BroadcastStockUpdate("sale_committed", deltas)
	}

	return sale, nil
}

func (s *checkoutService) GetSale(id uuid.UUID) (*model.Sale, error) {
	return s.saleRepo.FindByID(id)
}

func (s *checkoutService) ListSales(limit, offset int) ([]model.Sale, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.saleRepo.FindAll(limit, offset)
}
