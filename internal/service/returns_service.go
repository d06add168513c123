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

// ReturnsService accepts partial, multi-line returns against a settled
// Sale. Line state is re-read under row locks immediately before commit so
// two overlapping returns cannot both pass the returnable-quantity check.
type ReturnsService interface {
	FindReturnable(term string) ([]ReturnableSale, error)
	Accept(req *AcceptRequest) (*AcceptResult, error)
	GetReturn(id uuid.UUID) (*model.Return, error)
	ListReturns(limit, offset int) ([]model.Return, error)
}

type AcceptRequest struct {
	SaleID uuid.UUID    `json:"saleId" validate:"uuid_required"`
	Reason string       `json:"reason"`
	Items  []AcceptItem `json:"items"`
}

type AcceptItem struct {
	SaleLineItemID uuid.UUID `json:"detalle_id" validate:"uuid_required"`
	Qty            int       `json:"qty"`
	Reason         string    `json:"motivo"`
}

type AcceptResult struct {
	ReturnID       uuid.UUID       `json:"return_id"`
	SaleID         uuid.UUID       `json:"sale_id"`
	RefundTotal    decimal.Decimal `json:"refund_total"`
	IncomeReversed decimal.Decimal `json:"income_reversed"`
	Lines          []AcceptedLine  `json:"items"`
}

type AcceptedLine struct {
	SaleLineItemID uuid.UUID       `json:"detalle_id"`
	Quantity       int             `json:"qty"`
	LineTotal      decimal.Decimal `json:"total"`
}

// ReturnableSale is a search hit with live returnable counts per line.
type ReturnableSale struct {
	SaleID       uuid.UUID        `json:"sale_id"`
	OccurredAt   time.Time        `json:"occurred_at"`
	Kind         model.SaleKind   `json:"kind"`
	CustomerName string           `json:"customer,omitempty"`
	Lines        []ReturnableLine `json:"lines"`
}

type ReturnableLine struct {
	SaleLineItemID   uuid.UUID       `json:"detalle_id"`
	ProductCode      string          `json:"product_code"`
	ProductName      string          `json:"product_name"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	QuantitySold     int             `json:"quantity_sold"`
	QuantityReturned int             `json:"quantity_returned"`
	Returnable       int             `json:"disponible"`
}

type returnsService struct {
	saleRepo    repository.SaleRepository
	returnRepo  repository.ReturnRepository
	creditRepo  repository.CreditRepository
	productRepo repository.ProductRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewReturnsService(
	sRepo repository.SaleRepository,
	rRepo repository.ReturnRepository,
	crRepo repository.CreditRepository,
	pRepo repository.ProductRepository,
	db *gorm.DB,
	hub *ws.Hub,
) ReturnsService {
	return &returnsService{
		saleRepo:    sRepo,
		returnRepo:  rRepo,
		creditRepo:  crRepo,
		productRepo: pRepo,
		db:          db,
		wsHub:       hub,
	}
}

// buildReturnPlan validates requested quantities against the current state
// of the locked sale lines and prices every return line at the unit price
// originally charged. Any violation rejects the whole return.
func buildReturnPlan(lines map[uuid.UUID]*model.SaleLineItem, items []AcceptItem) ([]model.ReturnLineItem, decimal.Decimal, error) {
	if len(items) == 0 {
		return nil, decimal.Zero, model.ErrEmptyReturn
	}

	// Requests against the same line accumulate, so two items totalling
	// more than the returnable quantity fail like a single oversized one.
	requested := make(map[uuid.UUID]int, len(items))

	planned := make([]model.ReturnLineItem, 0, len(items))
	refund := decimal.Zero

	for _, it := range items {
		line, ok := lines[it.SaleLineItemID]
		if !ok {
			return nil, decimal.Zero, model.ErrLineNotInSale
		}
		if it.Qty <= 0 {
			return nil, decimal.Zero, model.ErrInvalidQuantity
		}

		requested[it.SaleLineItemID] += it.Qty
		if requested[it.SaleLineItemID] > line.Returnable() {
			return nil, decimal.Zero, &model.ExcessReturnQuantityError{
				SaleLineItemID: it.SaleLineItemID,
				Requested:      requested[it.SaleLineItemID],
				Available:      line.Returnable(),
			}
		}

		lineTotal := money.LineTotal(it.Qty, line.UnitPrice)
		refund = refund.Add(lineTotal)

		planned = append(planned, model.ReturnLineItem{
			SaleLineItemID: line.ID,
			ProductID:      line.ProductID,
			Quantity:       it.Qty,
			UnitPrice:      line.UnitPrice,
			LineTotal:      lineTotal,
			Reason:         it.Reason,
		})
	}

	return planned, refund, nil
}

// creditAdjustment is the asymmetric credit-refund rule: the refund reduces
// the credit's exposure only up to the outstanding balance. Any excess
// (the customer had already paid below the refunded amount) is neither a
// negative balance nor a payable; no cash goes back on credit sales.
func creditAdjustment(refund, balance decimal.Decimal) decimal.Decimal {
	return money.Min(refund, money.ClampZero(balance))
}

func (s *returnsService) Accept(req *AcceptRequest) (*AcceptResult, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validator.FirstError(errs)
	}
	if len(req.Items) == 0 {
		return nil, model.ErrEmptyReturn
	}

	now := time.Now()
	var result *AcceptResult
	var deltas []ws.StockDelta

	err := s.db.Transaction(func(tx *gorm.DB) error {
		sale, err := s.saleRepo.LockByID(tx, req.SaleID)
		if err != nil {
			return err
		}

		lineIDs := make([]uuid.UUID, 0, len(req.Items))
		for _, it := range req.Items {
			lineIDs = append(lineIDs, it.SaleLineItemID)
		}

		lockedLines, err := s.saleRepo.LockLines(tx, sale.ID, lineIDs)
		if err != nil {
			return err
		}
		lineMap := make(map[uuid.UUID]*model.SaleLineItem, len(lockedLines))
		for i := range lockedLines {
			lineMap[lockedLines[i].ID] = &lockedLines[i]
		}

		planned, refund, err := buildReturnPlan(lineMap, req.Items)
		if err != nil {
			return err
		}

		income := refund
		if sale.Kind == model.SaleCredit {
			credit, err := s.creditRepo.LockBySaleID(tx, sale.ID)
			if err != nil {
				return err
			}
			if credit != nil {
				applied := creditAdjustment(refund, credit.Balance)
				credit.Total = money.ClampZero(credit.Total.Sub(applied))
				credit.Recompute()
				if err := s.creditRepo.Save(tx, credit); err != nil {
					return err
				}
				income = applied
			}
		}

		ret := &model.Return{
			SaleID:         sale.ID,
			OccurredAt:     now,
			Reason:         req.Reason,
			RefundTotal:    refund,
			IncomeReversed: income,
			Lines:          planned,
		}
		if err := s.returnRepo.Create(tx, ret); err != nil {
			return err
		}

		for _, line := range ret.Lines {
			if err := s.saleRepo.AddReturned(tx, line.SaleLineItemID, line.Quantity); err != nil {
				return err
			}

			saleLine := lineMap[line.SaleLineItemID]
			if saleLine.ProductID != nil && saleLine.ProductKindSnapshot != model.KindService {
				if err := s.productRepo.IncrementStock(tx, *saleLine.ProductID, line.Quantity); err != nil {
					return err
				}
				deltas = append(deltas, ws.StockDelta{
					ProductID: saleLine.ProductID.String(),
					Delta:     line.Quantity,
				})
			}
		}

		accepted := make([]AcceptedLine, 0, len(ret.Lines))
		for _, line := range ret.Lines {
			accepted = append(accepted, AcceptedLine{
				SaleLineItemID: line.SaleLineItemID,
				Quantity:       line.Quantity,
				LineTotal:      line.LineTotal,
			})
		}
		result = &AcceptResult{
			ReturnID:       ret.ID,
			SaleID:         sale.ID,
			RefundTotal:    refund,
			IncomeReversed: income,
			Lines:          accepted,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(deltas) > 0 {
		s.wsHub.BroadcastStockUpdate("return_accepted", deltas)
	}

	return result, nil
}

func (s *returnsService) FindReturnable(term string) ([]ReturnableSale, error) {
	if term == "" {
		return []ReturnableSale{}, nil
	}

	ids, err := s.saleRepo.SearchSaleIDs(term, 50)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []ReturnableSale{}, nil
	}

	sales, err := s.saleRepo.FindWithLines(ids)
	if err != nil {
		return nil, err
	}

	results := make([]ReturnableSale, 0, len(sales))
	for _, sale := range sales {
		hit := ReturnableSale{
			SaleID:     sale.ID,
			OccurredAt: sale.OccurredAt,
			Kind:       sale.Kind,
		}
		if sale.Customer != nil {
			hit.CustomerName = sale.Customer.Name
		}
		for _, line := range sale.Lines {
			hit.Lines = append(hit.Lines, ReturnableLine{
				SaleLineItemID:   line.ID,
				ProductCode:      line.ProductCodeSnapshot,
				ProductName:      line.ProductNameSnapshot,
				UnitPrice:        line.UnitPrice,
				QuantitySold:     line.Quantity,
				QuantityReturned: line.QuantityReturned,
				Returnable:       line.Returnable(),
			})
		}
		results = append(results, hit)
	}
	return results, nil
}

func (s *returnsService) GetReturn(id uuid.UUID) (*model.Return, error) {
	return s.returnRepo.FindByID(id)
}

func (s *returnsService) ListReturns(limit, offset int) ([]model.Return, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.returnRepo.FindAll(limit, offset)
}
