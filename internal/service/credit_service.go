package service

import (
	"time"

	"go-pos-engine/internal/model"
	"go-pos-engine/internal/money"
	"go-pos-engine/internal/repository"
	"go-pos-engine/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreditService tracks a Credit's running balance as payments land and
// exposes debtor aggregates.
type CreditService interface {
	RecordPayment(req *RecordPaymentRequest) (*PaymentResult, error)
	DebtorsSummary() ([]repository.DebtorSummary, error)
	CreditDetail(id uuid.UUID) (*model.Credit, error)
	DebtorDetail(customerID uuid.UUID) (*DebtorDetail, error)
}

type RecordPaymentRequest struct {
	CreditID uuid.UUID       `json:"creditId" validate:"uuid_required"`
	Amount   decimal.Decimal `json:"amount"`
	Method   string          `json:"method" validate:"required,oneof=CASH CARD TRANSFER"`
	Memo     string          `json:"memo"`

	IdempotencyKey string `json:"idempotencyKey"`
}

type PaymentResult struct {
	PaymentID uuid.UUID          `json:"payment_id"`
	CreditID  uuid.UUID          `json:"credit_id"`
	Paid      decimal.Decimal    `json:"paid"`
	Balance   decimal.Decimal    `json:"balance"`
	Status    model.CreditStatus `json:"status"`
}

// DebtorDetail is one customer's full credit picture.
type DebtorDetail struct {
	CustomerID uuid.UUID       `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
	Paid       decimal.Decimal `json:"paid"`
	Balance    decimal.Decimal `json:"balance"`
	Credits    []model.Credit  `json:"credits"`
}

type creditService struct {
	creditRepo repository.CreditRepository
	db         *gorm.DB
}

func NewCreditService(crRepo repository.CreditRepository, db *gorm.DB) CreditService {
	return &creditService{creditRepo: crRepo, db: db}
}

func (s *creditService) RecordPayment(req *RecordPaymentRequest) (*PaymentResult, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validator.FirstError(errs)
	}

	amount := money.Sanitize(req.Amount)
	if !amount.IsPositive() {
		return nil, model.ErrInvalidPaymentAmount
	}

	if req.IdempotencyKey != "" {
		existing, err := s.creditRepo.FindPaymentByIdempotencyKey(req.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return s.resultForPayment(existing)
		}
	}

	var result *PaymentResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		credit, err := s.creditRepo.LockByID(tx, req.CreditID)
		if err != nil {
			return err
		}

		if amount.GreaterThan(credit.Balance) {
			return model.ErrOverPayment
		}

		payment := &model.CreditPayment{
			CreditID: credit.ID,
			PaidAt:   time.Now(),
			Amount:   amount,
			Method:   model.PaymentMethod(req.Method),
			Memo:     req.Memo,
		}
		if req.IdempotencyKey != "" {
			key := req.IdempotencyKey
			payment.IdempotencyKey = &key
		}
		if err := s.creditRepo.AddPayment(tx, payment); err != nil {
			return err
		}

		credit.Paid = credit.Paid.Add(amount)
		credit.Recompute()
		if err := s.creditRepo.Save(tx, credit); err != nil {
			return err
		}

		result = &PaymentResult{
			PaymentID: payment.ID,
			CreditID:  credit.ID,
			Paid:      credit.Paid,
			Balance:   credit.Balance,
			Status:    credit.Status,
		}
		return nil
	})
	if err != nil {
		if req.IdempotencyKey != "" {
			if existing, lookupErr := s.creditRepo.FindPaymentByIdempotencyKey(req.IdempotencyKey); lookupErr == nil && existing != nil {
				return s.resultForPayment(existing)
			}
		}
		return nil, err
	}
	return result, nil
}

func (s *creditService) resultForPayment(payment *model.CreditPayment) (*PaymentResult, error) {
	credit, err := s.creditRepo.FindByID(payment.CreditID)
	if err != nil {
		return nil, err
	}
	return &PaymentResult{
		PaymentID: payment.ID,
		CreditID:  credit.ID,
		Paid:      credit.Paid,
		Balance:   credit.Balance,
		Status:    credit.Status,
	}, nil
}

func (s *creditService) DebtorsSummary() ([]repository.DebtorSummary, error) {
	return s.creditRepo.DebtorsSummary()
}

func (s *creditService) CreditDetail(id uuid.UUID) (*model.Credit, error) {
	return s.creditRepo.FindByID(id)
}

func (s *creditService) DebtorDetail(customerID uuid.UUID) (*DebtorDetail, error) {
	credits, err := s.creditRepo.FindByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	if len(credits) == 0 {
		return nil, model.ErrCreditNotFound
	}

	detail := &DebtorDetail{
		CustomerID: customerID,
		Total:      decimal.Zero,
		Paid:       decimal.Zero,
		Balance:    decimal.Zero,
		Credits:    credits,
	}
	for _, c := range credits {
		detail.Total = detail.Total.Add(c.Total)
		detail.Paid = detail.Paid.Add(c.Paid)
		detail.Balance = detail.Balance.Add(c.Balance)
	}
	return detail, nil
}
