package repository

import (
	"errors"

	"go-pos-engine/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreditRepository interface {
	Create(tx *gorm.DB, credit *model.Credit) error
	FindByID(id uuid.UUID) (*model.Credit, error)
	FindBySaleID(saleID uuid.UUID) (*model.Credit, error)

	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Credit, error)
	LockBySaleID(tx *gorm.DB, saleID uuid.UUID) (*model.Credit, error)
	Save(tx *gorm.DB, credit *model.Credit) error

	AddPayment(tx *gorm.DB, payment *model.CreditPayment) error
	FindPaymentByIdempotencyKey(key string) (*model.CreditPayment, error)

	DebtorsSummary() ([]DebtorSummary, error)
	FindByCustomer(customerID uuid.UUID) ([]model.Credit, error)
}

// DebtorSummary aggregates one customer's exposure across all credits.
type DebtorSummary struct {
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
	Paid         decimal.Decimal `json:"paid"`
	Balance      decimal.Decimal `json:"balance"`
}

type creditRepo struct {
	db *gorm.DB
}

func NewCreditRepo(db *gorm.DB) CreditRepository {
	return &creditRepo{db}
}

func (r *creditRepo) Create(tx *gorm.DB, credit *model.Credit) error {
	return tx.Create(credit).Error
}

func (r *creditRepo) FindByID(id uuid.UUID) (*model.Credit, error) {
	var credit model.Credit
	err := r.db.Preload("Customer").Preload("Payments").
		Preload("Sale").Preload("Sale.Lines").
		First(&credit, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrCreditNotFound
	}
	if err != nil {
		return nil, err
	}
	return &credit, nil
}

func (r *creditRepo) FindBySaleID(saleID uuid.UUID) (*model.Credit, error) {
	var credit model.Credit
	err := r.db.First(&credit, "sale_id = ?", saleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &credit, nil
}

func (r *creditRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Credit, error) {
	var credit model.Credit
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&credit, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrCreditNotFound
	}
	if err != nil {
		return nil, err
	}
	return &credit, nil
}

func (r *creditRepo) LockBySaleID(tx *gorm.DB, saleID uuid.UUID) (*model.Credit, error) {
	var credit model.Credit
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&credit, "sale_id = ?", saleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &credit, nil
}

func (r *creditRepo) Save(tx *gorm.DB, credit *model.Credit) error {
	return tx.Save(credit).Error
}

func (r *creditRepo) AddPayment(tx *gorm.DB, payment *model.CreditPayment) error {
	return tx.Create(payment).Error
}

func (r *creditRepo) FindPaymentByIdempotencyKey(key string) (*model.CreditPayment, error) {
	var payment model.CreditPayment
	err := r.db.First(&payment, "idempotency_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *creditRepo) DebtorsSummary() ([]DebtorSummary, error) {
	var summaries []DebtorSummary
	err := r.db.Model(&model.Credit{}).
		Select(`credits.customer_id,
			customers.name AS customer_name,
			COALESCE(SUM(credits.total), 0) AS total,
			COALESCE(SUM(credits.paid), 0) AS paid,
			COALESCE(SUM(credits.balance), 0) AS balance`).
		Joins("JOIN customers ON customers.id = credits.customer_id").
		Group("credits.customer_id, customers.name").
		Order("customers.name ASC").
		Scan(&summaries).Error
	return summaries, err
}

func (r *creditRepo) FindByCustomer(customerID uuid.UUID) ([]model.Credit, error) {
	var credits []model.Credit
	err := r.db.Preload("Payments").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&credits).Error
	return credits, err
}
