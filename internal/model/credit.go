package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreditStatus string

const (
	CreditOpen    CreditStatus = "OPEN"
	CreditSettled CreditStatus = "SETTLED"
)

// Credit is the financing record opened for a CREDIT sale. Exactly one per
// credit sale; a customer may hold many. Mutated only by payment insertion
// and by returns reducing its exposure.
type Credit struct {
	BaseModel
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	SaleID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"sale_id"`
	Sale   *Sale     `gorm:"foreignKey:SaleID" json:"sale,omitempty"`

	Total   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total"`
	Paid    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"paid"`
	Balance decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"balance"`

	Status CreditStatus `gorm:"type:varchar(10);not null;default:'OPEN';index" json:"status"`
	Notes  string       `gorm:"type:text" json:"notes,omitempty"`

	Payments []CreditPayment `gorm:"foreignKey:CreditID" json:"payments,omitempty"`
}

// Recompute derives balance and status from total and paid.
func (c *Credit) Recompute() {
	c.Balance = c.Total.Sub(c.Paid)
	if c.Balance.IsPositive() {
		c.Status = CreditOpen
	} else {
		c.Status = CreditSettled
	}
}

type CreditPayment struct {
	BaseModel
	CreditID uuid.UUID `gorm:"type:uuid;not null;index" json:"credit_id"`

	PaidAt time.Time       `gorm:"not null" json:"paid_at"`
	Amount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Method PaymentMethod   `gorm:"type:varchar(10)" json:"method"`
	Memo   string          `gorm:"type:text" json:"memo,omitempty"`

	IdempotencyKey *string `gorm:"type:varchar(64);uniqueIndex" json:"idempotency_key,omitempty"`
}
