package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleKind string

const (
	SaleDirect SaleKind = "DIRECT"
	SaleCredit SaleKind = "CREDIT"
)

type PaymentMethod string

const (
	PayCash     PaymentMethod = "CASH"
	PayCard     PaymentMethod = "CARD"
	PayTransfer PaymentMethod = "TRANSFER"
)

// Sale is a committed point-of-sale transaction. Immutable once committed,
// except for the returned-quantity counters on its line items.
type Sale struct {
	BaseModel
	OccurredAt    time.Time     `gorm:"not null;index" json:"occurred_at"`
	Kind          SaleKind      `gorm:"type:varchar(10);not null;index" json:"kind"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(10);not null" json:"payment_method"`

	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customer_id"` // nil = walk-in
	Customer   *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	Total          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total"`
	AmountTendered decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount_tendered"`
	ChangeDue      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"change_due"`

	Reference string `gorm:"type:text" json:"reference,omitempty"`

	// Optional client-supplied token so a retried commit returns the
	// already-committed sale instead of double-applying.
	IdempotencyKey *string `gorm:"type:varchar(64);uniqueIndex" json:"idempotency_key,omitempty"`

	Lines []SaleLineItem `gorm:"foreignKey:SaleID" json:"lines,omitempty"`
}

// SaleLineItem snapshots the product at the moment of sale so later returns
// and margin reports are unaffected by catalog edits.
type SaleLineItem struct {
	BaseModel
	SaleID uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`

	ProductID *uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Product   *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	Quantity         int `gorm:"not null" json:"quantity"`
	QuantityReturned int `gorm:"not null;default:0" json:"quantity_returned"`

	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"` // price actually charged
	Subtotal  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"subtotal"`
	Override  bool            `gorm:"default:false" json:"override"` // unit price edited away from catalog

	ProductCodeSnapshot string          `gorm:"type:varchar(50)" json:"product_code_snapshot"`
	ProductNameSnapshot string          `gorm:"type:varchar(255)" json:"product_name_snapshot"`
	ProductCostSnapshot decimal.Decimal `gorm:"type:numeric(12,2)" json:"product_cost_snapshot"`
	ProductKindSnapshot ProductKind     `gorm:"type:varchar(10)" json:"product_kind_snapshot"`
}

// Returnable is the quantity still eligible for return on this line.
func (l *SaleLineItem) Returnable() int {
	return l.Quantity - l.QuantityReturned
}
