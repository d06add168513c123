package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Return is one return transaction against a prior Sale. Immutable once
// recorded; its effect lives on the referenced sale lines and credit.
type Return struct {
	BaseModel
	SaleID uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
	Sale   *Sale     `gorm:"foreignKey:SaleID" json:"sale,omitempty"`

	OccurredAt time.Time `gorm:"not null;index" json:"occurred_at"`
	Reason     string    `gorm:"type:text" json:"reason,omitempty"`

	RefundTotal decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"refund_total"`

	// IncomeReversed is the recognized-revenue impact of this return: the
	// full refund for DIRECT sales, and min(refund, outstanding balance)
	// for CREDIT sales. The excess on credit sales is deliberately not
	// reflected anywhere; no cash is ever paid back on a credit sale.
	IncomeReversed decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"income_reversed"`

	Lines []ReturnLineItem `gorm:"foreignKey:ReturnID" json:"lines,omitempty"`
}

type ReturnLineItem struct {
	BaseModel
	ReturnID uuid.UUID `gorm:"type:uuid;not null;index" json:"return_id"`

	SaleLineItemID uuid.UUID     `gorm:"type:uuid;not null;index" json:"sale_line_item_id"`
	SaleLineItem   *SaleLineItem `gorm:"foreignKey:SaleLineItemID" json:"sale_line_item,omitempty"`

	ProductID *uuid.UUID `gorm:"type:uuid;index" json:"product_id"`

	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"` // original recorded price
	LineTotal decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"line_total"`
	Reason    string          `gorm:"type:text" json:"reason,omitempty"`
}
