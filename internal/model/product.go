package model

import "github.com/shopspring/decimal"

type ProductKind string

const (
	KindProduct ProductKind = "PRODUCT"
	KindService ProductKind = "SERVICE" // no stock accounting
)

type Product struct {
	BaseModel
	Code   string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	Name   string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Kind   ProductKind     `gorm:"type:varchar(10);not null;default:'PRODUCT'" json:"kind"`
	Price  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Cost   decimal.Decimal `gorm:"type:numeric(12,2)" json:"cost"`
	Stock  int             `gorm:"default:0" json:"stock"`
	Active bool            `gorm:"default:true" json:"active"`
}

// Stocked reports whether inventory accounting applies to this product.
func (p *Product) Stocked() bool {
	return p.Kind != KindService
}
