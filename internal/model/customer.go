package model

import "time"

// Customer is a registered account. Walk-in buyers are represented by a nil
// customer reference on the Sale, never by a placeholder row.
type Customer struct {
	BaseModel
	Name           string     `gorm:"type:varchar(255);not null;index" json:"name" validate:"required"`
	Phone          string     `gorm:"type:varchar(30)" json:"phone"`
	Email          string     `gorm:"type:varchar(255)" json:"email"`
	Notes          string     `gorm:"type:text" json:"notes,omitempty"`
	LastPurchaseAt *time.Time `json:"last_purchase_at,omitempty"`

	Credits []Credit `gorm:"foreignKey:CustomerID" json:"credits,omitempty"`
}
