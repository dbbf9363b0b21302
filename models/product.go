package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a sellable product in the catalog
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"uniqueIndex;not null" json:"name"` // business identifier, unique across products
	DisplayName string          `gorm:"not null" json:"display_name"`
	Category    string          `gorm:"not null" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"` // non-negative
	Color       string          `gorm:"not null" json:"color"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}
