package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order represents a customer order. Its business-facing code is stored in
// Name using the NOTA_<n> format. Subtotal is a snapshot taken when the
// order is written and is never recomputed on read.
type Order struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Name       string          `gorm:"uniqueIndex;not null" json:"name"` // order code, NOTA_<n>
	CustomerID uint            `gorm:"not null;index" json:"customer_id"`
	Customer   Customer        `gorm:"foreignKey:CustomerID" json:"customer"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Products   []OrderProduct  `gorm:"foreignKey:OrderID" json:"products"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderProduct is a line item: one product on one order with a quantity.
// The order owns its line items; order writes replace the whole set.
type OrderProduct struct {
	OrderID   uint    `gorm:"primaryKey;autoIncrement:false" json:"order_id"`
	ProductID uint    `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`
}

// TableName specifies the table name for the OrderProduct model
func (OrderProduct) TableName() string {
	return "order_products"
}
