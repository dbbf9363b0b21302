package models

import (
	"time"
)

// Customer represents a customer in the system
type Customer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"` // business identifier, unique across customers
	DisplayName string    `gorm:"not null" json:"display_name"`
	Location    string    `gorm:"not null" json:"location"`
	Gender      string    `gorm:"not null" json:"gender"` // "F" or "M"
	Address     *string   `json:"address"`                // nullable
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
