package models

// OrderSequence is a single-row counter backing order code generation.
// The row is incremented in place inside the order transaction and the
// resulting row lock is held until commit, so two concurrent creates can
// never be handed the same value.
type OrderSequence struct {
	Name  string `gorm:"primaryKey"`
	Value uint64 `gorm:"not null"`
}

// OrderSequenceName is the counter row used for order codes.
const OrderSequenceName = "orders"

// TableName specifies the table name for the OrderSequence model
func (OrderSequence) TableName() string {
	return "order_sequences"
}
