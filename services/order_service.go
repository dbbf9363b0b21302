package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/notahub/nota-api/models"
	"github.com/notahub/nota-api/utils"
)

// Sentinel errors surfaced to handlers so they can map fault kind to an
// HTTP status code.
var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrProductNotFound  = errors.New("product not found")
)

// OrderLineInput is one requested line item: a product reference and a
// quantity. Prices are never taken from the request; the product's stored
// price at write time is the snapshot that goes into the subtotal.
type OrderLineInput struct {
	ProductID uint
	Quantity  int
}

// OrderInput carries everything needed to create or update an order.
type OrderInput struct {
	CustomerID uint
	Lines      []OrderLineInput
}

// OrderService owns all order persistence. Every multi-statement write runs
// inside a single transaction: either the order row and all of its line
// items apply, or none do.
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates an OrderService backed by the given database
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// List returns one page of orders, newest first, with the customer and
// product line items eagerly attached, along with the total order count.
func (s *OrderService) List(page int) ([]models.Order, int64, error) {
	var total int64
	if err := s.db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := s.db.
		Preload("Customer").
		Preload("Products.Product").
		Order("created_at DESC, id DESC").
		Limit(utils.DefaultPerPage).
		Offset(utils.Offset(page)).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Get returns a single order with its customer and line items attached
func (s *OrderService) Get(id uint) (models.Order, error) {
	var order models.Order
	err := s.db.
		Preload("Customer").
		Preload("Products.Product").
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, err
	}
	return order, nil
}

// Create writes a new order atomically: it verifies the customer, computes
// the subtotal from stored product prices, allocates the next order code
// and inserts the order row plus its line items. Any failure rolls the
// whole write back.
func (s *OrderService) Create(input OrderInput) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := verifyCustomer(tx, input.CustomerID); err != nil {
			return err
		}

		subtotal, items, err := buildLineItems(tx, input.Lines)
		if err != nil {
			return err
		}

		sequence, err := nextSequence(tx)
		if err != nil {
			return err
		}

		order := models.Order{
			Name:       fmt.Sprintf("NOTA_%d", sequence),
			CustomerID: input.CustomerID,
			Subtotal:   subtotal,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		return tx.Create(&items).Error
	})
}

// Update rewrites an existing order atomically: customer and subtotal are
// replaced and the line-item set is fully synchronized with the request.
// Products previously on the order but absent from the input are removed.
func (s *OrderService) Update(id uint, input OrderInput) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if err := verifyCustomer(tx, input.CustomerID); err != nil {
			return err
		}

		subtotal, items, err := buildLineItems(tx, input.Lines)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"customer_id": input.CustomerID,
			"subtotal":    subtotal,
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return err
		}

		// Full sync: drop every existing line item, then insert the
		// submitted set
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderProduct{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		return tx.Create(&items).Error
	})
}

// Delete removes an order and all of its line items atomically
func (s *OrderService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderProduct{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}

// verifyCustomer checks that the referenced customer row exists
func verifyCustomer(tx *gorm.DB, customerID uint) error {
	var customer models.Customer
	if err := tx.First(&customer, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCustomerNotFound
		}
		return err
	}
	return nil
}

// buildLineItems loads every referenced product and computes the subtotal
// from the stored prices. Repeated product ids collapse to the last
// occurrence, mirroring how the line-item sync keys by product.
func buildLineItems(tx *gorm.DB, lines []OrderLineInput) (decimal.Decimal, []models.OrderProduct, error) {
	items := make([]models.OrderProduct, 0, len(lines))
	prices := make(map[uint]decimal.Decimal, len(lines))
	seen := make(map[uint]int, len(lines))

	for _, line := range lines {
		if _, ok := prices[line.ProductID]; !ok {
			var product models.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return decimal.Zero, nil, fmt.Errorf("%w: id %d", ErrProductNotFound, line.ProductID)
				}
				return decimal.Zero, nil, err
			}
			prices[line.ProductID] = product.Price
		}

		item := models.OrderProduct{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
		if idx, ok := seen[line.ProductID]; ok {
			items[idx] = item
		} else {
			seen[line.ProductID] = len(items)
			items = append(items, item)
		}
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(prices[item.ProductID].Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal, items, nil
}

// nextSequence increments the order counter row and returns the new value.
// The UPDATE takes a row lock held until the surrounding transaction
// commits, so concurrent order creates serialize here and can never be
// handed the same value.
func nextSequence(tx *gorm.DB) (uint64, error) {
	result := tx.Model(&models.OrderSequence{}).
		Where("name = ?", models.OrderSequenceName).
		Update("value", gorm.Expr("value + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, fmt.Errorf("order sequence row %q is missing", models.OrderSequenceName)
	}

	var sequence models.OrderSequence
	if err := tx.Where("name = ?", models.OrderSequenceName).First(&sequence).Error; err != nil {
		return 0, err
	}
	return sequence.Value, nil
}
