package serializers

import (
	"github.com/shopspring/decimal"

	"github.com/notahub/nota-api/models"
)

// ProductResource is the public representation of a product. Quantity is
// only set when the product is serialized as an order line item, sourced
// from the join row.
type ProductResource struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	DisplayName string          `json:"displayName"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Color       string          `json:"color"`
	Quantity    *int            `json:"quantity,omitempty"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

// NewProduct serializes a standalone product
func NewProduct(p models.Product) ProductResource {
	return ProductResource{
		ID:          p.ID,
		Name:        p.Name,
		DisplayName: p.DisplayName,
		Category:    p.Category,
		Price:       p.Price,
		Color:       p.Color,
		CreatedAt:   formatTimestamp(p.CreatedAt),
		UpdatedAt:   formatTimestamp(p.UpdatedAt),
	}
}

// NewLineItem serializes a product in the context of an order, carrying
// the quantity from the join row
func NewLineItem(item models.OrderProduct) ProductResource {
	resource := NewProduct(item.Product)
	quantity := item.Quantity
	resource.Quantity = &quantity
	return resource
}

// NewProductCollection serializes a list of standalone products
func NewProductCollection(products []models.Product) []ProductResource {
	out := make([]ProductResource, 0, len(products))
	for _, p := range products {
		out = append(out, NewProduct(p))
	}
	return out
}
