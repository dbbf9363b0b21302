package serializers

import (
	"github.com/shopspring/decimal"

	"github.com/notahub/nota-api/models"
)

// OrderResource is the public representation of an order. Customer and
// products appear only when the relations were eagerly loaded.
type OrderResource struct {
	ID        uint              `json:"id"`
	Name      string            `json:"name"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	Customer  *CustomerResource `json:"customer,omitempty"`
	Products  []ProductResource `json:"products,omitempty"`
	CreatedAt string            `json:"createdAt"`
	UpdatedAt string            `json:"updatedAt"`
}

// NewOrder serializes an order together with whatever relations are loaded
func NewOrder(o models.Order) OrderResource {
	resource := OrderResource{
		ID:        o.ID,
		Name:      o.Name,
		Subtotal:  o.Subtotal,
		CreatedAt: formatTimestamp(o.CreatedAt),
		UpdatedAt: formatTimestamp(o.UpdatedAt),
	}

	// A zero customer ID means the relation was not preloaded
	if o.Customer.ID != 0 {
		customer := NewCustomer(o.Customer)
		resource.Customer = &customer
	}

	if len(o.Products) > 0 {
		resource.Products = make([]ProductResource, 0, len(o.Products))
		for _, item := range o.Products {
			resource.Products = append(resource.Products, NewLineItem(item))
		}
	}

	return resource
}

// NewOrderCollection serializes a list of orders
func NewOrderCollection(orders []models.Order) []OrderResource {
	out := make([]OrderResource, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrder(o))
	}
	return out
}
