// Package serializers maps entities to their public JSON representations.
// Field names are camelCase and timestamps render as DD-MM-YYYY HH:MM:SS
// in the server's time zone.
package serializers

import (
	"time"

	"github.com/notahub/nota-api/models"
)

// TimestampFormat is the wire format for createdAt/updatedAt fields.
const TimestampFormat = "02-01-2006 15:04:05"

// CustomerResource is the public representation of a customer. The address
// field is intentionally not exposed.
type CustomerResource struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Location    string `json:"location"`
	Gender      string `json:"gender"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// NewCustomer serializes a customer
func NewCustomer(c models.Customer) CustomerResource {
	return CustomerResource{
		ID:          c.ID,
		Name:        c.Name,
		DisplayName: c.DisplayName,
		Location:    c.Location,
		Gender:      c.Gender,
		CreatedAt:   formatTimestamp(c.CreatedAt),
		UpdatedAt:   formatTimestamp(c.UpdatedAt),
	}
}

// NewCustomerCollection serializes a list of customers
func NewCustomerCollection(customers []models.Customer) []CustomerResource {
	out := make([]CustomerResource, 0, len(customers))
	for _, c := range customers {
		out = append(out, NewCustomer(c))
	}
	return out
}

func formatTimestamp(t time.Time) string {
	return t.Format(TimestampFormat)
}
