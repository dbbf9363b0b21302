package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notahub/nota-api/config"
	"github.com/notahub/nota-api/responses"
	"github.com/notahub/nota-api/serializers"
	"github.com/notahub/nota-api/services"
	"github.com/notahub/nota-api/utils"
)

// OrderRequest represents the request body for creating or updating an
// order. Prices are not accepted from the client; the stored product price
// at write time is what goes into the subtotal.
type OrderRequest struct {
	Customer OrderCustomerRef   `json:"customer" binding:"required"`
	Products []OrderLineRequest `json:"products" binding:"required,min=1,dive"`
}

// OrderCustomerRef references the customer placing the order
type OrderCustomerRef struct {
	ID uint `json:"id" binding:"required"`
}

// OrderLineRequest is one requested line item
type OrderLineRequest struct {
	Product  OrderProductRef `json:"product" binding:"required"`
	Quantity int             `json:"quantity" binding:"required,gte=1"`
}

// OrderProductRef references a product by id
type OrderProductRef struct {
	ID uint `json:"id" binding:"required"`
}

// toInput converts the request body into a service input
func (r *OrderRequest) toInput() services.OrderInput {
	lines := make([]services.OrderLineInput, 0, len(r.Products))
	for _, p := range r.Products {
		lines = append(lines, services.OrderLineInput{
			ProductID: p.Product.ID,
			Quantity:  p.Quantity,
		})
	}
	return services.OrderInput{
		CustomerID: r.Customer.ID,
		Lines:      lines,
	}
}

// ListOrders handles GET /orders - paginated listing with customer and
// line items eagerly attached
func ListOrders(c *gin.Context) {
	service := services.NewOrderService(config.GetDB())

	page := utils.ParsePage(c.Request)
	orders, total, err := service.List(page)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, err)
		return
	}

	meta := utils.BuildMeta(page, total)
	responses.Paginated(c, serializers.NewOrderCollection(orders), meta, utils.BuildLinks(c.Request, meta))
}

// CreateOrder handles POST /orders
func CreateOrder(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, bindingError(err))
		return
	}

	service := services.NewOrderService(config.GetDB())
	if err := service.Create(req.toInput()); err != nil {
		responses.Error(c, orderErrorStatus(err), err)
		return
	}

	responses.Success(c, nil)
}

// GetOrder handles GET /orders/:id
func GetOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, err)
		return
	}

	service := services.NewOrderService(config.GetDB())
	order, err := service.Get(id)
	if err != nil {
		responses.Error(c, orderErrorStatus(err), err)
		return
	}

	responses.Success(c, serializers.NewOrder(order))
}

// UpdateOrder handles PUT/PATCH /orders/:id - rewrites the order and
// fully replaces its line-item set
func UpdateOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, err)
		return
	}

	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, bindingError(err))
		return
	}

	service := services.NewOrderService(config.GetDB())
	if err := service.Update(id, req.toInput()); err != nil {
		responses.Error(c, orderErrorStatus(err), err)
		return
	}

	responses.Success(c, nil)
}

// DeleteOrder handles DELETE /orders/:id - removes the order together
// with its line items
func DeleteOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, err)
		return
	}

	service := services.NewOrderService(config.GetDB())
	if err := service.Delete(id); err != nil {
		responses.Error(c, orderErrorStatus(err), err)
		return
	}

	responses.Success(c, nil)
}

// orderErrorStatus maps service errors to HTTP status codes
func orderErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrProductNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
