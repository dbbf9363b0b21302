package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/notahub/nota-api/config"
	"github.com/notahub/nota-api/models"
	"github.com/notahub/nota-api/responses"
	"github.com/notahub/nota-api/serializers"
	"github.com/notahub/nota-api/utils"
)

// CustomerRequest represents the request body for creating or updating a
// customer. Updates are full replacements; every field must be resupplied.
type CustomerRequest struct {
	Name        string  `json:"name" binding:"required"`
	DisplayName string  `json:"display_name" binding:"required"`
	Location    string  `json:"location" binding:"required"`
	Gender      string  `json:"gender" binding:"required,oneof=F M"`
	Address     *string `json:"address"`
}

// ListCustomers handles GET /customers - paginated listing, newest first,
// with optional prefix search on display_name or name
func ListCustomers(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.Customer{})
	if search := c.Query("search"); search != "" {
		query = query.Where("display_name LIKE ? OR name LIKE ?", search+"%", search+"%")
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		responses.Error(c, http.StatusInternalServerError, err)
		return
	}

	page := utils.ParsePage(c.Request)
	var customers []models.Customer
	err := query.
		Order("created_at DESC, id DESC").
		Limit(utils.DefaultPerPage).
		Offset(utils.Offset(page)).
		Find(&customers).Error
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, err)
		return
	}

	meta := utils.BuildMeta(page, total)
	responses.Paginated(c, serializers.NewCustomerCollection(customers), meta, utils.BuildLinks(c.Request, meta))
}

// CreateCustomer handles POST /customers
func CreateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, bindingError(err))
		return
	}

	db := config.GetDB()
	if err := checkCustomerNameTaken(db, req.Name, 0); err != nil {
		responses.Error(c, http.StatusConflict, err)
		return
	}

	customer := models.Customer{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Location:    req.Location,
		Gender:      req.Gender,
		Address:     req.Address,
	}
	if err := db.Create(&customer).Error; err != nil {
		// The pre-check can lose a race; the unique index is the backstop
		if isDuplicateError(err) {
			responses.Error(c, http.StatusConflict, fmt.Errorf("the name %q has already been taken", req.Name))
			return
		}
		responses.Error(c, http.StatusInternalServerError, err)
		return
	}

	// The created record is deliberately not echoed back
	responses.Success(c, nil)
}

// GetCustomer handles GET /customers/:id
func GetCustomer(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, err)
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.Error(c, http.StatusNotFound, fmt.Errorf("customer %d not found", id))
			return
		}
		responses.Error(c, http.StatusInternalServerError, err)
		return
	}

	responses.Success(c, serializers.NewCustomer(customer))
}

// UpdateCustomer handles PUT/PATCH /customers/:id - replaces every
// editable field
func UpdateCustomer(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, err)
		return
	}

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, bindingError(err))
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.Error(c, http.StatusNotFound, fmt.Errorf("customer %d not found", id))
			return
		}
		responses.Error(c, http.StatusInternalServerError, err)
		return
	}

	// Uniqueness check excludes the row being updated, so re-submitting the
	// current name succeeds
	if err := checkCustomerNameTaken(db, req.Name, id); err != nil {
		responses.Error(c, http.StatusConflict, err)
		return
	}

	updates := map[string]interface{}{
		"name":         req.Name,
		"display_name": req.DisplayName,
		"location":     req.Location,
		"gender":       req.Gender,
		"address":      req.Address,
	}
	if err := db.Model(&customer).Updates(updates).Error; err != nil {
		if isDuplicateError(err) {
			responses.Error(c, http.StatusConflict, fmt.Errorf("the name %q has already been taken", req.Name))
			return
		}
		responses.Error(c, http.StatusInternalServerError, err)
		return
	}

	responses.Success(c, nil)
}

// DeleteCustomer handles DELETE /customers/:id - hard delete, refused
// while any order still references the customer
func DeleteCustomer(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, err)
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.Error(c, http.StatusNotFound, fmt.Errorf("customer %d not found", id))
			return
		}
		responses.Error(c, http.StatusInternalServerError, err)
		return
	}

	var orderCount int64
	if err := db.Model(&models.Order{}).Where("customer_id = ?", id).Count(&orderCount).Error; err != nil {
		responses.Error(c, http.StatusInternalServerError, err)
		return
	}
	if orderCount > 0 {
		responses.Error(c, http.StatusConflict, fmt.Errorf("customer %d is referenced by %d order(s)", id, orderCount))
		return
	}

	if err := db.Delete(&customer).Error; err != nil {
		responses.Error(c, http.StatusInternalServerError, err)
		return
	}

	responses.Success(c, nil)
}

// checkCustomerNameTaken reports a conflict when another customer already
// uses the given name. excludeID skips the row being updated.
func checkCustomerNameTaken(db *gorm.DB, name string, excludeID uint) error {
	var count int64
	query := db.Model(&models.Customer{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("the name %q has already been taken", name)
	}
	return nil
}
