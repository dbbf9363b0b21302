package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/notahub/nota-api/config"
	"github.com/notahub/nota-api/models"
	"github.com/notahub/nota-api/responses"
	"github.com/notahub/nota-api/serializers"
	"github.com/notahub/nota-api/utils"
)

// ProductRequest represents the request body for creating or updating a
// product. Updates are full replacements; every field must be resupplied.
type ProductRequest struct {
	Name        string           `json:"name" binding:"required"`
	DisplayName string           `json:"display_name" binding:"required"`
	Category    string           `json:"category" binding:"required"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Color       string           `json:"color" binding:"required"`
}

// validate applies the constraints gin binding cannot express
func (r *ProductRequest) validate() error {
	if r.Price.IsNegative() {
		return fmt.Errorf("the price field must be greater than or equal to 0")
	}
	return nil
}

// ListProducts handles GET /products - paginated listing, newest first,
// with optional prefix search on display_name or name
func ListProducts(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.Product{})
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
	var products []models.Product
	err := query.
		Order("created_at DESC, id DESC").
		Limit(utils.DefaultPerPage).
		Offset(utils.Offset(page)).
		Find(&products).Error
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, err)
		return
	}

	meta := utils.BuildMeta(page, total)
	responses.Paginated(c, serializers.NewProductCollection(products), meta, utils.BuildLinks(c.Request, meta))
}

// CreateProduct handles POST /products
func CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, bindingError(err))
		return
	}
	if err := req.validate(); err != nil {
		responses.Error(c, http.StatusBadRequest, err)
		return
	}

	db := config.GetDB()
	if err := checkProductNameTaken(db, req.Name, 0); err != nil {
		responses.Error(c, http.StatusConflict, err)
		return
	}

	product := models.Product{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Category:    req.Category,
		Price:       *req.Price,
		Color:       req.Color,
	}
	if err := db.Create(&product).Error; err != nil {
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

// GetProduct handles GET /products/:id
func GetProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, err)
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.Error(c, http.StatusNotFound, fmt.Errorf("product %d not found", id))
			return
		}
		responses.Error(c, http.StatusInternalServerError, err)
		return
	}

	responses.Success(c, serializers.NewProduct(product))
}

// UpdateProduct handles PUT/PATCH /products/:id - replaces every editable
// field
func UpdateProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, err)
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, bindingError(err))
		return
	}
	if err := req.validate(); err != nil {
		responses.Error(c, http.StatusBadRequest, err)
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.Error(c, http.StatusNotFound, fmt.Errorf("product %d not found", id))
			return
		}
		responses.Error(c, http.StatusInternalServerError, err)
		return
	}

	// Uniqueness check excludes the row being updated, so re-submitting the
	// current name succeeds
	if err := checkProductNameTaken(db, req.Name, id); err != nil {
		responses.Error(c, http.StatusConflict, err)
		return
	}

	updates := map[string]interface{}{
		"name":         req.Name,
		"display_name": req.DisplayName,
		"category":     req.Category,
		"price":        *req.Price,
		"color":        req.Color,
	}
	if err := db.Model(&product).Updates(updates).Error; err != nil {
		if isDuplicateError(err) {
			responses.Error(c, http.StatusConflict, fmt.Errorf("the name %q has already been taken", req.Name))
			return
		}
		responses.Error(c, http.StatusInternalServerError, err)
		return
	}

	responses.Success(c, nil)
}

// DeleteProduct handles DELETE /products/:id - hard delete, refused while
// any order line item still references the product
func DeleteProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, err)
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.Error(c, http.StatusNotFound, fmt.Errorf("product %d not found", id))
			return
		}
		responses.Error(c, http.StatusInternalServerError, err)
		return
	}

	var lineCount int64
	if err := db.Model(&models.OrderProduct{}).Where("product_id = ?", id).Count(&lineCount).Error; err != nil {
		responses.Error(c, http.StatusInternalServerError, err)
		return
	}
	if lineCount > 0 {
		responses.Error(c, http.StatusConflict, fmt.Errorf("product %d is referenced by %d order line item(s)", id, lineCount))
		return
	}

	if err := db.Delete(&product).Error; err != nil {
		responses.Error(c, http.StatusInternalServerError, err)
		return
	}

	responses.Success(c, nil)
}

// checkProductNameTaken reports a conflict when another product already
// uses the given name. excludeID skips the row being updated.
func checkProductNameTaken(db *gorm.DB, name string, excludeID uint) error {
	var count int64
	query := db.Model(&models.Product{}).Where("name = ?", name)
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
