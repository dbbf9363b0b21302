package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/notahub/nota-api/config"
	"github.com/notahub/nota-api/models"
)

// setupTestDB opens an in-memory database, migrates the schema, seeds the
// order code counter and installs the database for the handlers under test
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// A single connection keeps the in-memory database shared across the
	// pool
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Product{},
		&models.Order{},
		&models.OrderProduct{},
		&models.OrderSequence{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	seed := models.OrderSequence{Name: models.OrderSequenceName, Value: 0}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("Failed to seed order sequence: %v", err)
	}

	config.SetDB(db)
	return db
}

// setupTestRouter builds a router with all resource routes registered
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	customers := router.Group("/customers")
	{
		customers.GET("", ListCustomers)
		customers.POST("", CreateCustomer)
		customers.GET("/:id", GetCustomer)
		customers.PUT("/:id", UpdateCustomer)
		customers.DELETE("/:id", DeleteCustomer)
	}

	products := router.Group("/products")
	{
		products.GET("", ListProducts)
		products.POST("", CreateProduct)
		products.GET("/:id", GetProduct)
		products.PUT("/:id", UpdateProduct)
		products.DELETE("/:id", DeleteProduct)
	}

	orders := router.Group("/orders")
	{
		orders.GET("", ListOrders)
		orders.POST("", CreateOrder)
		orders.GET("/:id", GetOrder)
		orders.PUT("/:id", UpdateOrder)
		orders.DELETE("/:id", DeleteOrder)
	}

	return router
}

// performRequest executes an HTTP request against the router and returns
// the recorded response
func performRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// parseResponse unmarshals a recorded JSON response body
func parseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Response should be valid JSON: %v", err)
	}
	return response
}

// createTestCustomer inserts a customer fixture directly
func createTestCustomer(t *testing.T, db *gorm.DB, name, displayName string) models.Customer {
	t.Helper()

	customer := models.Customer{
		Name:        name,
		DisplayName: displayName,
		Location:    "Jakarta",
		Gender:      "F",
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("Failed to create customer fixture: %v", err)
	}
	return customer
}

// createTestProduct inserts a product fixture directly
func createTestProduct(t *testing.T, db *gorm.DB, name string, price int64) models.Product {
	t.Helper()

	product := models.Product{
		Name:        name,
		DisplayName: name,
		Category:    "stationery",
		Price:       decimal.NewFromInt(price),
		Color:       "red",
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("Failed to create product fixture: %v", err)
	}
	return product
}

// lineFixture pairs a product id with a requested quantity
type lineFixture struct {
	productID uint
	quantity  int
}

// orderPayload builds an order request body for the given customer and
// line items
func orderPayload(customerID uint, lines ...lineFixture) map[string]interface{} {
	products := make([]map[string]interface{}, 0, len(lines))
	for _, line := range lines {
		products = append(products, map[string]interface{}{
			"product":  map[string]interface{}{"id": line.productID},
			"quantity": line.quantity,
		})
	}
	return map[string]interface{}{
		"customer": map[string]interface{}{"id": customerID},
		"products": products,
	}
}
