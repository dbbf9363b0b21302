package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/notahub/nota-api/config"
	"github.com/notahub/nota-api/controllers"
	"github.com/notahub/nota-api/middleware"
	"github.com/notahub/nota-api/models"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := middleware.NewLogger(cfg.LogFormat, cfg.LogLevel)
	logger.Info().Msg("Starting Nota API server...")

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models and seed the order code counter
	db := config.GetDB()
	if err := Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	logger.Info().Msg("Database migration completed successfully")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := SetupRouter(cfg, logger)

	// Start server
	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Msg("Server is running")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// Migrate creates the schema and seeds the order sequence counter at zero
// so the first order is named NOTA_1
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Product{},
		&models.Order{},
		&models.OrderProduct{},
		&models.OrderSequence{},
	); err != nil {
		return err
	}
	seed := models.OrderSequence{Name: models.OrderSequenceName, Value: 0}
	return db.Where(models.OrderSequence{Name: models.OrderSequenceName}).
		FirstOrCreate(&seed).Error
}

// SetupRouter builds the gin engine with middleware and all resource routes
func SetupRouter(cfg *config.Config, logger zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheck)

	// Database status endpoint
	router.GET("/database/status", databaseStatus)

	customers := router.Group("/customers")
	{
		customers.GET("", controllers.ListCustomers)
		customers.POST("", controllers.CreateCustomer)
		customers.GET("/:id", controllers.GetCustomer)
		customers.PUT("/:id", controllers.UpdateCustomer)
		customers.PATCH("/:id", controllers.UpdateCustomer)
		customers.DELETE("/:id", controllers.DeleteCustomer)
	}

	products := router.Group("/products")
	{
		products.GET("", controllers.ListProducts)
		products.POST("", controllers.CreateProduct)
		products.GET("/:id", controllers.GetProduct)
		products.PUT("/:id", controllers.UpdateProduct)
		products.PATCH("/:id", controllers.UpdateProduct)
		products.DELETE("/:id", controllers.DeleteProduct)
	}

	orders := router.Group("/orders")
	{
		orders.GET("", controllers.ListOrders)
		orders.POST("", controllers.CreateOrder)
		orders.GET("/:id", controllers.GetOrder)
		orders.PUT("/:id", controllers.UpdateOrder)
		orders.PATCH("/:id", controllers.UpdateOrder)
		orders.DELETE("/:id", controllers.DeleteOrder)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Nota API is running",
	})
}

// databaseStatus checks database connectivity
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
	})
}
