package main

import (
	"log"
	"net/http"

	"github.com/freshai/freshai-backend/config"
	"github.com/freshai/freshai-backend/controllers"
	"github.com/freshai/freshai-backend/middleware"
	"github.com/freshai/freshai-backend/models"
	"github.com/freshai/freshai-backend/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Basic logging
	log.Println("Starting FreshAI Laundry API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(&models.User{}, &models.Order{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Wire up services
	services.InitMailer(cfg)
	services.InitNotifier(services.GetMailer())
	services.InitDetector(cfg)
	if cfg.ArchiveConfigured() {
		if _, err := services.InitArchive(); err != nil {
			log.Fatalf("Failed to initialize image archive: %v", err)
		}
	}

	router := setupRouter()

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with all routes and middleware
func setupRouter() *gin.Engine {
	router := gin.Default()

	// The frontend runs on its own origin, so CORS stays permissive
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	// Liveness endpoints, no auth
	router.GET("/", welcome)
	router.GET("/ping", ping)
	router.GET("/db-check", databaseStatus)

	auth := router.Group("/auth")
	{
		auth.POST("/signup", controllers.Signup)
		auth.POST("/login", controllers.Login)
	}

	orders := router.Group("/orders")
	orders.Use(middleware.RequireAuth())
	{
		orders.POST("/", controllers.CreateOrder)
		orders.GET("/", controllers.ListOrders)
		orders.GET("/admin/all", middleware.RequireAdmin(), controllers.ListAllOrders)
		orders.GET("/:id", controllers.GetOrder)
		orders.PATCH("/:id/status", middleware.RequireAdmin(), controllers.UpdateOrderStatus)
	}

	ai := router.Group("/ai")
	ai.Use(middleware.RequireAuth())
	{
		ai.POST("/analyze", controllers.AnalyzeImage)
		ai.GET("/archive/*key", middleware.RequireAdmin(), controllers.GetArchivedImageURL)
		ai.DELETE("/archive/*key", middleware.RequireAdmin(), controllers.DeleteArchivedImage)
	}

	return router
}

// welcome handles the root endpoint
func welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to FreshAI Backend",
	})
}

// ping handles the liveness endpoint
func ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "pong",
	})
}

// databaseStatus checks database connectivity
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Database is not initialized",
			},
		})
		return
	}

	// Get the underlying SQL database to check connection
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

	// Ping the database to verify connection
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
