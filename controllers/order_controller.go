package controllers

import (
	"net/http"
	"time"

	"github.com/freshai/freshai-backend/config"
	"github.com/freshai/freshai-backend/middleware"
	"github.com/freshai/freshai-backend/models"
	"github.com/freshai/freshai-backend/services"
	"github.com/gin-gonic/gin"
)

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	Service    string    `json:"service" binding:"required"`
	PickupDate time.Time `json:"pickup_date" binding:"required"`
	TimeSlot   string    `json:"time_slot" binding:"required"`
	Address    string    `json:"address" binding:"required"`
	Notes      *string   `json:"notes"`
	Amount     float64   `json:"amount"`
	ItemsCount int       `json:"items_count"`
}

// CreateOrder handles POST /orders/ - creates a new order for the caller
func CreateOrder(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	order := models.Order{
		Service:    req.Service,
		PickupDate: req.PickupDate,
		TimeSlot:   req.TimeSlot,
		Address:    req.Address,
		Notes:      req.Notes,
		Amount:     req.Amount,
		ItemsCount: req.ItemsCount,
		Status:     "Pending",
		UserID:     user.ID,
	}

	db := config.GetDB()
	if err := db.Create(&order).Error; err != nil {
		// Identifier collisions land here too: there is no regeneration
		// retry, the whole create fails
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	// Confirmation email is scheduled after the order is safely persisted
	// and never blocks or fails the response
	if notifier := services.GetNotifier(); notifier != nil {
		notifier.NotifyOrderCreated(user.Email, order.ID, order.PickupDate.Format("2006-01-02"))
	}

	c.JSON(http.StatusCreated, order)
}

// ListOrders handles GET /orders/ - lists the caller's orders, newest first
func ListOrders(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	db := config.GetDB()
	var orders []models.Order
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /orders/:id - fetches a single order.
// Only the owner or an admin may read it.
func GetOrder(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	orderID := c.Param("id")

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, "id = ?", orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	if order.UserID != user.ID && !user.IsSuperuser {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Not authorized to view this order",
			},
		})
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListAllOrders handles GET /orders/admin/all - lists every order, newest
// first. Admin only; role enforcement happens in the router middleware.
func ListAllOrders(c *gin.Context) {
	db := config.GetDB()
	var orders []models.Order
	if err := db.Order("created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus handles PATCH /orders/:id/status?status=<string>.
// Admin only. The submitted status overwrites the stored one verbatim:
// there is no allowed set and no transition guard.
func UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("id")
	newStatus := c.Query("status")
	if newStatus == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "status query parameter is required",
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, "id = ?", orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	order.Status = newStatus
	if err := db.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order status",
			},
		})
		return
	}

	// Tell the owner; lookup failure only means no email goes out
	var owner models.User
	if err := db.First(&owner, order.UserID).Error; err == nil {
		if notifier := services.GetNotifier(); notifier != nil {
			notifier.NotifyStatusChanged(owner.Email, order.ID, newStatus)
		}
	}

	c.JSON(http.StatusOK, order)
}
