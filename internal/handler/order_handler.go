package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ConectaTel/conecta_api/internal/middleware"
	"github.com/ConectaTel/conecta_api/internal/models"
	"github.com/ConectaTel/conecta_api/internal/service"
	"github.com/ConectaTel/conecta_api/internal/utils"
)

// OrderHandler handles order tracking and admin order management endpoints.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// TrackOrder handles GET /v1/store/orders/:order_number
func (h *OrderHandler) TrackOrder(c *gin.Context) {
	orderNumber := c.Param("order_number")

	order, err := h.orderService.Track(orderNumber)
	if err != nil {
		if err == utils.ErrOrderNotFound {
			utils.Error(c, 404, "ORDER_NOT_FOUND", "Order not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve order")
		return
	}

	utils.Success(c, 200, "Order retrieved", order)
}

// ListOrders handles GET /v1/admin/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	status := c.Query("status")
	search := c.Query("search")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	orders, total, err := h.orderService.ListOrders(status, search, page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve orders")
		return
	}

	utils.SuccessWithPagination(c, 200, "Orders retrieved", orders, page, limit, total)
}

// GetOrder handles GET /v1/admin/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(id)
	if err != nil {
		if err == utils.ErrOrderNotFound {
			utils.Error(c, 404, "ORDER_NOT_FOUND", "Order not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve order")
		return
	}

	utils.Success(c, 200, "Order retrieved", order)
}

// UpdateOrderStatus handles PUT /v1/admin/orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid order ID")
		return
	}

	var req struct {
		Status       models.OrderStatus `json:"status" binding:"required"`
		CancelReason *string            `json:"cancelReason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	order, err := h.orderService.UpdateStatus(id, req.Status, req.CancelReason)
	if err != nil {
		switch err {
		case utils.ErrOrderNotFound:
			utils.Error(c, 404, "ORDER_NOT_FOUND", "Order not found")
		case utils.ErrInvalidTransition:
			utils.Error(c, 400, "INVALID_TRANSITION", "Status transition not allowed")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update order status")
		}
		return
	}

	log.Info().
		Int("order_id", order.ID).
		Str("status", string(order.Status)).
		Str("admin", middleware.AdminEmail(c)).
		Msg("Order status updated")
	utils.Success(c, 200, "Order status updated", order)
}

// GetDashboard handles GET /v1/admin/dashboard
func (h *OrderHandler) GetDashboard(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days <= 0 || days > 365 {
		days = 30
	}

	stats, err := h.orderService.GetDashboardStats(time.Duration(days) * 24 * time.Hour)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to compute dashboard stats")
		return
	}

	utils.Success(c, 200, "Dashboard stats retrieved", stats)
}
