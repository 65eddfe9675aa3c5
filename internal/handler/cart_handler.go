package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ConectaTel/conecta_api/internal/middleware"
	"github.com/ConectaTel/conecta_api/internal/service"
	"github.com/ConectaTel/conecta_api/internal/utils"
)

// CartHandler handles storefront cart HTTP endpoints.
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler constructs a CartHandler.
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// atoiParam parses a numeric path parameter, returning 0 when absent or
// malformed.
func atoiParam(c *gin.Context, name string) int {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0
	}
	return n
}

// GetCart handles GET /v1/store/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	view, err := h.cartService.Get(c.Request.Context(), sid)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load cart")
		return
	}

	utils.Success(c, 200, "Cart retrieved", view)
}

// AddItem handles POST /v1/store/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req struct {
		PlanID   int `json:"planId" binding:"required"`
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	channelID := c.GetInt("channel_id")
	view, verr, err := h.cartService.AddItem(c.Request.Context(), sid, channelID, req.PlanID, req.Quantity)
	if err != nil {
		switch err {
		case utils.ErrPlanNotFound:
			utils.Error(c, 404, "PLAN_NOT_FOUND", "Plan not found")
		case utils.ErrPlanInactive:
			utils.Error(c, 400, "PLAN_INACTIVE", "Plan is no longer available")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to add item")
		}
		return
	}
	if verr != nil {
		utils.Error(c, 422, verr.Code, verr.Message)
		return
	}

	utils.Success(c, 200, "Item added", view)
}

// RemoveItem handles DELETE /v1/store/cart/items/:plan_id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	planID := atoiParam(c, "plan_id")
	lineID := c.Query("lineId")
	if planID <= 0 && lineID == "" {
		utils.Error(c, 400, "INVALID_ID", "Invalid plan ID")
		return
	}

	view, err := h.cartService.RemoveItem(c.Request.Context(), sid, planID, lineID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to remove item")
		return
	}

	utils.Success(c, 200, "Item removed", view)
}

// UpdateQuantity handles PUT /v1/store/cart/items/:plan_id
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	planID := atoiParam(c, "plan_id")
	if planID <= 0 {
		utils.Error(c, 400, "INVALID_ID", "Invalid plan ID")
		return
	}

	var req struct {
		Quantity int    `json:"quantity"`
		LineID   string `json:"lineId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	view, verr, err := h.cartService.UpdateQuantity(c.Request.Context(), sid, planID, req.Quantity, req.LineID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update quantity")
		return
	}
	if verr != nil {
		utils.Error(c, 422, verr.Code, verr.Message)
		return
	}

	utils.Success(c, 200, "Quantity updated", view)
}

// DuplicateItem handles POST /v1/store/cart/items/:plan_id/duplicate
func (h *CartHandler) DuplicateItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	planID := atoiParam(c, "plan_id")
	if planID <= 0 {
		utils.Error(c, 400, "INVALID_ID", "Invalid plan ID")
		return
	}

	view, verr, err := h.cartService.DuplicateItem(c.Request.Context(), sid, planID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to duplicate item")
		return
	}
	if verr != nil {
		utils.Error(c, 422, verr.Code, verr.Message)
		return
	}

	utils.Success(c, 200, "Item duplicated", view)
}

// ClearCart handles DELETE /v1/store/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), sid); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to clear cart")
		return
	}

	utils.Success(c, 200, "Cart cleared", gin.H{"cleared": true})
}

// SetContactEmail handles PUT /v1/store/cart/email
func (h *CartHandler) SetContactEmail(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "A valid email is required")
		return
	}

	if err := h.cartService.SetContactEmail(c.Request.Context(), sid, req.Email); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to save contact email")
		return
	}

	utils.Success(c, 200, "Contact email saved", gin.H{"saved": true})
}

// Checkout handles POST /v1/store/cart/checkout
func (h *CartHandler) Checkout(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	channelID := c.GetInt("channel_id")
	order, err := h.cartService.Checkout(c.Request.Context(), sid, channelID, middleware.IsSandbox(c), &req)
	if err != nil {
		if err == utils.ErrEmptyCart {
			utils.Error(c, 400, "EMPTY_CART", "Cart is empty")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create order")
		return
	}

	utils.Success(c, 201, "Order created", order)
}
