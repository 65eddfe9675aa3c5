package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ConectaTel/conecta_api/internal/catalog"
	"github.com/ConectaTel/conecta_api/internal/service"
	"github.com/ConectaTel/conecta_api/internal/utils"
)

// CatalogHandler handles storefront catalog HTTP endpoints.
type CatalogHandler struct {
	catalogService *service.CatalogService
	planService    *service.PlanService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalogService *service.CatalogService, planService *service.PlanService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, planService: planService}
}

// sessionID extracts the storefront session identifier. Every storefront
// route requires it; the frontend mints one per visitor.
func sessionID(c *gin.Context) (string, bool) {
	id := c.GetHeader("X-Session-Id")
	if id == "" {
		utils.Error(c, 400, "MISSING_SESSION", "X-Session-Id header is required")
		return "", false
	}
	return id, true
}

// GetCatalog handles GET /v1/store/catalog
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	entries, err := h.catalogService.Browse(c.Request.Context(), sid)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load catalog")
		return
	}

	utils.Success(c, 200, "Catalog retrieved", gin.H{
		"plans": entries,
		"total": len(entries),
	})
}

// GetContext handles GET /v1/store/context
func (h *CatalogHandler) GetContext(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	browseCtx, err := h.catalogService.GetContext(c.Request.Context(), sid)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load context")
		return
	}

	utils.Success(c, 200, "Context retrieved", browseCtx)
}

// UpdateContext handles PUT /v1/store/context
func (h *CatalogHandler) UpdateContext(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req catalog.Context
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.catalogService.UpdateContext(c.Request.Context(), sid, &req); err != nil {
		utils.Error(c, 400, "INVALID_CONTEXT", err.Error())
		return
	}

	entries, err := h.catalogService.Browse(c.Request.Context(), sid)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load catalog")
		return
	}

	utils.Success(c, 200, "Context updated", gin.H{
		"plans": entries,
		"total": len(entries),
	})
}

// RecordEvent handles POST /v1/store/events
func (h *CatalogHandler) RecordEvent(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var ev service.BehavioralEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.catalogService.RecordEvent(c.Request.Context(), sid, &ev); err != nil {
		utils.Error(c, 400, "INVALID_EVENT", err.Error())
		return
	}

	utils.Success(c, 200, "Event recorded", gin.H{"recorded": true})
}

// GetFilters handles GET /v1/store/filters
func (h *CatalogHandler) GetFilters(c *gin.Context) {
	categories, err := h.planService.GetCategories()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load filters")
		return
	}
	carriers, err := h.planService.GetCarriers()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load filters")
		return
	}

	utils.Success(c, 200, "Filters retrieved", gin.H{
		"categories": categories,
		"carriers":   carriers,
	})
}
