package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ConectaTel/conecta_api/internal/service"
	"github.com/ConectaTel/conecta_api/internal/utils"
)

// PlanHandler handles admin catalog management HTTP endpoints.
type PlanHandler struct {
	planService *service.PlanService
}

// NewPlanHandler constructs a PlanHandler.
func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// CreatePlan handles POST /v1/admin/plans
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req service.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	plan, err := h.planService.CreatePlan(&req)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			utils.Error(c, 400, "PLAN_EXISTS", err.Error())
			return
		}
		if strings.HasPrefix(err.Error(), "unknown") || strings.Contains(err.Error(), "must be") {
			utils.Error(c, 400, "INVALID_PLAN", err.Error())
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create plan")
		return
	}

	utils.Success(c, 201, "Plan created successfully", plan)
}

// GetPlan handles GET /v1/admin/plans/:id
func (h *PlanHandler) GetPlan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid plan ID")
		return
	}

	plan, err := h.planService.GetPlan(id)
	if err != nil {
		if err == utils.ErrPlanNotFound {
			utils.Error(c, 404, "PLAN_NOT_FOUND", "Plan not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve plan")
		return
	}

	utils.Success(c, 200, "Plan retrieved", plan)
}

// ListPlans handles GET /v1/admin/plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	category := c.Query("category")
	carrier := c.Query("carrier")
	search := c.Query("search")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	plans, total, err := h.planService.ListPlans(category, carrier, search, page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve plans")
		return
	}

	utils.SuccessWithPagination(c, 200, "Plans retrieved", plans, page, limit, total)
}

// UpdatePlan handles PUT /v1/admin/plans/:id
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid plan ID")
		return
	}

	var req service.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	plan, err := h.planService.UpdatePlan(id, &req)
	if err != nil {
		if err == utils.ErrPlanNotFound {
			utils.Error(c, 404, "PLAN_NOT_FOUND", "Plan not found")
			return
		}
		if strings.HasPrefix(err.Error(), "unknown") || strings.Contains(err.Error(), "must be") {
			utils.Error(c, 400, "INVALID_PLAN", err.Error())
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update plan")
		return
	}

	utils.Success(c, 200, "Plan updated successfully", plan)
}

// DeletePlan handles DELETE /v1/admin/plans/:id
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid plan ID")
		return
	}

	if err := h.planService.DeletePlan(id); err != nil {
		if err == utils.ErrPlanNotFound {
			utils.Error(c, 404, "PLAN_NOT_FOUND", "Plan not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete plan")
		return
	}

	utils.Success(c, 200, "Plan deactivated successfully", gin.H{"deleted": true})
}
