package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ConectaTel/conecta_api/internal/service"
	"github.com/ConectaTel/conecta_api/internal/utils"
)

// TemplateHandler handles message template HTTP endpoints.
type TemplateHandler struct {
	templateService *service.TemplateService
}

// NewTemplateHandler constructs a TemplateHandler.
func NewTemplateHandler(templateService *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// CreateTemplate handles POST /v1/admin/templates
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req service.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	template, err := h.templateService.CreateTemplate(&req)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create template")
		return
	}

	utils.Success(c, 201, "Template created successfully", template)
}

// GetTemplate handles GET /v1/admin/templates/:id
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid template ID")
		return
	}

	template, err := h.templateService.GetTemplate(id)
	if err != nil {
		if err == utils.ErrTemplateNotFound {
			utils.Error(c, 404, "TEMPLATE_NOT_FOUND", "Template not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve template")
		return
	}

	utils.Success(c, 200, "Template retrieved", template)
}

// ListTemplates handles GET /v1/admin/templates
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.templateService.ListTemplates(c.Query("channel"))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve templates")
		return
	}

	utils.Success(c, 200, "Templates retrieved", gin.H{
		"templates": templates,
		"total":     len(templates),
	})
}

// UpdateTemplate handles PUT /v1/admin/templates/:id
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid template ID")
		return
	}

	var req service.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	template, err := h.templateService.UpdateTemplate(id, &req)
	if err != nil {
		if err == utils.ErrTemplateNotFound {
			utils.Error(c, 404, "TEMPLATE_NOT_FOUND", "Template not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update template")
		return
	}

	utils.Success(c, 200, "Template updated successfully", template)
}

// DeleteTemplate handles DELETE /v1/admin/templates/:id
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid template ID")
		return
	}

	if err := h.templateService.DeleteTemplate(id); err != nil {
		if err == utils.ErrTemplateNotFound {
			utils.Error(c, 404, "TEMPLATE_NOT_FOUND", "Template not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete template")
		return
	}

	utils.Success(c, 200, "Template deleted successfully", gin.H{"deleted": true})
}

// PreviewTemplate handles POST /v1/admin/templates/:id/preview
func (h *TemplateHandler) PreviewTemplate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid template ID")
		return
	}

	var req struct {
		RecipientKey string            `json:"recipientKey"`
		Vars         map[string]string `json:"vars"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	template, err := h.templateService.GetTemplate(id)
	if err != nil {
		if err == utils.ErrTemplateNotFound {
			utils.Error(c, 404, "TEMPLATE_NOT_FOUND", "Template not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve template")
		return
	}

	subject, body := h.templateService.Render(template, req.RecipientKey, req.Vars)
	utils.Success(c, 200, "Template rendered", gin.H{
		"subject": subject,
		"body":    body,
	})
}
