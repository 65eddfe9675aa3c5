package handler

import (
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ConectaTel/conecta_api/internal/service"
	"github.com/ConectaTel/conecta_api/internal/utils"
)

// maxMediaSize caps campaign media uploads at 10 MB.
const maxMediaSize = 10 << 20

// CampaignHandler handles campaign management HTTP endpoints.
type CampaignHandler struct {
	campaignService *service.CampaignService
	mediaService    *service.MediaService
}

// NewCampaignHandler constructs a CampaignHandler.
func NewCampaignHandler(campaignService *service.CampaignService, mediaService *service.MediaService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService, mediaService: mediaService}
}

// CreateCampaign handles POST /v1/admin/campaigns
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var req service.CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	campaign, err := h.campaignService.CreateCampaign(&req)
	if err != nil {
		h.campaignError(c, err, "Failed to create campaign")
		return
	}

	utils.Success(c, 201, "Campaign created successfully", campaign)
}

// GetCampaign handles GET /v1/admin/campaigns/:id
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid campaign ID")
		return
	}

	campaign, err := h.campaignService.GetCampaign(id)
	if err != nil {
		h.campaignError(c, err, "Failed to retrieve campaign")
		return
	}

	utils.Success(c, 200, "Campaign retrieved", campaign)
}

// ListCampaigns handles GET /v1/admin/campaigns
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	status := c.Query("status")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	campaigns, total, err := h.campaignService.ListCampaigns(status, page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve campaigns")
		return
	}

	utils.SuccessWithPagination(c, 200, "Campaigns retrieved", campaigns, page, limit, total)
}

// GetCampaignSends handles GET /v1/admin/campaigns/:id/sends
func (h *CampaignHandler) GetCampaignSends(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid campaign ID")
		return
	}

	sends, err := h.campaignService.GetSends(id)
	if err != nil {
		h.campaignError(c, err, "Failed to retrieve campaign sends")
		return
	}

	utils.Success(c, 200, "Campaign sends retrieved", gin.H{
		"sends": sends,
		"total": len(sends),
	})
}

// UpdateCampaign handles PUT /v1/admin/campaigns/:id
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid campaign ID")
		return
	}

	var req service.CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	campaign, err := h.campaignService.UpdateCampaign(id, &req)
	if err != nil {
		h.campaignError(c, err, "Failed to update campaign")
		return
	}

	utils.Success(c, 200, "Campaign updated successfully", campaign)
}

// ScheduleCampaign handles POST /v1/admin/campaigns/:id/schedule
func (h *CampaignHandler) ScheduleCampaign(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid campaign ID")
		return
	}

	var req struct {
		ScheduledAt *time.Time `json:"scheduledAt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	campaign, err := h.campaignService.Schedule(id, req.ScheduledAt)
	if err != nil {
		h.campaignError(c, err, "Failed to schedule campaign")
		return
	}

	utils.Success(c, 200, "Campaign scheduled", campaign)
}

// CancelCampaign handles POST /v1/admin/campaigns/:id/cancel
func (h *CampaignHandler) CancelCampaign(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid campaign ID")
		return
	}

	campaign, err := h.campaignService.Cancel(id)
	if err != nil {
		h.campaignError(c, err, "Failed to cancel campaign")
		return
	}

	utils.Success(c, 200, "Campaign cancelled", campaign)
}

// UploadMedia handles POST /v1/admin/campaigns/:id/media
func (h *CampaignHandler) UploadMedia(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid campaign ID")
		return
	}

	if _, err := h.campaignService.GetCampaign(id); err != nil {
		h.campaignError(c, err, "Failed to retrieve campaign")
		return
	}

	contentType := c.ContentType()
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxMediaSize+1))
	if err != nil || len(data) == 0 {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid media body")
		return
	}
	if len(data) > maxMediaSize {
		utils.Error(c, 413, "MEDIA_TOO_LARGE", "Media exceeds the 10MB limit")
		return
	}

	url, err := h.mediaService.UploadCampaignMedia(c.Request.Context(), id, contentType, data)
	if err != nil {
		utils.Error(c, 500, "UPLOAD_FAILED", err.Error())
		return
	}

	utils.Success(c, 201, "Media uploaded", gin.H{"url": url})
}

func (h *CampaignHandler) campaignError(c *gin.Context, err error, fallback string) {
	switch err {
	case utils.ErrCampaignNotFound:
		utils.Error(c, 404, "CAMPAIGN_NOT_FOUND", "Campaign not found")
	case utils.ErrCampaignNotDraft:
		utils.Error(c, 400, "CAMPAIGN_NOT_DRAFT", "Campaign is not editable in its current status")
	case utils.ErrTemplateNotFound:
		utils.Error(c, 400, "TEMPLATE_NOT_FOUND", "Template not found")
	case utils.ErrTemplateInactive:
		utils.Error(c, 400, "TEMPLATE_INACTIVE", "Template is inactive")
	case utils.ErrEmptyAudience:
		utils.Error(c, 400, "EMPTY_AUDIENCE", "Audience resolves to zero recipients")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", fallback)
	}
}
