package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ConectaTel/conecta_api/internal/service"
	"github.com/ConectaTel/conecta_api/internal/utils"
)

// ChannelHandler handles storefront channel management HTTP endpoints.
type ChannelHandler struct {
	channelService *service.ChannelService
}

// NewChannelHandler constructs a ChannelHandler.
func NewChannelHandler(channelService *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{channelService: channelService}
}

// CreateChannel handles POST /v1/admin/channels
func (h *ChannelHandler) CreateChannel(c *gin.Context) {
	var req service.CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	channel, err := h.channelService.CreateChannel(c.Request.Context(), &req)
	if err != nil {
		if err.Error() == "channel_id already exists" {
			utils.Error(c, 400, "CHANNEL_EXISTS", err.Error())
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create channel")
		return
	}

	utils.Success(c, 201, "Channel created successfully", channel)
}

// GetChannel handles GET /v1/admin/channels/:id
func (h *ChannelHandler) GetChannel(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid channel ID")
		return
	}

	channel, err := h.channelService.GetChannel(id)
	if err != nil {
		utils.Error(c, 404, "CHANNEL_NOT_FOUND", "Channel not found")
		return
	}

	utils.Success(c, 200, "Channel retrieved", channel)
}

// ListChannels handles GET /v1/admin/channels
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	channels, err := h.channelService.ListChannels()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve channels")
		return
	}

	utils.Success(c, 200, "Channels retrieved", gin.H{
		"channels": channels,
		"total":    len(channels),
	})
}

// UpdateChannel handles PUT /v1/admin/channels/:id
func (h *ChannelHandler) UpdateChannel(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid channel ID")
		return
	}

	var req service.UpdateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	channel, err := h.channelService.UpdateChannel(id, &req)
	if err != nil {
		if err.Error() == "channel not found" {
			utils.Error(c, 404, "CHANNEL_NOT_FOUND", err.Error())
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update channel")
		return
	}

	utils.Success(c, 200, "Channel updated successfully", channel)
}

// RegenerateKeys handles POST /v1/admin/channels/:id/regenerate
func (h *ChannelHandler) RegenerateKeys(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid channel ID")
		return
	}

	channel, err := h.channelService.RegenerateKeys(id)
	if err != nil {
		if err.Error() == "channel not found" {
			utils.Error(c, 404, "CHANNEL_NOT_FOUND", err.Error())
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to regenerate keys")
		return
	}

	utils.Success(c, 200, "Keys regenerated successfully", channel)
}
