package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ConectaTel/conecta_api/internal/models"
	"github.com/ConectaTel/conecta_api/internal/repository"
	"github.com/ConectaTel/conecta_api/internal/utils"
)

// ChannelService handles storefront channel business logic.
type ChannelService struct {
	channelRepo *repository.ChannelRepository
}

// NewChannelService constructs a ChannelService.
func NewChannelService(channelRepo *repository.ChannelRepository) *ChannelService {
	return &ChannelService{channelRepo: channelRepo}
}

// CreateChannelRequest represents the request to create a new channel.
type CreateChannelRequest struct {
	ChannelID   string   `json:"channelId" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	WebhookURL  string   `json:"webhookUrl"`
	IPWhitelist []string `json:"ipWhitelist"`
	IsActive    *bool    `json:"isActive"`
}

// UpdateChannelRequest represents the request to update a channel.
type UpdateChannelRequest struct {
	Name        string   `json:"name"`
	WebhookURL  string   `json:"webhookUrl"`
	IPWhitelist []string `json:"ipWhitelist"`
	IsActive    *bool    `json:"isActive"`
}

// CreateChannel creates a new channel with auto-generated keys.
func (s *ChannelService) CreateChannel(ctx context.Context, req *CreateChannelRequest) (*models.Channel, error) {
	// Check if channel_id already exists
	existing, _ := s.channelRepo.GetByChannelID(req.ChannelID)
	if existing != nil {
		return nil, errors.New("channel_id already exists")
	}

	liveKey, err := utils.GenerateLiveKey()
	if err != nil {
		return nil, err
	}

	sandboxKey, err := utils.GenerateSandboxKey()
	if err != nil {
		return nil, err
	}

	webhookSecret, err := utils.GenerateWebhookSecret()
	if err != nil {
		return nil, err
	}

	// default active true if not provided
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	ch := &models.Channel{
		ChannelID:     req.ChannelID,
		Name:          req.Name,
		APIKey:        liveKey,
		SandboxKey:    sandboxKey,
		WebhookURL:    req.WebhookURL,
		WebhookSecret: webhookSecret,
		IPWhitelist:   req.IPWhitelist,
		IsActive:      active,
	}

	if err := s.channelRepo.Create(ch); err != nil {
		return nil, err
	}

	return ch, nil
}

// GetChannel retrieves a channel by ID.
func (s *ChannelService) GetChannel(id int) (*models.Channel, error) {
	return s.channelRepo.GetByID(id)
}

// GetChannelByChannelID retrieves a channel by its public identifier.
func (s *ChannelService) GetChannelByChannelID(channelID string) (*models.Channel, error) {
	ch, err := s.channelRepo.GetByChannelID(channelID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("channel not found")
		}
		return nil, err
	}
	return ch, nil
}

// ListChannels retrieves all channels.
func (s *ChannelService) ListChannels() ([]*models.Channel, error) {
	return s.channelRepo.List()
}

// UpdateChannel updates a channel.
func (s *ChannelService) UpdateChannel(id int, req *UpdateChannelRequest) (*models.Channel, error) {
	ch, err := s.channelRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("channel not found")
		}
		return nil, err
	}

	if req.Name != "" {
		ch.Name = req.Name
	}
	if req.WebhookURL != "" {
		ch.WebhookURL = req.WebhookURL
	}
	if req.IPWhitelist != nil {
		ch.IPWhitelist = req.IPWhitelist
	}
	if req.IsActive != nil {
		ch.IsActive = *req.IsActive
	}

	if err := s.channelRepo.Update(ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// RegenerateKeys replaces a channel's API keys and webhook secret.
func (s *ChannelService) RegenerateKeys(id int) (*models.Channel, error) {
	ch, err := s.channelRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("channel not found")
		}
		return nil, err
	}

	liveKey, err := utils.GenerateLiveKey()
	if err != nil {
		return nil, err
	}
	sandboxKey, err := utils.GenerateSandboxKey()
	if err != nil {
		return nil, err
	}
	webhookSecret, err := utils.GenerateWebhookSecret()
	if err != nil {
		return nil, err
	}

	if err := s.channelRepo.UpdateKeys(id, liveKey, sandboxKey, webhookSecret); err != nil {
		return nil, err
	}

	ch.APIKey = liveKey
	ch.SandboxKey = sandboxKey
	ch.WebhookSecret = webhookSecret
	return ch, nil
}
