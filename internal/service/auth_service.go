package service

import (
	"database/sql"

	"github.com/ConectaTel/conecta_api/internal/models"
	"github.com/ConectaTel/conecta_api/internal/repository"
	"github.com/ConectaTel/conecta_api/internal/utils"
)

// AuthService provides methods for authenticating and authorizing storefront channels.
type AuthService struct {
	channelRepo *repository.ChannelRepository
}

// NewAuthService constructs a new AuthService.
func NewAuthService(channelRepo *repository.ChannelRepository) *AuthService {
	return &AuthService{channelRepo: channelRepo}
}

// ValidateAPIKey verifies the provided token against live and sandbox keys.
// Returns the channel, a boolean indicating sandbox mode, or an error.
func (s *AuthService) ValidateAPIKey(token string) (*models.Channel, bool, error) {
	if token == "" {
		return nil, false, utils.ErrInvalidToken
	}

	// Try live key first
	if ch, err := s.channelRepo.GetByAPIKey(token); err == nil && ch != nil {
		return ch, false, nil
	} else if err != nil && err != sql.ErrNoRows {
		return nil, false, err
	}

	// Try sandbox key
	if ch, err := s.channelRepo.GetBySandboxKey(token); err == nil && ch != nil {
		return ch, true, nil
	} else if err != nil && err != sql.ErrNoRows {
		return nil, false, err
	}

	return nil, false, utils.ErrInvalidToken
}

// ValidateChannelID checks if the provided channelID matches the channel's registered ID.
func (s *AuthService) ValidateChannelID(ch *models.Channel, channelID string) bool {
	if ch == nil {
		return false
	}
	return ch.ChannelID == channelID
}

// IsIPAllowed returns true if the provided IP is present in the channel's
// whitelist. An empty whitelist allows any IP (browser storefronts have no
// fixed egress address).
func (s *AuthService) IsIPAllowed(ch *models.Channel, ip string) bool {
	if ch == nil {
		return false
	}
	if len(ch.IPWhitelist) == 0 {
		return true
	}
	for _, allowed := range ch.IPWhitelist {
		if allowed == ip {
			return true
		}
	}
	return false
}
