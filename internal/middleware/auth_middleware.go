package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ConectaTel/conecta_api/internal/models"
	"github.com/ConectaTel/conecta_api/internal/service"
	"github.com/ConectaTel/conecta_api/internal/utils"
)

// AuthMiddleware handles API key authentication, channel validation, and IP checks.
type AuthMiddleware struct {
	authService *service.AuthService
	rateLimiter *InvalidAuthRateLimiter
}

// NewAuthMiddleware constructs a new AuthMiddleware.
func NewAuthMiddleware(authService *service.AuthService, rateLimiter *InvalidAuthRateLimiter) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		rateLimiter: rateLimiter,
	}
}

// Handle returns a Gin middleware function that enforces authentication.
func (m *AuthMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract Bearer token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			m.handleAuthError(c, "INVALID_TOKEN", "Missing or invalid authorization header")
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		// 2. Validate API key (live or sandbox)
		channel, isSandbox, err := m.authService.ValidateAPIKey(token)
		if err != nil || channel == nil {
			m.handleAuthError(c, "INVALID_TOKEN", "Invalid API token")
			return
		}

		// 3. Check if channel is active
		if !channel.IsActive {
			m.handleAuthError(c, "INVALID_CHANNEL", "Channel is not active")
			return
		}

		// 4. Validate Channel ID header
		channelID := c.GetHeader("X-Channel-Id")
		if !m.authService.ValidateChannelID(channel, channelID) {
			m.handleAuthError(c, "INVALID_CHANNEL", "Channel ID mismatch")
			return
		}

		// 5. Validate IP whitelist
		clientIP := c.ClientIP()
		if !m.authService.IsIPAllowed(channel, clientIP) {
			m.handleAuthError(c, "INVALID_IP", "Request from unauthorized IP address")
			return
		}

		// 6. Set context values
		c.Set("channel", channel)
		c.Set("is_sandbox", isSandbox)
		c.Set("channel_id", channel.ID)

		c.Next()
	}
}

func (m *AuthMiddleware) handleAuthError(c *gin.Context, code, message string) {
	// Apply rate limit for invalid auth attempts
	ip := c.ClientIP()
	if !m.rateLimiter.Allow(ip) {
		utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
		c.Abort()
		return
	}

	utils.Error(c, 401, code, message)
	c.Abort()
}

// GetChannel returns the authenticated channel from context.
func GetChannel(c *gin.Context) *models.Channel {
	channel, _ := c.Get("channel")
	if channel == nil {
		return nil
	}
	return channel.(*models.Channel)
}

// IsSandbox indicates whether the request is in sandbox mode.
func IsSandbox(c *gin.Context) bool {
	isSandbox, _ := c.Get("is_sandbox")
	if isSandbox == nil {
		return false
	}
	return isSandbox.(bool)
}
