package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ConectaTel/conecta_api/internal/utils"
)

// JWTMiddleware guards the admin panel routes with bearer-token auth.
type JWTMiddleware struct{}

// NewJWTMiddleware constructs a JWTMiddleware.
func NewJWTMiddleware() *JWTMiddleware {
	return &JWTMiddleware{}
}

// Handle validates the Authorization bearer token and stores the admin
// identity in the request context.
func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, 401, "UNAUTHORIZED", "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(c, 401, "UNAUTHORIZED", "Authorization header must be a bearer token")
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("admin_id", claims.UserID)
		c.Set("admin_email", claims.Email)
		c.Next()
	}
}

// AdminID returns the authenticated admin's id from context, or zero.
func AdminID(c *gin.Context) int {
	return c.GetInt("admin_id")
}

// AdminEmail returns the authenticated admin's email from context.
func AdminEmail(c *gin.Context) string {
	return c.GetString("admin_email")
}
