package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/resolvedesk/backend/internal/types"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// AuthMiddleware creates a middleware that validates JWT tokens and stores
// the resolved identity in the request context.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated identity carries the
// given role. Must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actual, exists := c.Get("role")
		if !exists || actual != role {
			c.JSON(http.StatusForbidden, gin.H{"error": role + " access only"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Identity extracts the resolved identity stored by AuthMiddleware.
func Identity(c *gin.Context) (types.Identity, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return types.Identity{}, false
	}
	uid, ok := userID.(uuid.UUID)
	if !ok {
		return types.Identity{}, false
	}
	role, _ := c.Get("role")
	r, _ := role.(string)
	return types.Identity{ID: uid, Role: r}, true
}
