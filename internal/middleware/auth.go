package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"workforce-attendance/internal/utils"
)

const (
	ContextUserID = "userId"
	ContextRole   = "role"
)

// Identify sets the caller's role. With a secret it requires a bearer
// token; without one every request acts as defaultRole.
func Identify(secret string, defaultRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Set(ContextUserID, "local")
			c.Set(ContextRole, defaultRole)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization"})
			return
		}

		claims, err := utils.ParseAccessToken(parts[1], secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if !KnownRole(claims.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unknown role"})
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if !HasPermission(role, permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// Actor names the caller for audit fields.
func Actor(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
