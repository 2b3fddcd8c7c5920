package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sitebooks/sitebooks/internal/core/domain"
)

const (
	userIDHeader   = "X-User-ID"
	userRoleHeader = "X-User-Role"
)

// CallerIdentityMiddleware reads the caller identity forwarded by the API
// gateway. Authentication itself happens upstream; this service only trusts
// the forwarded headers and rejects requests that lack them.
func CallerIdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawID := c.GetHeader(userIDHeader)
		userID, ok := parseUserIDHeader(rawID)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid caller identity"})
			return
		}

		role := c.GetHeader(userRoleHeader)
		if role == "" {
			role = "member"
		}

		c.Set(string(callerKey), domain.Caller{UserID: userID, Role: role})
		c.Next()
	}
}
