package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sitebooks/sitebooks/internal/core/domain"
)

// callerKey is the key used to store the caller identity in the Gin context.
const callerKey = contextKey("caller")

// GetCallerFromContext retrieves the caller identity from the Gin context.
// It returns the caller and a boolean indicating if it was found.
func GetCallerFromContext(c *gin.Context) (domain.Caller, bool) {
	callerVal, exists := c.Get(string(callerKey))
	if !exists {
		return domain.Caller{}, false
	}

	caller, ok := callerVal.(domain.Caller)
	if !ok {
		// This should not happen if the identity middleware sets it correctly
		return domain.Caller{}, false
	}

	return caller, true
}

// parseUserIDHeader converts the forwarded user ID header into an int64.
func parseUserIDHeader(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
