package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// clientIDKey is the key used to store the authenticated client's ID.
// Using a custom type prevents collisions.
const clientIDKey = contextKey("clientID")

// GetClientIDFromContext retrieves the authenticated client ID from the Gin context.
// It returns the client ID and a boolean indicating if it was found.
func GetClientIDFromContext(c *gin.Context) (string, bool) {
	clientIDVal, exists := c.Get(string(clientIDKey))
	if !exists {
		// check in the request context as well
		return GetClientIDFromCtx(c.Request.Context())
	}

	clientID, ok := clientIDVal.(string)
	if !ok {
		return "", false
	}
	return clientID, true
}

// GetClientIDFromCtx retrieves the authenticated client ID from a standard context.
func GetClientIDFromCtx(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(clientIDKey).(string)
	return clientID, ok && clientID != ""
}
