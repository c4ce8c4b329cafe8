package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shopmobile/storefront_bff/internal/utils"
)

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health": true,
}

// PosthogMiddleware creates a Gin middleware handler that tracks API events with PostHog
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip if PostHog is not initialized or path is in skip list
		if posthogClient == nil || !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		// Process request first
		c.Next()

		// Skip if there was an error processing the request
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		// Get user ID from context (set by auth middleware)
		userID, exists := GetUserIDFromContext(c)
		if !exists {
			// Anonymous auth-flow endpoints are still worth tracking; key on IP
			PosthogEventForDistinctID(posthogClient, c, c.ClientIP())
			return
		}
		PosthogEventForDistinctID(posthogClient, c, strconv.FormatInt(userID, 10))
	}
}

// PosthogEventForDistinctID sends a route-derived event for the given identity.
func PosthogEventForDistinctID(posthogClient *utils.PosthogClientWrapper, c *gin.Context, distinctID string) {
	// Create event name from route path (e.g., "/auth/send-otp" -> "auth_send-otp")
	eventName := strings.TrimPrefix(c.FullPath(), "/")
	eventName = strings.ReplaceAll(eventName, "/", "_")

	// Skip if event name is empty (e.g., for 404s)
	if eventName == "" {
		return
	}

	props := map[string]any{
		"method":      c.Request.Method,
		"path":        c.Request.URL.Path,
		"status_code": c.Writer.Status(),
	}
	posthogClient.Enqueue(distinctID, eventName, props)
}
