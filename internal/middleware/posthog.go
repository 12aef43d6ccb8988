package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// EventTracker is the analytics client API calls are reported to.
type EventTracker interface {
	IsInitialized() bool
	Enqueue(distinctID string, event string, properties map[string]any)
}

// PosthogMiddleware creates a Gin middleware handler that tracks successful API calls.
// Routes listed in selfTracked send their own events and are not tracked here.
func PosthogMiddleware(posthogClient EventTracker, selfTracked ...string) gin.HandlerFunc {
	routesToSkip := make(map[string]bool, len(selfTracked))
	for _, route := range selfTracked {
		routesToSkip[route] = true
	}

	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest || routesToSkip[c.FullPath()] {
			return
		}

		// "/api/v1/" -> "api_v1"
		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.ReplaceAll(eventName, "/", "_")
		if eventName == "" {
			return
		}

		userID, _ := GetUserIDFromContext(c)
		posthogClient.Enqueue(userID, eventName, map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		})
	}
}
