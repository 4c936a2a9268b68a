package handlers

import (
	"net/http"

	"github.com/appleboy/strava-relay/internal/core"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports whether the credential store and, when event
// de-duplication is enabled, its cache backend are reachable. dedup may be nil.
func HealthHandler(store core.CredentialStore, dedup core.Cache[string]) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		status := http.StatusOK
		body := gin.H{
			"status":   "healthy",
			"database": "connected",
		}

		if err := store.Health(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
			body["database"] = "disconnected"
		}

		if dedup != nil {
			body["dedup_cache"] = "connected"
			if err := dedup.Health(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "unhealthy"
				body["dedup_cache"] = "disconnected"
			}
		}

		c.JSON(status, body)
	}
}
