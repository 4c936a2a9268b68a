package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const metricsRealm = `Bearer realm="Metrics"`

// MetricsAuthMiddleware guards the scrape endpoint with a static Bearer token.
// An empty token leaves the endpoint open.
func MetricsAuthMiddleware(token string) gin.HandlerFunc {
	if token == "" {
		return func(c *gin.Context) { c.Next() }
	}

	expected := []byte(token)
	return func(c *gin.Context) {
		provided, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok {
			rejectScrape(c, "Bearer token required")
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
			rejectScrape(c, "Invalid token")
			return
		}
		c.Next()
	}
}

func rejectScrape(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", metricsRealm)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "unauthorized",
		"message": message,
	})
}
