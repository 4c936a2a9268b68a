package metrics

import (
	"strconv"
	"time"

	"github.com/appleboy/strava-relay/internal/core"

	"github.com/gin-gonic/gin"
)

// unmatchedRoute labels requests that hit no route, keeping label
// cardinality bounded no matter what paths clients send.
const unmatchedRoute = "unknown"

// HTTPMetricsMiddleware records request count, latency, and in-flight
// requests per route pattern. Scrapes of /metrics are not recorded.
// Any recorder other than *Metrics gets a pass-through handler.
func HTTPMetricsMiddleware(m core.Recorder) gin.HandlerFunc {
	pm, ok := m.(*Metrics)
	if !ok {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		pm.HTTPRequestsInFlight.Inc()
		defer pm.HTTPRequestsInFlight.Dec()

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		pm.HTTPRequestsTotal.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Inc()
		pm.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route).
			Observe(elapsed.Seconds())
	}
}
