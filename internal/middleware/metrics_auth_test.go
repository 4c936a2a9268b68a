package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const testToken = "test-secret-token-123"

func TestMetricsAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		configured string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"no token configured", "", "", http.StatusOK, "metrics"},
		{"valid token", testToken, "Bearer " + testToken, http.StatusOK, "metrics"},
		{"invalid token", testToken, "Bearer wrong-token", http.StatusUnauthorized, "Invalid token"},
		{"missing header", testToken, "", http.StatusUnauthorized, "Bearer token required"},
		{"wrong scheme", testToken, "Basic dGVzdDp0ZXN0", http.StatusUnauthorized, "Bearer token required"},
		{"empty bearer", testToken, "Bearer ", http.StatusUnauthorized, "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(MetricsAuthMiddleware(tt.configured))
			r.GET("/metrics", func(c *gin.Context) {
				c.String(http.StatusOK, "metrics")
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "/metrics", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, `Bearer realm="Metrics"`, w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
