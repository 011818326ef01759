// internal/middleware/metrics_middleware.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"receipt-service/internal/metrics"
)

// MetricsMiddleware counts requests by route template so path
// parameters do not create new series
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequest(c.Request.Method, path, c.Writer.Status())
	}
}
