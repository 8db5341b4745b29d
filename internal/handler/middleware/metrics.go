package middleware

import (
	"payment-3p/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// NewMetricsMiddleware counts requests by matched route, so unknown paths
// share one label.
func NewMetricsMiddleware(rec *metrics.PrometheusRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rec.ObserveRequest(c.Request.Method, route, c.Writer.Status())
	}
}
