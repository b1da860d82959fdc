package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"citizen-portal.backend/pkg/metrics"
)

// MetricsMiddleware records request latency labelled by the matched route template
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
