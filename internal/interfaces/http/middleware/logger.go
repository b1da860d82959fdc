package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"citizen-portal.backend/pkg/logger"
)

// LoggerMiddleware logs HTTP requests using the structured logger. Query strings are left out
// because payment redirects carry applicant emails.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.LogRequest(c.Request.Context(), c.Request.Method, path, c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}
