package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainerrors "citizen-portal.backend/internal/domain/errors"
	"citizen-portal.backend/pkg/logger"
)

// Success sends {"success": true} merged with data
func Success(c *gin.Context, status int, data gin.H) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error sends the failure envelope. Causes of 5xx responses are logged and never sent.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		// Default to Internal Server Error if not an AppError
		appErr = domainerrors.InternalError(err)
	}

	if appErr.Status >= 500 {
		logger.Error(c.Request.Context(), "Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(appErr.Err),
		)
	}

	c.JSON(appErr.Status, gin.H{
		"success": false,
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

// Abort writes the failure envelope and stops the handler chain
func Abort(c *gin.Context, status int, code string, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"code":    code,
		"message": message,
	})
}
