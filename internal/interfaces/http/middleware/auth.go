package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainerrors "citizen-portal.backend/internal/domain/errors"
	"citizen-portal.backend/internal/interfaces/http/response"
	"citizen-portal.backend/pkg/jwt"
	"citizen-portal.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// StaffIDKey is the context key for the staff member id
	StaffIDKey = "staffId"
	// StaffEmailKey is the context key for the staff member email
	StaffEmailKey = "staffEmail"
	// StaffRoleKey is the context key for the staff role
	StaffRoleKey = "staffRole"
)

// StaffAuthMiddleware guards review endpoints with a bearer token carrying a staff role. A nil
// service disables the check.
func StaffAuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtService == nil {
			c.Next()
			return
		}

		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, domainerrors.CodeUnauthorized, "Authorization header is required")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			response.Abort(c, http.StatusUnauthorized, domainerrors.CodeUnauthorized, "Invalid authorization format. Use: Bearer <token>")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(authHeader, BearerPrefix))
		if err != nil {
			logger.Warn(c.Request.Context(), "Staff token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			if errors.Is(err, jwt.ErrExpiredToken) {
				response.Abort(c, http.StatusUnauthorized, domainerrors.CodeUnauthorized, "Token has expired")
				return
			}
			response.Abort(c, http.StatusUnauthorized, domainerrors.CodeUnauthorized, "Invalid token")
			return
		}

		if !jwt.IsStaffRole(claims.Role) {
			response.Abort(c, http.StatusForbidden, domainerrors.CodeForbidden, "Insufficient permissions")
			return
		}

		c.Set(StaffIDKey, claims.StaffID)
		c.Set(StaffEmailKey, claims.Email)
		c.Set(StaffRoleKey, claims.Role)
		c.Next()
	}
}

// StaffIdentity is the reviewer authenticated by StaffAuthMiddleware
type StaffIdentity struct {
	ID    string
	Email string
	Role  string
}

// GetStaff returns the authenticated staff member, if any
func GetStaff(c *gin.Context) (StaffIdentity, bool) {
	id := c.GetString(StaffIDKey)
	if id == "" {
		return StaffIdentity{}, false
	}
	return StaffIdentity{
		ID:    id,
		Email: c.GetString(StaffEmailKey),
		Role:  c.GetString(StaffRoleKey),
	}, true
}
