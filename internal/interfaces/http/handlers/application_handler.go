package handlers

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"citizen-portal.backend/internal/domain/entities"
	domainerrors "citizen-portal.backend/internal/domain/errors"
	"citizen-portal.backend/internal/interfaces/http/middleware"
	"citizen-portal.backend/internal/interfaces/http/response"
	"citizen-portal.backend/internal/usecases"
	"citizen-portal.backend/pkg/logger"
)

// ApplicationService is the application workflow used by ApplicationHandler
type ApplicationService interface {
	Submit(ctx context.Context, slug string, in usecases.SubmitInput) (*usecases.SubmitResult, error)
	List(ctx context.Context, slug string) ([]entities.ApplicationView, error)
	Get(ctx context.Context, slug, id string) (*entities.ApplicationView, error)
	UpdateStatus(ctx context.Context, slug, id, status string) (*entities.ApplicationView, error)
	Document(ctx context.Context, slug, id, slot string) (*entities.File, error)
}

// ApplicationHandler serves one route family per application type. The family slug is bound at
// registration time, never read from the request.
type ApplicationHandler struct {
	service ApplicationService
}

func NewApplicationHandler(service ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

type UpdateStatusRequest struct {
	ApplicationID string `json:"applicationId"`
	Status        string `json:"status"`
}

// Submit creates an application
// POST /api/v1/submit-<slug>
func (h *ApplicationHandler) Submit(slug string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			response.Error(c, domainerrors.BadRequest("Request body must be a JSON object"))
			return
		}

		in := usecases.SubmitInput{Fields: body, Files: map[string]any{}}
		if raw, ok := body["files"]; ok {
			files, ok := raw.(map[string]any)
			if !ok {
				response.Error(c, domainerrors.BadRequest("files must be an object"))
				return
			}
			in.Files = files
			delete(body, "files")
		}

		result, err := h.service.Submit(c.Request.Context(), slug, in)
		if err != nil {
			response.Error(c, err)
			return
		}

		response.Success(c, http.StatusCreated, gin.H{
			"message":         "Application submitted successfully",
			"applicationId":   result.ApplicationID,
			"applicationDate": result.ApplicationDate,
			"kind":            result.Kind,
		})
	}
}

// List returns every application of the family, newest first
// GET /api/v1/<slug>-fetch
func (h *ApplicationHandler) List(slug string) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := h.service.List(c.Request.Context(), slug)
		if err != nil {
			response.Error(c, err)
			return
		}
		if views == nil {
			views = []entities.ApplicationView{}
		}
		response.Success(c, http.StatusOK, gin.H{"applications": views})
	}
}

// UpdateStatus changes the review status of one application
// PUT /api/v1/employee_<slug>-fetch
func (h *ApplicationHandler) UpdateStatus(slug string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, domainerrors.BadRequest("Request body must be a JSON object"))
			return
		}

		view, err := h.service.UpdateStatus(c.Request.Context(), slug, req.ApplicationID, req.Status)
		if err != nil {
			response.Error(c, err)
			return
		}

		staff, _ := middleware.GetStaff(c)
		logger.Info(c.Request.Context(), "Application status updated",
			zap.String("kind", slug),
			zap.String("application_id", req.ApplicationID),
			zap.String("status", req.Status),
			zap.String("staff_id", staff.ID),
			zap.String("staff_role", staff.Role),
		)

		response.Success(c, http.StatusOK, gin.H{
			"message":     "Status updated successfully",
			"application": view,
		})
	}
}

// Get returns one application
// GET /api/v1/<slug>/:id
func (h *ApplicationHandler) Get(slug string) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := h.service.Get(c.Request.Context(), slug, c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"application": view})
	}
}

// Document streams one stored document as an attachment
// GET /api/v1/<slug>/:id/documents/:slot
func (h *ApplicationHandler) Document(slug string) gin.HandlerFunc {
	return func(c *gin.Context) {
		slot := c.Param("slot")
		file, err := h.service.Document(c.Request.Context(), slug, c.Param("id"), slot)
		if err != nil {
			response.Error(c, err)
			return
		}

		data, err := base64.StdEncoding.DecodeString(file.Data)
		if err != nil {
			response.Error(c, domainerrors.InternalError(err))
			return
		}

		c.Header("Content-Disposition", attachment(slot+extensionFor(file.ContentType)))
		c.Data(http.StatusOK, file.ContentType, data)
	}
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "application/pdf":
		return ".pdf"
	}
	return ""
}

func attachment(fileName string) string {
	fileName = strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' || r < 0x20 {
			return '_'
		}
		return r
	}, fileName)
	return `attachment; filename="` + fileName + `"`
}
