package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "citizen-portal.backend/internal/domain/errors"
	"citizen-portal.backend/internal/interfaces/http/response"
)

// AssistService rewrites applicant text and answers portal questions
type AssistService interface {
	Enhance(ctx context.Context, text, documentType string) (string, error)
	Chat(ctx context.Context, message string) (string, error)
}

type AssistHandler struct {
	service AssistService
}

func NewAssistHandler(service AssistService) *AssistHandler {
	return &AssistHandler{service: service}
}

type EnhanceTextRequest struct {
	Text         string `json:"text"`
	DocumentType string `json:"documentType"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

// EnhanceText polishes a free-text answer
// POST /api/v1/enhance-text
func (h *AssistHandler) EnhanceText(c *gin.Context) {
	var req EnhanceTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest("Request body must be a JSON object"))
		return
	}

	text, err := h.service.Enhance(c.Request.Context(), req.Text, req.DocumentType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"enhancedText": text})
}

// Chat answers a question about the portal
// POST /api/v1/chat
func (h *AssistHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest("Request body must be a JSON object"))
		return
	}

	reply, err := h.service.Chat(c.Request.Context(), req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reply": reply})
}
