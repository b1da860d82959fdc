package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"citizen-portal.backend/internal/domain/entities"
	domainerrors "citizen-portal.backend/internal/domain/errors"
	"citizen-portal.backend/internal/interfaces/http/response"
	"citizen-portal.backend/internal/usecases"
	"citizen-portal.backend/pkg/logger"
)

const maxWebhookBytes = 64 << 10

// PaymentService is the checkout workflow used by PaymentHandler
type PaymentService interface {
	CreateSession(ctx context.Context, product entities.PaymentProduct, form map[string]any) (*usecases.CheckoutResult, error)
	Verify(ctx context.Context, in usecases.VerifyInput) (*entities.ApplicationView, error)
	TakeTempData(ctx context.Context, tempID string) (map[string]any, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// PaymentHandler handles checkout, verification and processor callbacks
type PaymentHandler struct {
	service PaymentService
}

func NewPaymentHandler(service PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

type VerifyPaymentRequest struct {
	SessionID      string `json:"sessionId"`
	Email          string `json:"email"`
	CollectionName string `json:"collectionName"`
}

// CreateSession starts a hosted checkout for the product
// POST /api/v1/create-payment-session, -ca, -lawyer
func (h *PaymentHandler) CreateSession(product entities.PaymentProduct) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form map[string]any
		if err := c.ShouldBindJSON(&form); err != nil {
			response.Error(c, domainerrors.BadRequest("Request body must be a JSON object"))
			return
		}

		result, err := h.service.CreateSession(c.Request.Context(), product, form)
		if err != nil {
			response.Error(c, err)
			return
		}

		response.Success(c, http.StatusOK, gin.H{
			"sessionId": result.SessionID,
			"url":       result.URL,
			"tempId":    result.TempID,
		})
	}
}

// Verify marks the applicant's latest application as paid
// POST /api/v1/success, /api/v1/lawyer-success
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest("Request body must be a JSON object"))
		return
	}

	view, err := h.service.Verify(c.Request.Context(), usecases.VerifyInput{
		SessionID:  req.SessionID,
		Email:      req.Email,
		Collection: req.CollectionName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":     "Payment verified",
		"application": view,
	})
}

// TempData hands the stored form back once after the checkout redirect
// GET /api/v1/temp-data/:id
func (h *PaymentHandler) TempData(c *gin.Context) {
	form, err := h.service.TakeTempData(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"data": form})
}

// Webhook receives signed checkout events from the processor
// POST /api/v1/webhook
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		logger.Warn(c.Request.Context(), "Failed to read webhook body", zap.Error(err))
		response.Error(c, domainerrors.BadRequest("Unreadable request body"))
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
