package usecases

import (
	"context"

	"citizen-portal.backend/internal/domain/entities"
)

// PaymentGateway is the boundary to the hosted checkout processor
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req entities.CheckoutRequest) (*entities.CheckoutSession, error)
	IsPaid(ctx context.Context, checkoutSessionID string) (bool, error)
	ParseWebhook(payload []byte, signature string) (*entities.PaymentEvent, error)
}

// TextGenerator is the boundary to the generative-text API
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
}
