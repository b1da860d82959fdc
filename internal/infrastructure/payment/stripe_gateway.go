// Package payment adapts the hosted checkout processor to the portal's gateway port.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"citizen-portal.backend/internal/domain/entities"
)

const eventCheckoutCompleted = "checkout.session.completed"

// ErrWebhookNotConfigured is returned when no signing secret is configured.
var ErrWebhookNotConfigured = errors.New("payment webhook secret not configured")

// StripeGateway creates checkout sessions and reads their payment state
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

// Options override the processor endpoint, used by tests.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewStripeGateway builds a gateway. Network retries are disabled; a failed call surfaces to
// the caller immediately.
func NewStripeGateway(secretKey, webhookSecret string, opts Options) *StripeGateway {
	cfg := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if opts.BaseURL != "" {
		cfg.URL = stripe.String(opts.BaseURL)
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, cfg)
	api := client.New(secretKey, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
	return &StripeGateway{api: api, webhookSecret: webhookSecret}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req entities.CheckoutRequest) (*entities.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(req.CustomerEmail),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(req.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(req.Description),
				},
				UnitAmount: stripe.Int64(req.AmountMinor),
			},
			Quantity: stripe.Int64(1),
		}},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &entities.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (g *StripeGateway) IsPaid(ctx context.Context, checkoutSessionID string) (bool, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	s, err := g.api.CheckoutSessions.Get(checkoutSessionID, params)
	if err != nil {
		return false, fmt.Errorf("get checkout session: %w", err)
	}
	return s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid, nil
}

// ParseWebhook verifies the signature header and decodes checkout events.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*entities.PaymentEvent, error) {
	if g.webhookSecret == "" {
		return nil, ErrWebhookNotConfigured
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("verify webhook: %w", err)
	}

	out := &entities.PaymentEvent{Type: string(event.Type)}
	if string(event.Type) != eventCheckoutCompleted {
		return out, nil
	}
	var s stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	out.CheckoutSessionID = s.ID
	out.Paid = s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid
	return out, nil
}
