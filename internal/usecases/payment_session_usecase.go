package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"citizen-portal.backend/internal/domain/entities"
	domainerrors "citizen-portal.backend/internal/domain/errors"
	"citizen-portal.backend/internal/domain/repositories"
	"citizen-portal.backend/internal/domain/schemas"
	"citizen-portal.backend/internal/domain/validation"
	"citizen-portal.backend/pkg/crypto"
	"citizen-portal.backend/pkg/logger"
	"citizen-portal.backend/pkg/metrics"
	"citizen-portal.backend/pkg/utils"
)

const (
	eventCheckoutCompleted = "checkout.session.completed"
	tempIDRandomBytes      = 8
)

var emailField = validation.Field{Name: "email", Rules: []validation.Rule{validation.Required(), validation.Email()}}

// CheckoutResult is returned to the browser to redirect to the hosted checkout page
type CheckoutResult struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
	TempID    string `json:"tempId"`
}

// VerifyInput carries the redirect-back parameters of a completed checkout
type VerifyInput struct {
	SessionID  string
	Email      string
	Collection string
}

// PaymentSessionConfig holds the settings the payment flow needs from configuration
type PaymentSessionConfig struct {
	PublicBaseURL string
	Currency      string
}

// PaymentSessionUsecase creates checkout sessions and flags applications as paid
type PaymentSessionUsecase struct {
	registry *schemas.Registry
	apps     repositories.ApplicationRepository
	sessions repositories.PaymentSessionRepository
	temp     repositories.TempDataStore
	gateway  PaymentGateway
	prices   *PriceBook
	uow      repositories.UnitOfWork
	metrics  *metrics.Metrics
	cfg      PaymentSessionConfig
}

// NewPaymentSessionUsecase creates a new payment session usecase
func NewPaymentSessionUsecase(
	registry *schemas.Registry,
	apps repositories.ApplicationRepository,
	sessions repositories.PaymentSessionRepository,
	temp repositories.TempDataStore,
	gateway PaymentGateway,
	prices *PriceBook,
	uow repositories.UnitOfWork,
	m *metrics.Metrics,
	cfg PaymentSessionConfig,
) *PaymentSessionUsecase {
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	if cfg.Currency == "" {
		cfg.Currency = "inr"
	}
	return &PaymentSessionUsecase{
		registry: registry,
		apps:     apps,
		sessions: sessions,
		temp:     temp,
		gateway:  gateway,
		prices:   prices,
		uow:      uow,
		metrics:  m,
		cfg:      cfg,
	}
}

// schemaFor resolves the schema a checkout pays for. Applications name their family in
// applicationType; consultations pick a variant from clientType.
func (u *PaymentSessionUsecase) schemaFor(product entities.PaymentProduct, form map[string]any) (*schemas.Schema, error) {
	switch product {
	case entities.ProductApplication:
		name := validation.Normalize(form["applicationType"])
		if name == "" {
			return nil, domainerrors.ValidationFailed([]string{"applicationType is required"})
		}
		kinds, ok := u.registry.ResolveCollection(name)
		if !ok || len(kinds) != 1 {
			return nil, domainerrors.ValidationFailed([]string{"applicationType is not a known application"})
		}
		schema, family, _ := u.registry.Schema(kinds[0])
		if family.Product != entities.ProductApplication {
			return nil, domainerrors.ValidationFailed([]string{"applicationType is not a known application"})
		}
		return schema, nil
	case entities.ProductCA, entities.ProductLawyer:
		family, ok := u.registry.Family(string(product))
		if !ok {
			return nil, domainerrors.BadRequest("Unknown payment product")
		}
		schema, err := family.Select(form)
		if err != nil {
			return nil, domainerrors.ValidationFailed([]string{err.Error()})
		}
		return schema, nil
	default:
		return nil, domainerrors.BadRequest("Unknown payment product")
	}
}

// CreateSession stores the form until payment completes and opens a hosted checkout.
func (u *PaymentSessionUsecase) CreateSession(ctx context.Context, product entities.PaymentProduct, form map[string]any) (*CheckoutResult, error) {
	if form == nil {
		form = map[string]any{}
	}
	schema, err := u.schemaFor(product, form)
	if err != nil {
		u.metrics.IncPaymentSession(string(product), metrics.OutcomeInvalid)
		return nil, err
	}

	email := strings.ToLower(validation.Normalize(form["email"]))
	if msg := validation.ValidateField(email, emailField, time.Now()); msg != "" {
		u.metrics.IncPaymentSession(string(product), metrics.OutcomeInvalid)
		return nil, domainerrors.ValidationFailed([]string{msg})
	}

	quote, err := u.prices.Quote(schema, form)
	if err != nil {
		u.metrics.IncPaymentSession(string(product), metrics.OutcomeInvalid)
		return nil, domainerrors.ValidationFailed([]string{err.Error()})
	}

	tempID, err := crypto.GenerateTimestampedID(tempIDRandomBytes)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}
	payload, err := json.Marshal(form)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}
	if err := u.temp.Put(ctx, tempID, payload); err != nil {
		u.metrics.IncPaymentSession(string(product), metrics.OutcomeError)
		return nil, domainerrors.InternalError(err)
	}

	q := url.Values{}
	q.Set("tempId", tempID)
	q.Set("email", email)
	q.Set("collection", string(schema.Kind))
	// The processor substitutes {CHECKOUT_SESSION_ID}; it must stay unescaped.
	successURL := u.cfg.PublicBaseURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}&" + q.Encode()
	cancelURL := u.cfg.PublicBaseURL + "/payment-cancelled?" + q.Encode()

	checkout, err := u.gateway.CreateCheckoutSession(ctx, entities.CheckoutRequest{
		Description:   quote.Description,
		AmountMinor:   quote.AmountMinor,
		Currency:      u.cfg.Currency,
		CustomerEmail: email,
		SuccessURL:    successURL,
		CancelURL:     cancelURL,
		Metadata: map[string]string{
			"tempId":     tempID,
			"collection": string(schema.Kind),
			"product":    string(product),
		},
	})
	if err != nil {
		u.metrics.IncPaymentSession(string(product), metrics.OutcomeError)
		return nil, domainerrors.InternalError(err)
	}

	session := &entities.PaymentSession{
		ID:                utils.GenerateUUIDv7(),
		CheckoutSessionID: checkout.ID,
		TempID:            tempID,
		Product:           product,
		Kind:              schema.Kind,
		Email:             email,
		AmountMinor:       quote.AmountMinor,
		Currency:          u.cfg.Currency,
		Status:            entities.PaymentSessionPending,
		FormData:          null.JSONFrom(payload),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		u.metrics.IncPaymentSession(string(product), metrics.OutcomeError)
		return nil, domainerrors.InternalError(err)
	}

	u.metrics.IncPaymentSession(string(product), metrics.OutcomeSuccess)
	logger.Info(ctx, "Checkout session created",
		zap.String("checkout_session_id", checkout.ID),
		zap.String("kind", string(schema.Kind)),
		zap.Int64("amount_minor", quote.AmountMinor),
	)
	return &CheckoutResult{SessionID: checkout.ID, URL: checkout.URL, TempID: tempID}, nil
}

// Verify flags the applicant's most recent application as paid. With a session id the
// durable session decides which collection and email apply and the processor must confirm
// payment; without one the collection must resolve against the fixed kind enumeration.
func (u *PaymentSessionUsecase) Verify(ctx context.Context, in VerifyInput) (*entities.ApplicationView, error) {
	var (
		session *entities.PaymentSession
		kinds   []entities.Kind
		email   = strings.ToLower(strings.TrimSpace(in.Email))
	)

	if sessionID := strings.TrimSpace(in.SessionID); sessionID != "" {
		s, err := u.sessions.GetByCheckoutSessionID(ctx, sessionID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				u.metrics.IncPaymentVerification(metrics.OutcomeNotFound)
				return nil, domainerrors.NotFound("Payment session not found")
			}
			return nil, domainerrors.InternalError(err)
		}
		if s.Status != entities.PaymentSessionPaid {
			paid, err := u.gateway.IsPaid(ctx, sessionID)
			if err != nil {
				u.metrics.IncPaymentVerification(metrics.OutcomeError)
				return nil, domainerrors.InternalError(err)
			}
			if !paid {
				u.metrics.IncPaymentVerification(metrics.OutcomeUnpaid)
				return nil, domainerrors.PaymentRequired("Payment has not been completed")
			}
		}
		session = s
		kinds = []entities.Kind{s.Kind}
		email = s.Email
	} else {
		if email == "" {
			return nil, domainerrors.ValidationFailed([]string{"email is required"})
		}
		resolved, ok := u.registry.ResolveCollection(in.Collection)
		if !ok {
			u.metrics.IncPaymentVerification(metrics.OutcomeInvalid)
			return nil, domainerrors.BadRequest("Unknown collection")
		}
		kinds = resolved
	}

	app, err := u.latestByEmail(ctx, kinds, email)
	if err != nil {
		return nil, err
	}
	if app == nil {
		u.metrics.IncPaymentVerification(metrics.OutcomeNotFound)
		return nil, domainerrors.NotFound("User not found")
	}

	var updated *entities.Application
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = u.apps.MarkPaymentVerified(txCtx, app.Kind, app.ID)
		if err != nil {
			return err
		}
		if session != nil && session.Status != entities.PaymentSessionPaid {
			return u.sessions.MarkPaid(txCtx, session.ID)
		}
		return nil
	})
	if err != nil {
		u.metrics.IncPaymentVerification(metrics.OutcomeError)
		return nil, domainerrors.InternalError(err)
	}

	u.metrics.IncPaymentVerification(metrics.OutcomeSuccess)
	schema, _, _ := u.registry.Schema(updated.Kind)
	view := schema.View(updated)
	return &view, nil
}

// latestByEmail returns the newest application for email across kinds, or nil.
func (u *PaymentSessionUsecase) latestByEmail(ctx context.Context, kinds []entities.Kind, email string) (*entities.Application, error) {
	var latest *entities.Application
	for _, kind := range kinds {
		app, err := u.apps.FindLatestByEmail(ctx, kind, email)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				continue
			}
			return nil, domainerrors.InternalError(err)
		}
		if latest == nil || app.ApplicationDate.After(latest.ApplicationDate) {
			latest = app
		}
	}
	return latest, nil
}

// TakeTempData returns the form stored for a checkout and removes it. The in-process store
// is tried first; the durable session record is the fallback.
func (u *PaymentSessionUsecase) TakeTempData(ctx context.Context, tempID string) (map[string]any, error) {
	tempID = strings.TrimSpace(tempID)
	if tempID == "" {
		return nil, domainerrors.NotFound("Temporary data not found")
	}

	payload, err := u.temp.Take(ctx, tempID)
	if err != nil && !errors.Is(err, repositories.ErrTempDataNotFound) {
		return nil, domainerrors.InternalError(err)
	}

	session, serr := u.sessions.GetByTempID(ctx, tempID)
	if serr != nil && !errors.Is(serr, domainerrors.ErrNotFound) {
		return nil, domainerrors.InternalError(serr)
	}

	if payload == nil {
		if session == nil || !session.FormData.Valid {
			return nil, domainerrors.NotFound("Temporary data not found")
		}
		payload = session.FormData.JSON
	}
	if session != nil && session.FormData.Valid {
		if err := u.sessions.ClearFormData(ctx, session.ID); err != nil {
			logger.Warn(ctx, "Failed to clear stored form data", zap.String("temp_id", tempID), zap.Error(err))
		}
	}

	var form map[string]any
	if err := json.Unmarshal(payload, &form); err != nil {
		return nil, domainerrors.InternalError(err)
	}
	return form, nil
}

// HandleWebhook applies a signed processor notification. Unknown sessions are acknowledged
// so the processor stops redelivering.
func (u *PaymentSessionUsecase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := u.gateway.ParseWebhook(payload, signature)
	if err != nil {
		logger.Warn(ctx, "Rejected payment webhook", zap.Error(err))
		return domainerrors.BadRequest("Invalid webhook signature")
	}
	if event.Type != eventCheckoutCompleted || !event.Paid {
		return nil
	}

	session, err := u.sessions.GetByCheckoutSessionID(ctx, event.CheckoutSessionID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			logger.Warn(ctx, "Webhook for unknown checkout session", zap.String("checkout_session_id", event.CheckoutSessionID))
			return nil
		}
		return domainerrors.InternalError(err)
	}
	if session.Status == entities.PaymentSessionPaid {
		return nil
	}

	app, err := u.latestByEmail(ctx, []entities.Kind{session.Kind}, session.Email)
	if err != nil {
		return err
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.sessions.MarkPaid(txCtx, session.ID); err != nil {
			return err
		}
		// The applicant may submit after paying; Verify flags the record then.
		if app == nil {
			return nil
		}
		_, err := u.apps.MarkPaymentVerified(txCtx, app.Kind, app.ID)
		return err
	})
	if err != nil {
		return domainerrors.InternalError(err)
	}
	u.metrics.IncPaymentVerification(metrics.OutcomeSuccess)
	return nil
}
