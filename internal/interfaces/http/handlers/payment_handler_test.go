package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citizen-portal.backend/internal/domain/entities"
	domainerrors "citizen-portal.backend/internal/domain/errors"
	"citizen-portal.backend/internal/usecases"
)

type paymentServiceStub struct {
	createFn  func(ctx context.Context, product entities.PaymentProduct, form map[string]any) (*usecases.CheckoutResult, error)
	verifyFn  func(ctx context.Context, in usecases.VerifyInput) (*entities.ApplicationView, error)
	takeFn    func(ctx context.Context, tempID string) (map[string]any, error)
	webhookFn func(ctx context.Context, payload []byte, signature string) error
}

func (s paymentServiceStub) CreateSession(ctx context.Context, product entities.PaymentProduct, form map[string]any) (*usecases.CheckoutResult, error) {
	return s.createFn(ctx, product, form)
}
func (s paymentServiceStub) Verify(ctx context.Context, in usecases.VerifyInput) (*entities.ApplicationView, error) {
	return s.verifyFn(ctx, in)
}
func (s paymentServiceStub) TakeTempData(ctx context.Context, tempID string) (map[string]any, error) {
	return s.takeFn(ctx, tempID)
}
func (s paymentServiceStub) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	return s.webhookFn(ctx, payload, signature)
}

func newPaymentRouter(svc PaymentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewPaymentHandler(svc)
	r.POST("/create-payment-session", h.CreateSession(entities.ProductApplication))
	r.POST("/create-payment-session-ca", h.CreateSession(entities.ProductCA))
	r.POST("/create-payment-session-lawyer", h.CreateSession(entities.ProductLawyer))
	r.POST("/success", h.Verify)
	r.GET("/temp-data/:id", h.TempData)
	r.POST("/webhook", h.Webhook)
	return r
}

func TestPaymentHandler_CreateSession(t *testing.T) {
	var products []entities.PaymentProduct
	r := newPaymentRouter(paymentServiceStub{
		createFn: func(_ context.Context, product entities.PaymentProduct, form map[string]any) (*usecases.CheckoutResult, error) {
			products = append(products, product)
			if form["consultationType"] == "Astrology" {
				return nil, domainerrors.ValidationFailed([]string{`consultationType "Astrology" is not offered for Individual clients`})
			}
			return &usecases.CheckoutResult{SessionID: "cs_1", URL: "https://checkout.example/cs_1", TempID: "t-1"}, nil
		},
	})

	for _, path := range []string{"/create-payment-session", "/create-payment-session-ca", "/create-payment-session-lawyer"} {
		w := doJSON(r, http.MethodPost, path, `{"email":"a@b.com","consultationType":"Tax"}`)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `{"success":true,"sessionId":"cs_1","url":"https://checkout.example/cs_1","tempId":"t-1"}`, w.Body.String())
	}
	assert.Equal(t, []entities.PaymentProduct{entities.ProductApplication, entities.ProductCA, entities.ProductLawyer}, products)

	w := doJSON(r, http.MethodPost, "/create-payment-session-ca", `{"email":"a@b.com","consultationType":"Astrology"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/create-payment-session", `not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler_Verify(t *testing.T) {
	var got usecases.VerifyInput
	r := newPaymentRouter(paymentServiceStub{
		verifyFn: func(_ context.Context, in usecases.VerifyInput) (*entities.ApplicationView, error) {
			got = in
			if in.Email == "nobody@b.com" {
				return nil, domainerrors.NotFound("User not found")
			}
			return &entities.ApplicationView{ID: "app-1", PaymentVerified: true}, nil
		},
	})

	w := doJSON(r, http.MethodPost, "/success", `{"sessionId":"cs_1","email":"a@b.com","collectionName":"passport"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecases.VerifyInput{SessionID: "cs_1", Email: "a@b.com", Collection: "passport"}, got)
	app := decodeBody(t, w)["application"].(map[string]any)
	assert.Equal(t, true, app["paymentVerified"])

	w = doJSON(r, http.MethodPost, "/success", `{"email":"nobody@b.com","collectionName":"passport"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decodeBody(t, w)["message"])
}

func TestPaymentHandler_TempData(t *testing.T) {
	r := newPaymentRouter(paymentServiceStub{
		takeFn: func(_ context.Context, id string) (map[string]any, error) {
			if id != "t-1" {
				return nil, domainerrors.NotFound("Temporary data not found")
			}
			return map[string]any{"email": "a@b.com"}, nil
		},
	})

	w := doJSON(r, http.MethodGet, "/temp-data/t-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"email":"a@b.com"}}`, w.Body.String())

	w = doJSON(r, http.MethodGet, "/temp-data/t-2", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPaymentHandler_Webhook(t *testing.T) {
	var payload []byte
	var signature string
	r := newPaymentRouter(paymentServiceStub{
		webhookFn: func(_ context.Context, p []byte, sig string) error {
			payload, signature = p, sig
			if sig == "bad" {
				return domainerrors.BadRequest("Invalid webhook signature")
			}
			return nil
		},
	})

	send := func(sig string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(`{"type":"checkout.session.completed"}`))
		req.Header.Set("Stripe-Signature", sig)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := send("t=1,v1=abc")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true}`, w.Body.String())
	assert.Equal(t, `{"type":"checkout.session.completed"}`, string(payload))
	assert.Equal(t, "t=1,v1=abc", signature)

	w = send("bad")
	require.Equal(t, http.StatusBadRequest, w.Code)
}
