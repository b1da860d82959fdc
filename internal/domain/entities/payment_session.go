package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// PaymentSessionStatus represents the status of a checkout session
type PaymentSessionStatus string

const (
	PaymentSessionPending PaymentSessionStatus = "pending"
	PaymentSessionPaid    PaymentSessionStatus = "paid"
	PaymentSessionExpired PaymentSessionStatus = "expired"
)

// PaymentProduct selects the price table and route family for a checkout.
type PaymentProduct string

const (
	ProductApplication PaymentProduct = "application"
	ProductCA          PaymentProduct = "ca"
	ProductLawyer      PaymentProduct = "lawyer"
)

// PaymentSession is the durable record of a checkout request and the form awaiting payment
type PaymentSession struct {
	ID                uuid.UUID            `json:"id"`
	CheckoutSessionID string               `json:"checkoutSessionId"`
	TempID            string               `json:"tempId"`
	Product           PaymentProduct       `json:"product"`
	Kind              Kind                 `json:"kind"`
	Email             string               `json:"email"`
	AmountMinor       int64                `json:"amountMinor"`
	Currency          string               `json:"currency"`
	Status            PaymentSessionStatus `json:"status"`
	FormData          null.JSON            `json:"-"`
	PaidAt            null.Time            `json:"paidAt,omitempty"`
	CreatedAt         time.Time            `json:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt"`
}
