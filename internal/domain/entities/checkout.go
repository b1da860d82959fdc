package entities

// CheckoutRequest asks the payment processor for a hosted checkout page.
type CheckoutRequest struct {
	Description   string
	AmountMinor   int64
	Currency      string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// CheckoutSession is the processor's handle for a hosted checkout page.
type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentEvent is a verified notification from the processor.
type PaymentEvent struct {
	Type              string
	CheckoutSessionID string
	Paid              bool
}
