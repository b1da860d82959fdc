package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeNotFound = "not_found"
	OutcomeUnpaid   = "unpaid"
	OutcomeError    = "error"
)

// Metrics holds all Prometheus metrics for the portal. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	Submissions          *prometheus.CounterVec
	StatusUpdates        *prometheus.CounterVec
	PaymentSessions      *prometheus.CounterVec
	PaymentVerifications *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec
}

// New creates and registers all metrics on the default registry
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates and registers all metrics on reg
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_submissions_total",
			Help: "Application submissions by kind and outcome",
		}, []string{"kind", "outcome"}),
		StatusUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_status_updates_total",
			Help: "Staff status updates by kind and new status",
		}, []string{"kind", "status"}),
		PaymentSessions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_payment_sessions_total",
			Help: "Checkout sessions requested by product and outcome",
		}, []string{"product", "outcome"}),
		PaymentVerifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_payment_verifications_total",
			Help: "Payment verification callbacks by outcome",
		}, []string{"outcome"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) IncSubmission(kind, outcome string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) IncStatusUpdate(kind, status string) {
	if m == nil {
		return
	}
	m.StatusUpdates.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) IncPaymentSession(product, outcome string) {
	if m == nil {
		return
	}
	m.PaymentSessions.WithLabelValues(product, outcome).Inc()
}

func (m *Metrics) IncPaymentVerification(outcome string) {
	if m == nil {
		return
	}
	m.PaymentVerifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
}
