package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Checkout submission outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)

// CheckoutMetrics tracks the client checkout flow.
type CheckoutMetrics struct {
	submissions *prometheus.CounterVec
	validation  *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submissions_total",
		Help: "Checkout submissions by outcome.",
	}, []string{"outcome"})
	validation := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_validation_failures_total",
		Help: "Checkout step validation failures.",
	}, []string{"step"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_submit_duration_seconds",
		Help:    "Latency of order submission calls.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(submissions, validation, duration)
	return &CheckoutMetrics{submissions: submissions, validation: validation, duration: duration}
}

// IncSubmission counts one submit attempt by outcome.
func (c *CheckoutMetrics) IncSubmission(outcome string) {
	if c == nil || c.submissions == nil {
		return
	}
	c.submissions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncValidationFailure counts a failed step validation.
func (c *CheckoutMetrics) IncValidationFailure(step string) {
	if c == nil || c.validation == nil {
		return
	}
	c.validation.WithLabelValues(normalizeLabel(step)).Inc()
}

// ObserveSubmit records how long the order call took.
func (c *CheckoutMetrics) ObserveSubmit(elapsed time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.Observe(elapsed.Seconds())
}
