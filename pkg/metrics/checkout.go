package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records checkout outcomes and gateway latency.
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
// A nil registerer yields a no-op recorder, which keeps tests and callers that
// do not scrape metrics free of registration churn.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_gateway_duration_seconds",
		Help:    "Duration of gateway calls made during checkout.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_outcomes_total",
		Help: "Checkout attempts by terminal outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, outcomes)
	return &CheckoutMetrics{
		duration: duration,
		outcomes: outcomes,
	}
}

// ObserveGateway records the duration of a single gateway operation.
func (c *CheckoutMetrics) ObserveGateway(operation string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

// IncOutcome increments the counter for the named terminal outcome.
func (c *CheckoutMetrics) IncOutcome(outcome string) {
	if c == nil || c.outcomes == nil {
		return
	}
	c.outcomes.WithLabelValues(outcome).Inc()
}
