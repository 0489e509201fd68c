package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records outcomes of the checkout pipeline.
type CheckoutMetrics struct {
	duration     *prometheus.HistogramVec
	success      prometheus.Counter
	failure      *prometheus.CounterVec
	compensation prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	success := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_success_total",
		Help: "Checkouts that produced a payment session.",
	})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failure_total",
		Help: "Failed checkout attempts by stage.",
	}, []string{"stage"})
	compensation := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_compensation_total",
		Help: "Orders deleted after a payment session could not be created.",
	})
	reg.MustRegister(duration, success, failure, compensation)
	return &CheckoutMetrics{
		duration:     duration,
		success:      success,
		failure:      failure,
		compensation: compensation,
	}
}

// ObserveDuration records one checkout attempt with its outcome label.
func (c *CheckoutMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncSuccess counts a completed checkout.
func (c *CheckoutMetrics) IncSuccess() {
	if c == nil || c.success == nil {
		return
	}
	c.success.Inc()
}

// IncFailure counts a failed checkout, labeled by the stage that failed.
func (c *CheckoutMetrics) IncFailure(stage string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(stage)).Inc()
}

// IncCompensation counts an order rolled back after session creation failed.
func (c *CheckoutMetrics) IncCompensation() {
	if c == nil || c.compensation == nil {
		return
	}
	c.compensation.Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
