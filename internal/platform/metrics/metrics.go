// Package metrics registers the gateway's Prometheus instruments.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	Verifications   *prometheus.CounterVec
	Rejections      *prometheus.CounterVec
	InquiryDuration prometheus.Histogram
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		Verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "slipgate_verifications_total",
			Help: "Total slip verifications by outcome (ok, decode_error, api_error, replayed)",
		}, []string{"outcome"}),
		Rejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "slipgate_validation_rejections_total",
			Help: "Total validation rejections by reason",
		}, []string{"reason"}),
		InquiryDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "slipgate_inquiry_duration_seconds",
			Help:    "Latency of remote inquiry calls",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveVerification records one verification attempt outcome.
func (m *Metrics) ObserveVerification(outcome string) {
	if m == nil {
		return
	}
	m.Verifications.WithLabelValues(outcome).Inc()
}

// ObserveRejection records one validation rejection reason.
func (m *Metrics) ObserveRejection(reason string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(reason).Inc()
}

// ObserveInquiry records the duration of one remote inquiry.
func (m *Metrics) ObserveInquiry(d time.Duration) {
	if m == nil {
		return
	}
	m.InquiryDuration.Observe(d.Seconds())
}
