// Package observability exposes Prometheus metrics for the reconciliation
// engine.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Booking sources for the bookings counter
const (
	SourceInteractive    = "interactive"
	SourceBulkPrivate    = "bulk_private"
	SourceBulkClassified = "bulk_classified"
)

// Metrics bundles the engine's Prometheus collectors
type Metrics struct {
	BookingsTotal        *prometheus.CounterVec
	BulkSkippedTotal     prometheus.Counter
	ClassifierCallsTotal *prometheus.CounterVec
	ReclassifyTotal      prometheus.Counter
}

// NewMetrics registers the engine's collectors with the given registerer
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BookingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "grootboek_bookings_total",
			Help: "Bank transactions booked, by posting mode and source.",
		}, []string{"mode", "source"}),
		BulkSkippedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "grootboek_bulk_skipped_total",
			Help: "Transactions skipped during bulk reconciliation runs.",
		}),
		ClassifierCallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "grootboek_classifier_calls_total",
			Help: "Calls to the external classification service, by outcome.",
		}, []string{"outcome"}),
		ReclassifyTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "grootboek_reclassifications_total",
			Help: "Booked transactions reclassified to another account.",
		}),
	}
}

// RecordBooking counts one successful booking
func (m *Metrics) RecordBooking(mode, source string) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(mode, source).Inc()
}

// RecordSkip counts one skipped bulk item
func (m *Metrics) RecordSkip() {
	if m == nil {
		return
	}
	m.BulkSkippedTotal.Inc()
}

// RecordClassifierCall counts one classifier call with its outcome
func (m *Metrics) RecordClassifierCall(outcome string) {
	if m == nil {
		return
	}
	m.ClassifierCallsTotal.WithLabelValues(outcome).Inc()
}

// RecordReclassification counts one reclassification
func (m *Metrics) RecordReclassification() {
	if m == nil {
		return
	}
	m.ReclassifyTotal.Inc()
}
