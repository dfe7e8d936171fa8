// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes.
const (
	OutcomeFound   = "found"
	OutcomeAbsent  = "absent"
	OutcomeTimeout = "timeout"
	OutcomeError   = "error"
)

var (
	ContactsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_contacts_total",
			Help: "Contacts handled by the batch loop, by status",
		},
		[]string{"status"},
	)

	SourceLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_source_lookups_total",
			Help: "Per-source lookups by outcome",
		},
		[]string{"source", "outcome"},
	)

	SourceLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enrichment_source_lookup_duration_seconds",
			Help:    "Duration of per-source lookups in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 6, 8, 10},
		},
		[]string{"source"},
	)

	BatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enrichment_batch_duration_seconds",
			Help:    "Wall-clock duration of a batch run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"status"},
	)

	BatchesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "enrichment_batches_active",
			Help: "Batch runs currently executing in this process",
		},
	)
)
