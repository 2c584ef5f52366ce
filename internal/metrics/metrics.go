// Package metrics exposes Prometheus collectors for the verification core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VerificationsTotal counts completed single verifications by final status
	VerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forzeo_verifications_total",
			Help: "Completed verifications by final status",
		},
		[]string{"status"},
	)

	// FetchesTotal counts source fetch attempts by outcome
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forzeo_source_fetches_total",
			Help: "Source content fetch attempts by outcome",
		},
		[]string{"outcome"},
	)

	// EmbeddingSeconds tracks embedding call latency by provider and outcome
	EmbeddingSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forzeo_embedding_seconds",
			Help:    "Embedding inference latency",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "outcome"},
	)

	// BatchItemsTotal counts batch items by per-item result
	BatchItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forzeo_batch_items_total",
			Help: "Batch verification items by per-item result",
		},
		[]string{"result"},
	)

	// TrustAggregationsTotal counts trust profile recomputations
	TrustAggregationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forzeo_trust_aggregations_total",
			Help: "Domain trust aggregation passes",
		},
	)
)

// RecordVerification records a completed verification
func RecordVerification(status string) {
	VerificationsTotal.WithLabelValues(status).Inc()
}

// RecordFetch records a fetch attempt outcome (ok, error, denied, empty)
func RecordFetch(outcome string) {
	FetchesTotal.WithLabelValues(outcome).Inc()
}

// RecordEmbedding records one embedding call
func RecordEmbedding(provider, outcome string, seconds float64) {
	EmbeddingSeconds.WithLabelValues(provider, outcome).Observe(seconds)
}

// RecordBatchItem records a batch item result (completed, failed, skipped)
func RecordBatchItem(result string) {
	BatchItemsTotal.WithLabelValues(result).Inc()
}
