// Package metrics exposes Prometheus instrumentation for database
// fetches made by the dashboard handlers.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for Fetches.
const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable"
	OutcomeQuery       = "query"
	OutcomeDataShape   = "data_shape"
	OutcomeError       = "error"
)

var (
	// Fetches is labelled by handler ("page" or "api") and outcome.
	Fetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "people_dashboard_fetches_total",
			Help: "Total number of fetch-all queries by handler and outcome",
		},
		[]string{"handler", "outcome"},
	)

	QueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "people_dashboard_query_duration_seconds",
			Help:    "Duration of the fetch-all query in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RowsFetched = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "people_dashboard_rows_fetched",
			Help: "Number of rows returned by the last successful fetch",
		},
	)
)

// ObserveFetch records one fetch attempt.
func ObserveFetch(handler, outcome string, took time.Duration, rows int) {
	QueryDuration.Observe(took.Seconds())
	Fetches.WithLabelValues(handler, outcome).Inc()
	if outcome == OutcomeOK {
		RowsFetched.Set(float64(rows))
	}
}
