package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Tracks outbound calls to the ONS open-data portal (CKAN and S3 bucket).
	ONSRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ons_requests_total",
			Help: "Total number of ONS requests made (by endpoint and status).",
		},
		[]string{"endpoint", "status"},
	)

	ONSRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ons_request_duration_seconds",
			Help:    "Duration of ONS requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms → ~16s
		},
		[]string{"endpoint"},
	)

	// Tracks outbound calls to the market-data provider.
	MarketRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_requests_total",
			Help: "Total number of market-data requests made (by status).",
		},
		[]string{"status"},
	)

	// Counts rows skipped while parsing measurement CSV data.
	RowsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "measurement_rows_skipped_total",
			Help: "Number of malformed measurement rows skipped during parsing.",
		},
		[]string{"dataset"},
	)

	// Counts fetcher-level degradations to fallback payloads.
	FetcherFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetcher_fallbacks_total",
			Help: "Number of times a fetcher served fallback data instead of live data.",
		},
		[]string{"dataset"},
	)

	NATSPublishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_publish_total",
			Help: "Number of NATS publishes (by subject and outcome).",
		},
		[]string{"subject", "status"},
	)

	SnapshotRefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "snapshot_refresh_duration_seconds",
			Help:    "Duration of dashboard snapshot refresh cycles in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"outcome"},
	)
)

// ObserveDuration records the elapsed time since start on the given histogram.
func ObserveDuration(h *prometheus.HistogramVec, start time.Time, labels ...string) {
	h.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
}

func IncONSRequest(endpoint, status string) {
	ONSRequestsTotal.WithLabelValues(endpoint, status).Inc()
}

func IncMarketRequest(status string) {
	MarketRequestsTotal.WithLabelValues(status).Inc()
}

func IncRowSkipped(dataset string) {
	RowsSkippedTotal.WithLabelValues(dataset).Inc()
}

func IncFallback(dataset string) {
	FetcherFallbacksTotal.WithLabelValues(dataset).Inc()
}

func IncNATSPublish(subject, status string) {
	NATSPublishTotal.WithLabelValues(subject, status).Inc()
}
