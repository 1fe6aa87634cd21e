// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Classification metrics
	TransactionsClassified *prometheus.CounterVec
	SignalTransactions     prometheus.Counter

	// Aggregation job metrics
	AggregationRunsTotal  *prometheus.CounterVec
	AggregationDuration   prometheus.Histogram
	SnapshotsInserted     prometheus.Counter
	SnapshotsDuplicate    prometheus.Counter
	TickersProcessed      prometheus.Counter

	// API metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	CacheHits           *prometheus.CounterVec
	CacheMisses         *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulAggregation prometheus.Gauge
	UptimeSeconds             prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "whale_intel"
	}

	return &Metrics{
		// Classification metrics
		TransactionsClassified: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classify",
			Name:      "transactions_total",
			Help:      "Total number of transactions classified by label",
		}, []string{"classification"}),
		SignalTransactions: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classify",
			Name:      "signal_transactions_total",
			Help:      "Total number of transactions counting toward sentiment",
		}),

		// Aggregation job metrics
		AggregationRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "runs_total",
			Help:      "Total number of aggregation runs by status",
		}, []string{"status"}),
		AggregationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "duration_seconds",
			Help:      "Duration of aggregation runs",
			Buckets:   prometheus.DefBuckets,
		}),
		SnapshotsInserted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "snapshots_inserted_total",
			Help:      "Total number of sentiment snapshots inserted",
		}),
		SnapshotsDuplicate: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "snapshots_duplicate_total",
			Help:      "Total number of snapshot inserts skipped as duplicates",
		}),
		TickersProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "tickers_processed_total",
			Help:      "Total number of tickers processed by aggregation runs",
		}),

		// API metrics
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by endpoint and status",
		}, []string{"endpoint", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration by endpoint",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of response cache hits by query shape",
		}, []string{"shape"}),
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of response cache misses by query shape",
		}, []string{"shape"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulAggregation: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_aggregation_timestamp",
			Help:      "Unix timestamp of last successful aggregation run",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordClassification increments the classified transactions counter.
func RecordClassification(classification string, countsTowardSignal bool) {
	DefaultMetrics.TransactionsClassified.WithLabelValues(classification).Inc()
	if countsTowardSignal {
		DefaultMetrics.SignalTransactions.Inc()
	}
}

// RecordAggregationRun records an aggregation run outcome.
func RecordAggregationRun(status string, durationSeconds float64) {
	DefaultMetrics.AggregationRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.AggregationDuration.Observe(durationSeconds)
}

// RecordSnapshotInserted increments the snapshots inserted counter.
func RecordSnapshotInserted() {
	DefaultMetrics.SnapshotsInserted.Inc()
}

// RecordSnapshotDuplicate increments the duplicate snapshot counter.
func RecordSnapshotDuplicate() {
	DefaultMetrics.SnapshotsDuplicate.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, status string, seconds float64) {
	DefaultMetrics.HTTPRequestsTotal.WithLabelValues(endpoint, status).Inc()
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(endpoint).Observe(seconds)
}

// RecordCacheLookup records a response cache hit or miss.
func RecordCacheLookup(shape string, hit bool) {
	if hit {
		DefaultMetrics.CacheHits.WithLabelValues(shape).Inc()
	} else {
		DefaultMetrics.CacheMisses.WithLabelValues(shape).Inc()
	}
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
