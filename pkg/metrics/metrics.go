package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Key-value backend latency (seconds)
	KVOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kv_operation_duration_seconds",
			Help:    "Key-value backend operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~1.6s
		},
		[]string{"backend", "operation"},
	)

	StateCommitCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "state_commit_count",
			Help: "Total number of committed state updates",
		},
	)

	StateWriteCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "state_write_count",
			Help: "Total number of state snapshot writes",
		},
		[]string{"status"}, // status: success, failed
	)

	StateLoadCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "state_load_count",
			Help: "Total number of state snapshot loads",
		},
		[]string{"result"}, // result: loaded, missing, invalid
	)

	MigrationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "state_migration_count",
			Help: "Total number of applied snapshot migration steps",
		},
		[]string{"to_version"},
	)

	SelectorCacheCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selector_cache_count",
			Help: "Streak selector cache lookups",
		},
		[]string{"result"}, // result: hit, miss
	)

	EventPublishCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_publish_count",
			Help: "Total number of published state events",
		},
		[]string{"status"},
	)

	SlowQueryCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total number of database queries slower than the threshold",
		},
	)

	SlowQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "db_slow_query_duration_seconds",
			Help:    "Duration of slow database queries in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 8), // 100ms to ~12.8s
		},
	)
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordKVOperation(backend, operation string, duration time.Duration) {
	KVOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

func IncrementStateCommit() {
	StateCommitCount.Inc()
}

func IncrementStateWrite(status string) {
	StateWriteCount.WithLabelValues(status).Inc()
}

func IncrementStateLoad(result string) {
	StateLoadCount.WithLabelValues(result).Inc()
}

func IncrementMigration(toVersion string) {
	MigrationCount.WithLabelValues(toVersion).Inc()
}

func IncrementSelectorCache(result string) {
	SelectorCacheCount.WithLabelValues(result).Inc()
}

func IncrementEventPublish(status string) {
	EventPublishCount.WithLabelValues(status).Inc()
}

// IncrementSlowQuery records a query slower than the tracer threshold. The
// SQL text is logged by the caller, not used as a label.
func IncrementSlowQuery(_ string, duration time.Duration) {
	SlowQueryCount.Inc()
	SlowQueryDuration.Observe(duration.Seconds())
}
