package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records repository latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wavelength_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// RepositoryErrors counts repository failures by operation and error code.
	RepositoryErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wavelength_repository_errors_total",
		Help: "Total repository errors by operation and code",
	}, []string{"operation", "code"})

	// CacheLookups counts read-through cache lookups by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wavelength_cache_lookups_total",
		Help: "Total cache lookups by result",
	}, []string{"result"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wavelength_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// PostWrites counts post mutations by operation.
	PostWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wavelength_post_writes_total",
		Help: "Total post create, update and delete operations",
	}, []string{"operation"})

	// CommentsCreated counts stored comments.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wavelength_comments_created_total",
		Help: "Total comments stored",
	})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
