package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain-level counters beyond the per-request HTTP metrics. Registered with
// the default registry at init, served on the same /metrics endpoint.
var (
	// CacheHits counts cache-aside reads served from Redis, per cache key.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_cache_hits_total",
			Help: "Cache-aside reads served from Redis",
		},
		[]string{"key"},
	)

	// CacheMisses counts cache-aside reads that fell through to the database.
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_cache_misses_total",
			Help: "Cache-aside reads that fell through to the database",
		},
		[]string{"key"},
	)

	// RateLimitDenials counts requests rejected by a rate-limit bucket.
	RateLimitDenials = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_rate_limit_denials_total",
			Help: "Requests rejected by a rate-limit bucket",
		},
		[]string{"resource"},
	)

	// StorageFallbacks counts remote object-store operations that were
	// retried against the in-memory fallback store.
	StorageFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_storage_fallback_total",
			Help: "Remote object-store operations retried against the fallback store",
		},
		[]string{"operation"},
	)
)
