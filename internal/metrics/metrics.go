// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "placement"

var httpLabels = []string{"method", "path", "status_code"}

// HTTP traffic.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, httpLabels)

	HTTPRequestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served.",
	}, httpLabels)
)

// Search engine.
var (
	PlacementSearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_total",
		Help:      "Placement searches by outcome.",
	}, []string{"status"})

	PlacementSearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_duration_seconds",
		Help:      "Wall time of a placement search.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
	})

	PlacementNodesExpanded = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "nodes_expanded",
		Help:      "States expanded per placement search.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	})

	PlacementUtilization = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "utilization_ratio",
		Help:      "Area utilization of solved layouts.",
		Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
	})

	ImportedItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "imported_items_total",
		Help:      "Items read from uploaded files.",
	}, []string{"format"})

	RateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Requests rejected by a rate limiter.",
	}, []string{"limiter"})
)

// Storage and caching.
var (
	LogEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "log_entries_total",
		Help:      "Log entries handed to storage by outcome (written, dropped, failed).",
	}, []string{"result"})

	// CircuitBreakerState is 0 closed, 1 open, 2 half-open.
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_state",
		Help:      "Circuit breaker state (0 closed, 1 open, 2 half-open).",
	}, []string{"name"})

	CacheOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "operations_total",
		Help:      "Layout cache operations by result.",
	}, []string{"operation", "result"})

	CacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "entries",
		Help:      "Layouts currently cached.",
	})

	CacheCapacity = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "capacity",
		Help:      "Maximum number of cached layouts.",
	})
)

// PrometheusMiddleware records latency and count per route template.
// Unmatched requests are labelled with their raw path.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		labels := prometheus.Labels{
			"method":      c.Request.Method,
			"path":        path,
			"status_code": strconv.Itoa(c.Writer.Status()),
		}
		HTTPRequestDuration.With(labels).Observe(time.Since(start).Seconds())
		HTTPRequestTotal.With(labels).Inc()
	}
}

// RecordPlacementSearch records a finished search. Utilization is only
// observed for solved searches.
func RecordPlacementSearch(duration time.Duration, status string, expanded int, utilization float64) {
	PlacementSearchDuration.Observe(duration.Seconds())
	PlacementSearchesTotal.WithLabelValues(status).Inc()
	if expanded > 0 {
		PlacementNodesExpanded.Observe(float64(expanded))
	}
	if status == "solved" {
		PlacementUtilization.Observe(utilization)
	}
}

func RecordImport(format string, items int) {
	ImportedItemsTotal.WithLabelValues(format).Add(float64(items))
}

func RecordRateLimited(limiter string) {
	RateLimitedTotal.WithLabelValues(limiter).Inc()
}

func RecordLogEntries(result string, n int) {
	LogEntriesTotal.WithLabelValues(result).Add(float64(n))
}

func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateCacheMetrics sets the cache size gauges.
func UpdateCacheMetrics(size, capacity int) {
	CacheSize.Set(float64(size))
	CacheCapacity.Set(float64(capacity))
}
