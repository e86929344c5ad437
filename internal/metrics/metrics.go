// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lunarbase_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	Placements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lunarbase_placements_total",
			Help: "Placement attempts by outcome",
		},
		[]string{"outcome"}, // "accepted", "overlap", "invalid"
	)

	RoutesBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lunarbase_routes_built_total",
			Help: "Route arcs built, by transport mode",
		},
		[]string{"transport"},
	)

	LayoutImports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lunarbase_layout_import_objects_total",
			Help: "Objects seen by layout import, by result",
		},
		[]string{"result"}, // "imported", "dropped"
	)

	SavedOverallScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lunarbase_saved_layout_overall_score",
			Help:    "Overall safety score of layouts at save time",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	SessionStoreRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lunarbase_session_store_requests_total",
			Help: "Session store calls through the circuit breaker, by result",
		},
		[]string{"result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lunarbase_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// ObserveHTTP records one finished request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
