// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	StatsComputations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stats_computations_total",
			Help: "Study stats requests by outcome (computed, cached, failed).",
		},
		[]string{"outcome"},
	)

	FeedResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_feed_results_total",
			Help: "Activity feed builds by outcome (ok, empty, failed_empty).",
		},
		[]string{"outcome"},
	)

	SourceFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_fetch_errors_total",
			Help: "Failed record store lookups by source.",
		},
		[]string{"source"},
	)

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stats_cache_hits_total",
		Help: "Stats served from the cache.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stats_cache_misses_total",
		Help: "Stats cache lookups that missed.",
	})

	RemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streak_reminders_sent_total",
		Help: "Streak-at-risk reminders published.",
	})

	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Open websocket connections.",
	})
)
