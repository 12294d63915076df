package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Aggregation
	FilesParsed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "history_files_parsed_total",
			Help: "Total number of history files read to completion",
		},
	)

	FilesFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "history_files_failed_total",
			Help: "Total number of history files abandoned because of an open, parse or collector error",
		},
	)

	EventsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "history_events_total",
			Help: "Total number of playback events fanned out to collectors",
		},
	)

	AggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aggregation_duration_seconds",
			Help:    "Duration of a full aggregation pass over one export folder",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// Session cache
	SessionCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_cache_hits_total",
			Help: "Total number of requests served from the cached bundle",
		},
	)

	SessionCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_cache_misses_total",
			Help: "Total number of requests that triggered a recomputation",
		},
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"route", "status"},
	)

	APIRateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)

// RecordAggregation records the outcome of one pass.
func RecordAggregation(duration time.Duration, parsed, failed, events int) {
	AggregationDuration.Observe(duration.Seconds())
	FilesParsed.Add(float64(parsed))
	FilesFailed.Add(float64(failed))
	EventsProcessed.Add(float64(events))
}

// RecordCacheLookup counts a session cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		SessionCacheHits.Inc()
		return
	}
	SessionCacheMisses.Inc()
}

// RecordAPIRequest counts one served API request.
func RecordAPIRequest(route string, status int) {
	APIRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
