package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upstream movie database calls
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_provider_requests_total",
			Help: "Total number of movie provider calls by outcome",
		},
		[]string{"provider", "operation", "outcome"}, // outcome: "success", "failure", "not_found", "rejected"
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movie_provider_request_duration_seconds",
			Help:    "Duration of movie provider calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "operation"},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Candidate discovery
	CandidateLookupFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "candidate_lookup_failures_total",
			Help: "Upstream lookups that failed during candidate discovery and were treated as empty",
		},
		[]string{"stage"}, // "search", "details"
	)

	CandidatePoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "candidate_pool_size",
			Help:    "Number of detailed candidates handed to the ranker",
			Buckets: []float64{0, 5, 10, 20, 30, 40, 50},
		},
	)

	// Recommendations
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"}, // "match", "no_match", "error"
	)

	RateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "http_rate_limit_rejections_total",
			Help: "Requests rejected by the rate limiter",
		},
	)
)
