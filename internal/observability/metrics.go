package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsSubmitted counts public intake submissions.
	RequestsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sunseeker_requests_submitted_total",
		Help: "Total number of intake requests submitted",
	})

	// EmailDeliveries counts outbound emails by kind and outcome.
	EmailDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sunseeker_email_deliveries_total",
		Help: "Total number of outbound email deliveries by kind and outcome",
	}, []string{"kind", "outcome"})

	// VerificationAttempts counts payment verification attempts by outcome.
	VerificationAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sunseeker_verification_attempts_total",
		Help: "Total number of payment verification attempts by outcome",
	}, []string{"outcome"})

	// AdminFeedDrops counts dashboard feed messages dropped due to slow
	// or closed websocket clients.
	AdminFeedDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sunseeker_admin_feed_drops_total",
		Help: "Total number of admin feed messages dropped by reason",
	}, []string{"reason"})

	// ActiveAdminFeeds tracks currently connected admin dashboard sockets.
	ActiveAdminFeeds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sunseeker_admin_feed_connections",
		Help: "Number of currently connected admin dashboard websockets",
	})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sunseeker_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by statement kind.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sunseeker_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)
