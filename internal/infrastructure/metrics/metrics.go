// Package metrics provides Prometheus metrics for the painel-api service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RealtimeEvents tracks change-feed events by table and operation.
	RealtimeEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "painel_realtime_events_total",
			Help: "Total number of realtime change events received",
		},
		[]string{"table", "op"},
	)

	// CachePatches tracks in-place conversation cache patches.
	CachePatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "painel_conversation_cache_patches_total",
			Help: "Total number of in-place conversation cache patches applied",
		},
	)

	// CacheInvalidations tracks stale markings by cache.
	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "painel_cache_invalidations_total",
			Help: "Total number of cache invalidations",
		},
		[]string{"cache"},
	)

	// CacheRefetches tracks full refetches from the hosted backend.
	CacheRefetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "painel_cache_refetches_total",
			Help: "Total number of full cache refetches",
		},
		[]string{"cache"},
	)

	// WebhookDeliveries tracks outbound webhook deliveries by outcome.
	WebhookDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "painel_webhook_deliveries_total",
			Help: "Total number of outbound webhook deliveries",
		},
		[]string{"outcome"},
	)

	// WebhookDeliveryDuration tracks outbound webhook latency.
	WebhookDeliveryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "painel_webhook_delivery_duration_seconds",
			Help:    "Duration of outbound webhook deliveries",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ForcedLogouts tracks session expirations that forced a logout.
	ForcedLogouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "painel_forced_logouts_total",
			Help: "Total number of forced logouts after unauthorized responses",
		},
	)

	// FeedReconnects tracks websocket redials of the change feed.
	FeedReconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "painel_feed_reconnects_total",
			Help: "Total number of change feed reconnect attempts",
		},
	)

	// HTTPRequests tracks served API requests.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "painel_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTPRequestDuration tracks served API request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "painel_http_request_duration_seconds",
			Help:    "Duration of HTTP requests served",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// RecordRequest records one served HTTP request.
func RecordRequest(method, endpoint, status string, duration float64) {
	HTTPRequests.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}
