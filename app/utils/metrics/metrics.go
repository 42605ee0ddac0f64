// Package metrics provides Prometheus metrics for account-hub.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache read outcomes.
const (
	OutcomeHit           = "hit"
	OutcomeRefresh       = "refresh"
	OutcomeStaleFallback = "stale_fallback"
	OutcomeEmptyFallback = "empty_fallback"
)

var (
	// CacheRequestsTotal counts account data reads by category and outcome.
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "accounthub",
			Name:      "cache_requests_total",
			Help:      "Total number of account data reads",
		},
		[]string{"category", "outcome"},
	)

	// RefreshFlightsTotal counts refresh flights; shared flights rode on
	// another caller's in-flight fetch.
	RefreshFlightsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "accounthub",
			Name:      "refresh_flights_total",
			Help:      "Total number of cache refresh flights",
		},
		[]string{"category", "shared"},
	)

	// UpstreamRequestsTotal counts upstream fetches by service and outcome.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "accounthub",
			Name:      "upstream_requests_total",
			Help:      "Total number of upstream requests",
		},
		[]string{"upstream", "outcome"},
	)

	// UpstreamRequestDuration measures upstream request duration.
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "accounthub",
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of upstream requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"upstream"},
	)

	// UpstreamRetriesTotal counts retry attempts against upstreams.
	UpstreamRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "accounthub",
			Name:      "upstream_retries_total",
			Help:      "Total number of upstream retry attempts",
		},
		[]string{"upstream"},
	)

	// WebhookEventsTotal counts webhook deliveries by source and result.
	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "accounthub",
			Name:      "webhook_events_total",
			Help:      "Total number of webhook deliveries",
		},
		[]string{"source", "result"},
	)

	// PersonalTenantProvisionsTotal counts personal tenant self-healing
	// provisions.
	PersonalTenantProvisionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "accounthub",
			Name:      "personal_tenant_provisions_total",
			Help:      "Total number of personal tenants provisioned lazily",
		},
	)
)

// RecordCacheRequest records one account data read.
func RecordCacheRequest(category, outcome string) {
	CacheRequestsTotal.WithLabelValues(category, outcome).Inc()
}

// RecordRefreshFlight records one refresh flight.
func RecordRefreshFlight(category string, shared bool) {
	sharedLabel := "false"
	if shared {
		sharedLabel = "true"
	}
	RefreshFlightsTotal.WithLabelValues(category, sharedLabel).Inc()
}

// RecordUpstreamRequest records one upstream request.
func RecordUpstreamRequest(upstream, outcome string, duration float64) {
	UpstreamRequestsTotal.WithLabelValues(upstream, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(upstream).Observe(duration)
}

// RecordUpstreamRetry records one upstream retry attempt.
func RecordUpstreamRetry(upstream string) {
	UpstreamRetriesTotal.WithLabelValues(upstream).Inc()
}

// RecordWebhookEvent records one webhook delivery result.
func RecordWebhookEvent(source, result string) {
	WebhookEventsTotal.WithLabelValues(source, result).Inc()
}

// RecordPersonalTenantProvision records a personal tenant self-heal.
func RecordPersonalTenantProvision() {
	PersonalTenantProvisionsTotal.Inc()
}
