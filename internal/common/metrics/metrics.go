// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apex_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "apex_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	GatewayCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apex_gateway_calls_total",
			Help: "Total number of AI gateway calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	GatewayCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "apex_gateway_call_duration_seconds",
			Help:    "Duration of AI gateway calls in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"operation"},
	)

	SectionCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apex_section_cache_lookups_total",
			Help: "Section cache lookups by section and result (hit or miss)",
		},
		[]string{"section", "result"},
	)

	SectionFetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apex_section_fetch_failures_total",
			Help: "Section fetches that left the section empty",
		},
		[]string{"section", "error_code"},
	)

	SectionFetchesActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "apex_section_fetches_active",
			Help: "Number of in-flight section fetches",
		},
		[]string{"section"},
	)

	ChatMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apex_chat_messages_total",
			Help: "Chat messages appended by role",
		},
		[]string{"role"},
	)

	ChatSessionsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "apex_chat_sessions_evicted_total",
			Help: "Chat sessions dropped because the per-user cap was reached",
		},
	)

	WorkspacesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "apex_workspaces_active",
			Help: "Number of live per-user workspaces",
		},
	)
)
