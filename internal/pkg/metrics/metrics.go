package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linksdisplay_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "linksdisplay_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Audit log pipeline metrics
	AuditLogsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "linksdisplay_audit_logs_written_total",
			Help: "Total number of audit log records persisted",
		},
	)

	AuditLogsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linksdisplay_audit_logs_dropped_total",
			Help: "Total number of audit log records dropped",
		},
		[]string{"reason"},
	)

	AuditQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "linksdisplay_audit_queue_depth",
			Help: "Current number of audit log records waiting to be persisted",
		},
	)

	// Domain metrics
	LinksTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "linksdisplay_links_total",
			Help: "Total number of stored links",
		},
	)

	CategoriesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "linksdisplay_categories_total",
			Help: "Total number of categories",
		},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linksdisplay_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linksdisplay_cache_hits_total",
			Help: "Cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, endpoint string, status int, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordAuditDrop records a dropped audit record with the drop reason
// ("queue_full", "storage", "validation").
func RecordAuditDrop(reason string) {
	AuditLogsDropped.WithLabelValues(reason).Inc()
}

// RecordDBQuery records a database query against a table
func RecordDBQuery(operation, table string) {
	DBQueriesTotal.WithLabelValues(operation, table).Inc()
}

// RecordCacheLookup records a cache hit or miss
func RecordCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	CacheHitsTotal.WithLabelValues(outcome).Inc()
}
