// Package metrics provides Prometheus metrics for the matchstats reporting pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the reporting service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline metrics - one report run is one fetch/aggregate/render/publish cycle
	runsTotal         *prometheus.CounterVec
	runErrors         *prometheus.CounterVec
	fetchDuration     prometheus.Histogram
	aggregateDuration prometheus.Histogram
	renderDuration    prometheus.Histogram

	// Normalization metrics - data quality of the event sources
	eventsParsed    prometheus.Counter
	parseFailures   prometheus.Counter
	eventsDiscarded prometheus.Counter
	recordsSkipped  prometheus.Counter

	// Publish metrics
	summariesPosted prometheus.Counter
	reportsUploaded prometheus.Counter
	publishErrors   prometheus.Counter

	// Last-run snapshot gauges
	lastRunUnix    prometheus.Gauge
	lastEventCount prometheus.Gauge
	lastPlayerCount prometheus.Gauge

	// HTTP metrics for the cron-trigger surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "matchstats",
		subsystem:        "report",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.runsTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "runs_total",
			Help:      "Total number of report runs by kind (daily, full)",
		},
		[]string{"kind"},
	)

	m.runErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "run_errors_total",
			Help:      "Total number of failed report runs by kind",
		},
		[]string{"kind"},
	)

	m.fetchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_duration_milliseconds",
		Help:      "Histogram of event source fetch duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.aggregateDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregate_duration_milliseconds",
		Help:      "Histogram of statistics aggregation duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.renderDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "render_duration_milliseconds",
		Help:      "Histogram of report rendering duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.eventsParsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_parsed_total",
		Help:      "Total number of play events extracted from the sources",
	})

	m.parseFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "parse_failures_total",
		Help:      "Total number of messages that carried a score label but failed to parse",
	})

	m.eventsDiscarded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_discarded_total",
		Help:      "Total number of events discarded as implausible (score above ceiling)",
	})

	m.recordsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_skipped_total",
		Help:      "Total number of malformed key-value store records skipped",
	})

	m.summariesPosted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "summaries_posted_total",
		Help:      "Total number of chat summaries posted",
	})

	m.reportsUploaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reports_uploaded_total",
		Help:      "Total number of report documents uploaded",
	})

	m.publishErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "publish_errors_total",
		Help:      "Total number of failed publish attempts",
	})

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the last completed report run",
	})

	m.lastEventCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_run_events",
		Help:      "Number of events aggregated in the last completed run",
	})

	m.lastPlayerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_run_unique_players",
		Help:      "Number of unique players in the last completed run",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint, method and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorsByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Total number of errors by type and severity",
		},
		[]string{"error_type", "severity"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "error_latency_milliseconds",
			Help:      "Latency of requests that ended in an error",
			Buckets:   m.histogramBuckets,
		},
		[]string{"component", "error_type"},
	)
}

// GetRegistry returns the custom Prometheus registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers operating on the global manager.

// RecordRun increments the run counter for the given run kind.
func RecordRun(kind string) { globalManager.runsTotal.WithLabelValues(kind).Inc() }

// RecordRunError increments the failed-run counter for the given run kind.
func RecordRunError(kind string) { globalManager.runErrors.WithLabelValues(kind).Inc() }

// RecordFetchDuration records the duration of a source fetch in milliseconds.
func RecordFetchDuration(ms float64) { globalManager.fetchDuration.Observe(ms) }

// RecordAggregateDuration records the duration of an aggregation pass in milliseconds.
func RecordAggregateDuration(ms float64) { globalManager.aggregateDuration.Observe(ms) }

// RecordRenderDuration records the duration of report rendering in milliseconds.
func RecordRenderDuration(ms float64) { globalManager.renderDuration.Observe(ms) }

// AddEventsParsed adds n to the parsed-event counter.
func AddEventsParsed(n int) { globalManager.eventsParsed.Add(float64(n)) }

// RecordParseFailure increments the parse-failure counter.
func RecordParseFailure() { globalManager.parseFailures.Inc() }

// RecordEventDiscarded increments the implausible-event counter.
func RecordEventDiscarded() { globalManager.eventsDiscarded.Inc() }

// RecordRecordSkipped increments the malformed-record counter.
func RecordRecordSkipped() { globalManager.recordsSkipped.Inc() }

// RecordSummaryPosted increments the posted-summary counter.
func RecordSummaryPosted() { globalManager.summariesPosted.Inc() }

// RecordReportUploaded increments the uploaded-report counter.
func RecordReportUploaded() { globalManager.reportsUploaded.Inc() }

// RecordPublishError increments the publish-error counter.
func RecordPublishError() { globalManager.publishErrors.Inc() }

// UpdateLastRun records the completion time and size of the last run.
func UpdateLastRun(unix int64, events, players int) {
	globalManager.lastRunUnix.Set(float64(unix))
	globalManager.lastEventCount.Set(float64(events))
	globalManager.lastPlayerCount.Set(float64(players))
}

// RecordHTTPRequest records an HTTP request by endpoint, method and status.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

// RecordErrorByEndpoint records an error keyed by endpoint and method.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error keyed by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorLatency records the latency of a failed request.
func RecordErrorLatency(component, errorType string, ms float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(ms)
}
