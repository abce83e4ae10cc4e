// Package metrics provides Prometheus metrics for the vibeboard leaderboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Refresh pipeline
	refreshTotal    prometheus.Counter
	refreshDuration prometheus.Histogram
	teamsTracked    prometheus.Gauge

	// Scoring and snapshot quality
	analyzeTotal   prometheus.Counter
	scoringErrors  prometheus.Counter
	snapshotErrors prometheus.Counter
	llmLatency     prometheus.Histogram

	// Commentary feed
	commentaryEvents prometheus.Counter

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global manager backed by a custom registry so default Go collectors stay out.
var globalManager *Manager                     //nolint:gochecknoglobals // singleton metrics manager
var customRegistry = prometheus.NewRegistry()  //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "vibeboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initCollectors()

	return m
}

func (m *Manager) initCollectors() {
	factory := promauto.With(m.registry)

	m.refreshTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "refresh_total",
		Help:      "Number of completed refresh passes.",
	})
	m.refreshDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "refresh_duration_seconds",
		Help:      "Wall-clock duration of a full refresh pass.",
		Buckets:   m.histogramBuckets,
	})
	m.teamsTracked = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "teams_tracked",
		Help:      "Number of teams with a persisted score record.",
	})
	m.analyzeTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "analyze_total",
		Help:      "Number of single-team analyze requests processed.",
	})
	m.scoringErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "scoring_errors_total",
		Help:      "LLM scoring attempts that failed and fell back to neutral defaults.",
	})
	m.snapshotErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "snapshot_errors_total",
		Help:      "Repository snapshot fetches that failed outright.",
	})
	m.llmLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "llm_latency_seconds",
		Help:      "Latency of LLM completion calls.",
		Buckets:   m.histogramBuckets,
	})
	m.commentaryEvents = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "commentary_events_total",
		Help:      "Commentary events appended to the feed.",
	})
	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration by endpoint, method and status code.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// Package-level helpers operating on the global manager.

func RecordRefresh(durationSeconds float64) {
	globalManager.refreshTotal.Inc()
	globalManager.refreshDuration.Observe(durationSeconds)
}

func UpdateTeamsTracked(count int) {
	globalManager.teamsTracked.Set(float64(count))
}

func RecordAnalyze() {
	globalManager.analyzeTotal.Inc()
}

func RecordScoringError() {
	globalManager.scoringErrors.Inc()
}

func RecordSnapshotError() {
	globalManager.snapshotErrors.Inc()
}

func RecordLLMLatency(seconds float64) {
	globalManager.llmLatency.Observe(seconds)
}

func RecordCommentaryEvent() {
	globalManager.commentaryEvents.Inc()
}

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, seconds float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(seconds)
}

// GetRegistry exposes the custom registry for the metrics HTTP handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
