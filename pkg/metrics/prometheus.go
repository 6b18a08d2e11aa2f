// Package metrics provides Prometheus metrics for the RankMyWord service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Every collector is named rmw_game_<name>.
const (
	namespace = "rmw"
	subsystem = "game"
)

// latencyBuckets are in milliseconds.
var latencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000} //nolint:gochecknoglobals // shared bucket layout

// Manager owns every Prometheus collector of the service.
type Manager struct {
	registry prometheus.Registerer

	// Scoring pipeline
	cacheLookups     *prometheus.CounterVec
	scorerCalls      *prometheus.CounterVec
	scorerErrors     *prometheus.CounterVec
	scoringLatency   prometheus.Histogram
	inflightShared   prometheus.Counter
	localCacheSize   prometheus.Gauge
	persistWarnings  *prometheus.CounterVec
	leaderboardSubs  prometheus.Counter
	rankingsReturned prometheus.Histogram

	// Repository
	repositoryEntries *prometheus.GaugeVec
	repositoryLatency *prometheus.HistogramVec

	// Write-behind queue and workers
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueRejected      *prometheus.CounterVec
	workerCount        prometheus.Gauge
	workerJobLatency   prometheus.Histogram
	workerJobRetries   prometheus.Counter
	workerJobsFinished *prometheus.CounterVec

	// Multiplayer
	activeSessions prometheus.Gauge
	roundsScored   prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByComponent   *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(customRegistry)
}

// NewManager creates a metrics manager and registers its collectors with
// registry, or with the default registerer when registry is nil.
func NewManager(registry prometheus.Registerer) *Manager {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	m := &Manager{registry: registry}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.cacheLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cache_lookups_total",
		Help:      "Score lookups by resolver tier and outcome (hit, miss, error)",
	}, []string{"tier", "outcome"})

	m.scorerCalls = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "scorer_calls_total",
		Help:      "Calls to the remote LLM scorer by outcome",
	}, []string{"outcome"})

	m.scorerErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "scorer_errors_total",
		Help:      "Scorer failures by error kind",
	}, []string{"kind"})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "scoring_latency_milliseconds",
		Help:      "Latency of remote scorer calls in milliseconds",
		Buckets:   latencyBuckets,
	})

	m.inflightShared = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "inflight_shared_total",
		Help:      "Score requests that joined an identical in-flight request",
	})

	m.localCacheSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "local_cache_entries",
		Help:      "Entries held by the local score cache",
	})

	m.persistWarnings = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "persistence_warnings_total",
		Help:      "Failed writes to the shared cache, leaderboard or play history",
	}, []string{"target"})

	m.leaderboardSubs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "leaderboard_submissions_total",
		Help:      "Scores written to the ranked tables",
	})

	m.rankingsReturned = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rankings_returned",
		Help:      "Number of rows returned by ranking reads",
		Buckets:   []float64{0, 1, 3, 5, 10, 25, 50, 100},
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "persist_queue_size",
		Help:      "Jobs waiting in the write-behind queue",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "persist_queue_capacity",
		Help:      "Capacity of the write-behind queue",
	})

	m.queueEnqueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "persist_queue_enqueued_total",
		Help:      "Jobs accepted by the write-behind queue",
	})

	m.queueRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "persist_queue_rejected_total",
		Help:      "Jobs rejected by the write-behind queue by reason",
	}, []string{"reason"})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "persist_worker_count",
		Help:      "Number of write-behind workers",
	})

	m.workerJobLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "persist_job_latency_milliseconds",
		Help:      "Time spent handling one write-behind job",
		Buckets:   latencyBuckets,
	})

	m.workerJobRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "persist_job_retries_total",
		Help:      "Write-behind job retries",
	})

	m.workerJobsFinished = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "persist_jobs_finished_total",
		Help:      "Write-behind jobs finished by kind and outcome",
	}, []string{"kind", "outcome"})

	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "multiplayer_sessions_active",
		Help:      "Open local multiplayer sessions",
	})

	m.roundsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "multiplayer_rounds_scored_total",
		Help:      "Multiplayer rounds that reached the results phase",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   latencyBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "errors_by_component_total",
		Help:      "Errors by component and error type",
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Heap bytes allocated",
	})

	m.repositoryEntries = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "repository_entries",
		Help:      "Rows held by each ranked view",
	}, []string{"view"})

	m.repositoryLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "repository_latency_milliseconds",
		Help:      "Repository operation latency in milliseconds",
		Buckets:   latencyBuckets,
	}, []string{"operation"})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "Average GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordCacheLookup counts a lookup against one resolver tier.
func RecordCacheLookup(tier, outcome string) {
	globalManager.cacheLookups.WithLabelValues(tier, outcome).Inc()
}

// RecordScorerCall counts a remote scorer call by outcome ("ok" or "error").
func RecordScorerCall(outcome string) {
	globalManager.scorerCalls.WithLabelValues(outcome).Inc()
}

// RecordScorerError counts a scorer failure of the given kind.
func RecordScorerError(kind string) {
	globalManager.scorerErrors.WithLabelValues(kind).Inc()
}

// RecordScoringLatency records scorer latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordInflightShared counts a request served by another caller's in-flight call.
func RecordInflightShared() {
	globalManager.inflightShared.Inc()
}

// UpdateLocalCacheSize sets the number of local cache entries.
func UpdateLocalCacheSize(n int) {
	globalManager.localCacheSize.Set(float64(n))
}

// RecordPersistenceWarning counts a swallowed write failure.
func RecordPersistenceWarning(target string) {
	globalManager.persistWarnings.WithLabelValues(target).Inc()
}

// UpdateRepositoryEntries sets the number of rows in a ranked view.
func UpdateRepositoryEntries(view string, n int) {
	globalManager.repositoryEntries.WithLabelValues(view).Set(float64(n))
}

// RecordRepositoryLatency records a repository operation latency in milliseconds.
func RecordRepositoryLatency(operation string, latencyMs float64) {
	globalManager.repositoryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordLeaderboardSubmission counts a ranking write.
func RecordLeaderboardSubmission() {
	globalManager.leaderboardSubs.Inc()
}

// RecordRankingsReturned records the size of a ranking read.
func RecordRankingsReturned(n int) {
	globalManager.rankingsReturned.Observe(float64(n))
}

// UpdateQueueSize sets the current write-behind queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the write-behind queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue counts an accepted job.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueRejected counts a rejected job.
func RecordQueueRejected(reason string) {
	globalManager.queueRejected.WithLabelValues(reason).Inc()
}

// UpdateWorkerCount sets the number of write-behind workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerJobLatency records job handling latency in milliseconds.
func RecordWorkerJobLatency(latencyMs float64) {
	globalManager.workerJobLatency.Observe(latencyMs)
}

// RecordWorkerRetry counts a job retry.
func RecordWorkerRetry() {
	globalManager.workerJobRetries.Inc()
}

// RecordWorkerJobFinished counts a finished job.
func RecordWorkerJobFinished(kind, outcome string) {
	globalManager.workerJobsFinished.WithLabelValues(kind, outcome).Inc()
}

// UpdateActiveSessions sets the number of open multiplayer sessions.
func UpdateActiveSessions(n int) {
	globalManager.activeSessions.Set(float64(n))
}

// RecordRoundScored counts a multiplayer round reaching results.
func RecordRoundScored() {
	globalManager.roundsScored.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
