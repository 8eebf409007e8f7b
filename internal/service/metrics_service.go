package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API:
// request timings, ranking cache effectiveness and import throughput.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	importedRows    prometheus.Counter
	importChunks    *prometheus.CounterVec
	reviewSaves     prometheus.Counter
	activeSessions  prometheus.Gauge
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ranking_cache_hits_total",
		Help: "Total ranking cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ranking_cache_misses_total",
		Help: "Total ranking cache misses",
	})

	importedRows := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "import_rows_total",
		Help: "Total applicant rows written by imports",
	})

	importChunks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "import_chunks_total",
		Help: "Import chunks by outcome",
	}, []string{"outcome"})

	reviewSaves := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "review_saves_total",
		Help: "Total review save operations",
	})

	activeSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "review_sessions_active",
		Help: "Currently active review sessions",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses,
		importedRows, importChunks, reviewSaves, activeSessions, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		importedRows:    importedRows,
		importChunks:    importChunks,
		reviewSaves:     reviewSaves,
		activeSessions:  activeSessions,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheLookup records a ranking cache hit or miss.
func (m *MetricsService) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
		return
	}
	m.cacheMisses.Inc()
}

// RecordImport accounts one finished import batch.
func (m *MetricsService) RecordImport(rows, okChunks, failedChunks int) {
	if m == nil {
		return
	}
	m.importedRows.Add(float64(rows))
	m.importChunks.WithLabelValues("ok").Add(float64(okChunks))
	if failedChunks > 0 {
		m.importChunks.WithLabelValues("failed").Add(float64(failedChunks))
	}
}

// RecordReviewSave counts one review save.
func (m *MetricsService) RecordReviewSave() {
	if m == nil {
		return
	}
	m.reviewSaves.Inc()
}

// SessionStarted increments the active session gauge.
func (m *MetricsService) SessionStarted() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

// SessionEnded decrements the active session gauge.
func (m *MetricsService) SessionEnded() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}
