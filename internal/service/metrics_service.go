package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/acadops/timetable-api/internal/models"
)

// MetricsService encapsulates the Prometheus instrumentation for the API
// and the allocator.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	runsTotal         prometheus.Counter
	runDuration       prometheus.Histogram
	sessionsPlaced    prometheus.Counter
	sessionsAbandoned prometheus.Counter
	placementAttempts prometheus.Histogram
	reportJobsTotal   *prometheus.CounterVec
}

// NewMetricsService registers the collectors on a private registry.
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

	runsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_runs_total",
		Help: "Total number of generation runs",
	})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_run_duration_seconds",
		Help:    "Wall-clock duration of generation runs",
		Buckets: prometheus.DefBuckets,
	})

	sessionsPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_sessions_placed_total",
		Help: "Sessions committed to a schedule grid",
	})

	sessionsAbandoned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_sessions_abandoned_total",
		Help: "Session instances abandoned after exhausting the attempt budget",
	})

	placementAttempts := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_placement_attempts",
		Help:    "Placement attempts consumed per run",
		Buckets: prometheus.ExponentialBuckets(10, 4, 8),
	})

	reportJobsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_jobs_total",
		Help: "Report jobs by type and terminal status",
	}, []string{"type", "status"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, runsTotal, runDuration,
		sessionsPlaced, sessionsAbandoned, placementAttempts, reportJobsTotal, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		runsTotal:         runsTotal,
		runDuration:       runDuration,
		sessionsPlaced:    sessionsPlaced,
		sessionsAbandoned: sessionsAbandoned,
		placementAttempts: placementAttempts,
		reportJobsTotal:   reportJobsTotal,
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

// ObserveRun records allocator effort for one completed generation run.
func (m *MetricsService) ObserveRun(stats models.RunStats, duration time.Duration) {
	if m == nil {
		return
	}
	m.runsTotal.Inc()
	m.runDuration.Observe(duration.Seconds())
	m.sessionsPlaced.Add(float64(stats.SessionsPlaced))
	m.sessionsAbandoned.Add(float64(stats.SessionsAbandoned))
	m.placementAttempts.Observe(float64(stats.AttemptsTotal))
}

// ObserveReportJob counts a report job reaching a terminal status.
func (m *MetricsService) ObserveReportJob(reportType models.ReportType, status models.ReportStatus) {
	if m == nil {
		return
	}
	m.reportJobsTotal.WithLabelValues(string(reportType), string(status)).Inc()
}
