package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wonny/probe/backend/internal/contracts"
)

// Metrics holds the prometheus collectors for the API and the flag engine
// ⭐ SSOT: 메트릭 정의는 여기서만
//
// All Record* methods are no-ops on a nil *Metrics.
type Metrics struct {
	service  string
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	flagsTotal         *prometheus.CounterVec
	rejectedTotal      *prometheus.CounterVec
}

// New creates a Metrics instance with its own registry
func New(service string) *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "probe",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "probe",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "probe",
			Subsystem:   "http",
			Name:        "in_flight_requests",
			Help:        "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{"service": service},
		},
	)
	evaluationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "probe",
			Subsystem: "engine",
			Name:      "evaluations_total",
			Help:      "Total flag evaluations by source.",
		},
		[]string{"service", "source"},
	)
	evaluationDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   "probe",
			Subsystem:   "engine",
			Name:        "evaluation_duration_seconds",
			Help:        "Flag evaluation duration in seconds.",
			Buckets:     []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
			ConstLabels: prometheus.Labels{"service": service},
		},
	)
	flagsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "probe",
			Subsystem: "engine",
			Name:      "flags_total",
			Help:      "Flags produced, by flag name and value.",
		},
		[]string{"service", "flag", "value"},
	)
	rejectedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "probe",
			Subsystem: "http",
			Name:      "rejected_uploads_total",
			Help:      "Uploads rejected before evaluation, by reason.",
		},
		[]string{"service", "reason"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		evaluationsTotal,
		evaluationDuration,
		flagsTotal,
		rejectedTotal,
	)

	return &Metrics{
		service:            service,
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		evaluationsTotal:   evaluationsTotal,
		evaluationDuration: evaluationDuration,
		flagsTotal:         flagsTotal,
		rejectedTotal:      rejectedTotal,
	}
}

// Handler exposes the registry for scraping
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request count, latency and in-flight gauge
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		path := routePath(r)
		m.requestTotal.WithLabelValues(m.service, r.Method, path, strconv.Itoa(recorder.statusCode)).Inc()
		m.requestDuration.WithLabelValues(m.service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// routePath uses the mux route template to keep label cardinality bounded
func routePath(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// RecordEvaluation counts one evaluation and the flags it produced
func (m *Metrics) RecordEvaluation(source string, result contracts.FlagResult, duration time.Duration) {
	if m == nil {
		return
	}
	if source == "" {
		source = "unknown"
	}
	m.evaluationsTotal.WithLabelValues(m.service, source).Inc()
	m.evaluationDuration.Observe(duration.Seconds())
	for name, f := range result.Flags {
		m.flagsTotal.WithLabelValues(m.service, name, f.String()).Inc()
	}
}

// RecordRejected counts an upload rejected at the transport boundary
func (m *Metrics) RecordRejected(reason string) {
	if m == nil {
		return
	}
	m.rejectedTotal.WithLabelValues(m.service, reason).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
