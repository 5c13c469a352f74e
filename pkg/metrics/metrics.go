// Package metrics exposes Prometheus collectors for sizing calculations and
// the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solaris-sizer/solaris/pkg/types"
)

const (
	namespace = "solaris"
	subsystem = "sizer"
)

// Calculation outcomes used as the "result" label.
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
)

// Manager owns the collectors. A nil or disabled *Manager is valid and
// records nothing.
type Manager struct {
	registry *prometheus.Registry
	disabled bool

	calculations     *prometheus.CounterVec
	solutionsFound   prometheus.Histogram
	warningsEmitted  prometheus.Counter
	unknownRegions   prometheus.Counter
	dailyEnergy      prometheus.Histogram
	httpRequests     *prometheus.CounterVec
	httpRequestDelay *prometheus.HistogramVec
}

// NewManager registers all collectors on a fresh registry.
func NewManager() *Manager {
	m := &Manager{
		registry: prometheus.NewRegistry(),
	}
	auto := promauto.With(m.registry)

	m.calculations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "calculations_total",
		Help:      "Total number of sizing calculations by result",
	}, []string{"result"})

	m.solutionsFound = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "solutions_found",
		Help:      "Number of inverter/battery solutions returned per calculation",
		Buckets:   []float64{0, 1, 2, 3},
	})

	m.warningsEmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "large_load_warnings_total",
		Help:      "Total number of large load warnings returned",
	})

	m.unknownRegions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "unknown_region_total",
		Help:      "Calculations that fell back to the default peak sun hours",
	})

	m.dailyEnergy = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "daily_energy_kwh",
		Help:      "Daily energy consumption of submitted load lists",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDelay = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method"})

	return m
}

func (m *Manager) off() bool {
	return m == nil || m.disabled
}

// Registry returns the registry the collectors are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	if m.off() {
		return nil
	}
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	if m.off() {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCalculation records a successful calculation.
func (m *Manager) ObserveCalculation(agg types.AggregateLoad, res types.SizingResult) {
	if m.off() {
		return
	}
	m.calculations.WithLabelValues(ResultOK).Inc()
	m.solutionsFound.Observe(float64(len(res.Solutions)))
	m.warningsEmitted.Add(float64(len(agg.Warnings)))
	m.dailyEnergy.Observe(agg.DailyEnergyKWh)
	if !res.RegionKnown {
		m.unknownRegions.Inc()
	}
}

// ObserveRejected records a calculation rejected because of invalid input.
func (m *Manager) ObserveRejected() {
	if m.off() {
		return
	}
	m.calculations.WithLabelValues(ResultInvalid).Inc()
}

// Middleware wraps next and records request counts and durations under
// endpoint.
func (m *Manager) Middleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	if m.off() {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		m.httpRequests.WithLabelValues(endpoint, r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
		m.httpRequestDelay.WithLabelValues(endpoint, r.Method).Observe(time.Since(start).Seconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.statusCode = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
