package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the API.
type Metrics struct {
	requests          *prometheus.CounterVec
	latency           *prometheus.HistogramVec
	errors            *prometheus.CounterVec
	scheduleConflicts prometheus.Counter
	rateLimited       prometheus.Counter
}

// NewMetrics registers collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "homecare_http_requests_total",
			Help: "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "homecare_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "homecare_http_errors_total",
			Help: "Errors rendered to clients by route, method and error code",
		}, []string{"route", "method", "code"}),
		scheduleConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "homecare_schedule_conflicts_total",
			Help: "Shift writes rejected because of an overlapping active shift",
		}),
		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "homecare_rate_limited_requests_total",
			Help: "Requests rejected by the rate limiter",
		}),
	}
}

// RecordRequest observes one completed request.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// RecordScheduleConflict counts a rejected shift write.
func (m *Metrics) RecordScheduleConflict() {
	if m == nil {
		return
	}
	m.scheduleConflicts.Inc()
}

// RecordRateLimited counts a throttled request.
func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}
