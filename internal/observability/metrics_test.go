package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordRequest("/api/schedules", "POST", 201, 15*time.Millisecond)
	m.RecordRequest("/api/schedules", "POST", 201, 20*time.Millisecond)
	m.RecordError("/api/schedules", "POST", "SCHEDULE_CONFLICT")
	m.RecordScheduleConflict()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/schedules", "POST", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/api/schedules", "POST", "SCHEDULE_CONFLICT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scheduleConflicts))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordScheduleConflict()
		m.RecordRateLimited()
	})
}
