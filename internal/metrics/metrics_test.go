package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	return NewWithRegistry("test", reg, reg)
}

func TestRecordRequest(t *testing.T) {
	m := newTestMetrics()
	m.RecordRequest("/api/game/:id", http.MethodGet, 200, 20*time.Millisecond)
	m.RecordRequest("/api/game/:id", http.MethodGet, 200, 30*time.Millisecond)
	m.RecordRequest("", http.MethodGet, 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/api/game/:id", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("unmatched", "GET", "404")))
}

func TestInProgressGauge(t *testing.T) {
	m := newTestMetrics()
	m.IncInProgress()
	m.IncInProgress()
	m.DecInProgress()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsInProgress))
}

func TestObserveRecovery(t *testing.T) {
	m := newTestMetrics()
	m.ObserveRecovery(StageConfirm, "expired")
	m.ObserveRecovery(StageConfirm, "ok")
	m.ObserveRecovery(StageConfirm, "ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RecoveryOutcomes.WithLabelValues(StageConfirm, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecoveryOutcomes.WithLabelValues(StageConfirm, "expired")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/x", "GET", 200, time.Second)
		m.IncInProgress()
		m.DecInProgress()
		m.ObserveQuery("game", 3)
		m.ObserveRecovery(StageRequest, "ok")
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := newTestMetrics()
	m.ObserveQuery("game", 3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "test_query_matched_records")
}

func TestIsSkipped(t *testing.T) {
	assert.True(t, IsSkipped("/metrics"))
	assert.False(t, IsSkipped("/api/game"))
}
