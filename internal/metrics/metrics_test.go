package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestCollector(t *testing.T) (*Collector, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewCollector(reg), reg
}

func TestCollector_RecordLoginSuccess(t *testing.T) {
	c, _ := newTestCollector(t)

	c.RecordLoginSuccess()
	c.RecordLoginSuccess()

	if got := testutil.ToFloat64(c.loginSuccess); got != 2 {
		t.Errorf("login_success_total = %v, want 2", got)
	}
}

func TestCollector_RecordLoginFailure_ByReason(t *testing.T) {
	c, _ := newTestCollector(t)

	c.RecordLoginFailure(ReasonExchangeFailed)
	c.RecordLoginFailure(ReasonExchangeFailed)
	c.RecordLoginFailure(ReasonProfileIncomplete)

	if got := testutil.ToFloat64(c.loginFailure.WithLabelValues(ReasonExchangeFailed)); got != 2 {
		t.Errorf("login_failure_total{exchange_failed} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.loginFailure.WithLabelValues(ReasonProfileIncomplete)); got != 1 {
		t.Errorf("login_failure_total{profile_incomplete} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.loginFailure.WithLabelValues(ReasonPersistenceFailed)); got != 0 {
		t.Errorf("login_failure_total{persistence_failed} = %v, want 0", got)
	}
}

func TestCollector_RecordUserRegistered(t *testing.T) {
	c, _ := newTestCollector(t)

	c.RecordUserRegistered()

	if got := testutil.ToFloat64(c.usersRegistered); got != 1 {
		t.Errorf("users_registered_total = %v, want 1", got)
	}
}

// /metricsエンドポイントがPrometheus形式で返すことを検証する。
func TestHandler_ReturnsPrometheusFormat(t *testing.T) {
	c, reg := newTestCollector(t)
	c.RecordLoginInitiated()
	c.RecordCallbackLatency(150 * time.Millisecond)

	handler := Handler(reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	if !strings.Contains(body, "mtauth_login_initiated_total 1") {
		t.Errorf("metrics output should contain login_initiated counter, got:\n%s", body)
	}
	if !strings.Contains(body, "mtauth_callback_latency_seconds") {
		t.Errorf("metrics output should contain callback latency histogram")
	}
}
