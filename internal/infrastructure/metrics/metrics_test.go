package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ObserveRequest(t *testing.T) {
	r := NewRegistry()

	done := r.RequestStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(r.httpInFlight))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(r.httpInFlight))

	r.ObserveRequest("GET", "/api/v1/sales/:id", "200", 0.01)
	r.ObserveRequest("GET", "/api/v1/sales/:id", "200", 0.02)
	r.ObserveRequest("POST", "/api/v1/sales", "201", 0.05)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("GET", "/api/v1/sales/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("POST", "/api/v1/sales", "201")))
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.ObserveRequest("GET", "/health", "200", 0.001)
	require.NoError(t, r.RegisterGaugeFunc("audit", "pending_writes", "Pending audit writes.", func() float64 { return 3 }))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `pdv_http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, string(body), "pdv_audit_pending_writes 3")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestRegistry_DuplicateGaugeFunc(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterGaugeFunc("audit", "pending_writes", "x", func() float64 { return 0 }))
	assert.Error(t, r.RegisterGaugeFunc("audit", "pending_writes", "x", func() float64 { return 0 }))
}
