package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pdv/backend/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetrics_LabelsByRoutePattern(t *testing.T) {
	registry := metrics.NewRegistry()
	router := gin.New()
	router.Use(HTTPMetrics(registry))
	router.GET("/api/v1/sales/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/sales/1", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/sales/2", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/nope", nil))

	families, err := registry.Gatherer().Gather()
	require.NoError(t, err)

	var requests map[string]float64
	for _, mf := range families {
		if mf.GetName() != "pdv_http_requests_total" {
			continue
		}
		requests = make(map[string]float64)
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			requests[labels["route"]+" "+labels["status"]] = m.GetCounter().GetValue()
		}
	}

	assert.Equal(t, float64(2), requests["/api/v1/sales/:id 200"])
	assert.Equal(t, float64(1), requests["unmatched 404"])
}

func TestHTTPMetrics_InFlightReturnsToZero(t *testing.T) {
	registry := metrics.NewRegistry()
	router := gin.New()
	router.Use(HTTPMetrics(registry))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))

	count, err := testutil.GatherAndCount(registry.Gatherer(), "pdv_http_inflight_requests")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
