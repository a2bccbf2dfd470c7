package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pdv/backend/internal/infrastructure/metrics"
)

// unmatchedRoute labels requests that hit no route, keeping label
// cardinality bounded for 404 scans
const unmatchedRoute = "unmatched"

// HTTPMetrics records request count, latency and in-flight requests per
// matched route pattern
func HTTPMetrics(registry *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		done := registry.RequestStarted()
		start := time.Now()

		c.Next()

		done()
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		registry.ObserveRequest(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
