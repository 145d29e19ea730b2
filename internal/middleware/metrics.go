package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tikagate/internal/metrics"
)

// Metrics returns middleware that records request count, latency, and
// in-flight gauge for every request. The path label uses the matched route
// pattern so unmatched probes cannot blow up label cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		c.Next()
		m.HTTPRequestsInFlight.Dec()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
