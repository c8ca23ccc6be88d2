package middleware

import (
	"strconv"
	"time"

	"patent-insight-backend/internal/telemetry"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request count and duration per method/path/status.
func MetricsMiddleware(metrics *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
