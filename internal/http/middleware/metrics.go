package middleware

import (
	"time"

	"gameslibrary/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency by route template.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics.IsSkipped(c.Request.URL.Path) {
			c.Next()
			return
		}
		m.IncInProgress()
		start := time.Now()
		c.Next()
		m.DecInProgress()
		m.RecordRequest(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
