package middleware

import (
	"time"

	"gameslibrary/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger writes one line per request through the request-scoped logger.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			logger.Method(c.Request.Method),
			logger.Path(c.Request.URL.Path),
			logger.Status(status),
			logger.Duration(time.Since(start)),
			logger.ClientIP(c.ClientIP()),
		}
		if id := c.GetInt64(userIDKey); id != 0 {
			fields = append(fields, logger.UserID(id))
		}

		log := logger.From(c.Request.Context())
		switch {
		case status >= 500:
			log.Error("http request", fields...)
		case status >= 400:
			log.Warn("http request", fields...)
		default:
			log.Info("http request", fields...)
		}
	}
}
