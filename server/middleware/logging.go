package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ashokvundavalli/AderantDevops-sub005/logger"
)

// RequestLogger logs every request with method, path, status and duration.
// Health probes are skipped.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := map[string]interface{}{
			"method":              c.Request.Method,
			"path":                c.Request.URL.Path,
			"status":              status,
			logger.FieldDuration:  time.Since(start).Milliseconds(),
			logger.FieldRequestID: c.GetString(RequestIDKey),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields["query"] = q
		}

		switch {
		case status >= 500:
			log.Error("request completed", fields)
		case status >= 400:
			log.Warn("request completed", fields)
		default:
			log.Debug("request completed", fields)
		}
	}
}
