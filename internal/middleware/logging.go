package middleware

import (
	"time"

	"oauth-bridge/internal/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request. Query strings are omitted since
// the OAuth callback carries the authorization code there.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]any{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
		}
		if c.Writer.Status() >= 500 {
			logger.Error("request", fields)
			return
		}
		logger.Debug("request", fields)
	}
}
