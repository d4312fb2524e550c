package middleware

import (
	"time"

	"github.com/bogdanSgithub/autovitals-backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// AccessLog writes one structured line per request once it completes. Gated
// requests also carry the caller's username.
func AccessLog() gin.HandlerFunc {
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
		if id, ok := IdentityFromContext(c.Request.Context()); ok {
			fields["username"] = id.Username
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		logger.Info("request completed", fields)
	}
}
