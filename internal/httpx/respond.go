// Package httpx holds the response helpers shared by the route handlers.
package httpx

import (
	"fmt"
	"net/http"

	"github.com/bogdanSgithub/autovitals-backend/internal/apperr"
	"github.com/bogdanSgithub/autovitals-backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Bind decodes the JSON body into dst and runs its binding tags. The body is
// cached on the context, so it can be bound again after the auth gate read
// it. On failure a 400 is written and false returned.
func Bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindBodyWith(dst, binding.JSON); err != nil {
		Fail(c, "bind request", fmt.Errorf("%v: %w", err, apperr.ErrInvalidInput))
		return false
	}
	return true
}

// Fail logs err and answers with the status its kind maps to.
func Fail(c *gin.Context, action string, err error) {
	status := apperr.Status(err)
	fields := map[string]any{
		"action": action,
		"path":   c.FullPath(),
		"status": status,
		"error":  err.Error(),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", fields)
	} else {
		logger.Info("request rejected", fields)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": apperr.Message(err)})
}
