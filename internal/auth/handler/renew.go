package handler

import (
	"errors"
	"net/http"

	"github.com/bogdanSgithub/autovitals-backend/internal/apperr"
	"github.com/bogdanSgithub/autovitals-backend/internal/logger"
	"github.com/bogdanSgithub/autovitals-backend/internal/middleware"
	"github.com/bogdanSgithub/autovitals-backend/internal/session"

	"github.com/gin-gonic/gin"
)

// renew swaps the caller's session for a fresh one. If the replacement
// cannot be read back the cookie is cleared, which logs the client out.
func (h *Handler) renew(c *gin.Context) (session.Session, bool) {
	id, _ := middleware.Identity(c)
	ctx := c.Request.Context()

	next, err := session.Renew(ctx, h.sessionStore, session.Session{
		SessionID: id.SessionID,
		Username:  id.Username,
	}, h.opts.LoginTTL, h.now())
	if err != nil {
		logger.Error("session renewal failed", map[string]any{
			"username": id.Username,
			"error":    err.Error(),
		})
		session.ClearCookie(c.Writer, h.opts.Cookies)
		return session.Session{}, false
	}

	stored, err := h.sessionStore.Get(ctx, next.SessionID)
	if err != nil || stored == nil {
		logger.Warn("renewed session missing, forcing logout", map[string]any{
			"username": id.Username,
		})
		session.ClearCookie(c.Writer, h.opts.Cookies)
		return session.Session{}, false
	}

	session.SetCookie(c.Writer, stored.SessionID, stored.ExpiresAt, h.opts.Cookies)
	return *stored, true
}

func (h *Handler) Refresh(c *gin.Context) {
	sess, ok := h.renew(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"username":  sess.Username,
		"expiresAt": sess.ExpiresAt,
	})
}

// Home greets the caller and extends their session.
func (h *Handler) Home(c *gin.Context) {
	id, _ := middleware.Identity(c)

	body := gin.H{"message": "Welcome to AutoVitals", "username": id.Username}
	p, err := h.profiles.Get(c.Request.Context(), id.Username)
	switch {
	case err == nil:
		body["email"] = p.Email
	case errors.Is(err, apperr.ErrNotFound):
		body["profile"] = false
	default:
		logger.Error("home profile lookup failed", map[string]any{
			"username": id.Username,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if _, ok := h.renew(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, body)
}
