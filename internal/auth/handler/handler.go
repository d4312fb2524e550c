package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/bogdanSgithub/autovitals-backend/internal/logger"
	"github.com/bogdanSgithub/autovitals-backend/internal/middleware"
	"github.com/bogdanSgithub/autovitals-backend/internal/profile"
	"github.com/bogdanSgithub/autovitals-backend/internal/session"

	"github.com/gin-gonic/gin"
)

// CredentialVerifier checks a username/password pair. Unknown users and
// wrong passwords are false, nil; errors mean the check could not run.
type CredentialVerifier interface {
	// CheckCredentials returns the registered spelling of username on success.
	CheckCredentials(ctx context.Context, username, password string) (string, bool, error)
}

// AccountCreator registers new accounts.
type AccountCreator interface {
	Register(ctx context.Context, username, password string) error
}

// ProfileLookup reads the profile shown on the home route.
type ProfileLookup interface {
	Get(ctx context.Context, username string) (*profile.Profile, error)
}

type Options struct {
	LoginTTL    time.Duration
	RegisterTTL time.Duration
	Cookies     session.CookieOptions
}

// Handler owns the session lifecycle: login, registration, logout and
// renewal. Every session it issues goes through issueSession.
type Handler struct {
	sessionStore session.Store
	credentials  CredentialVerifier
	accounts     AccountCreator
	profiles     ProfileLookup
	opts         Options

	now func() time.Time
}

func NewHandler(
	sessionStore session.Store,
	credentials CredentialVerifier,
	accounts AccountCreator,
	profiles ProfileLookup,
	opts Options,
) *Handler {
	return &Handler{
		sessionStore: sessionStore,
		credentials:  credentials,
		accounts:     accounts,
		profiles:     profiles,
		opts:         opts,
		now:          time.Now,
	}
}

// RegisterRoutes mounts the session routes and the home route.
func (h *Handler) RegisterRoutes(r gin.IRouter, gate *middleware.Gate) {
	authenticated := gate.Require(middleware.Authenticated())

	s := r.Group("/session")
	s.POST("/login", h.Login)
	s.GET("/logout", authenticated, h.Logout)
	s.POST("/logout", authenticated, h.Logout)
	s.GET("/auth", authenticated, h.Whoami)
	s.POST("/refresh", authenticated, h.Refresh)

	r.GET("/", authenticated, h.Home)
}

// RegisterUserRoutes mounts account creation.
func (h *Handler) RegisterUserRoutes(r gin.IRouter) {
	r.POST("/users/register", h.Register)
}

// issueSession starts a session for username and hands its cookie to the
// client. The cookie expires together with the session.
func (h *Handler) issueSession(c *gin.Context, username string, ttl time.Duration) (session.Session, error) {
	sess, err := session.Start(c.Request.Context(), h.sessionStore, username, ttl, h.now())
	if err != nil {
		return session.Session{}, err
	}
	session.SetCookie(c.Writer, sess.SessionID, sess.ExpiresAt, h.opts.Cookies)
	return sess, nil
}

func (h *Handler) Logout(c *gin.Context) {
	id, _ := middleware.Identity(c)

	if err := h.sessionStore.Delete(c.Request.Context(), id.SessionID); err != nil {
		logger.Error("failed to delete session on logout", map[string]any{
			"username": id.Username,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	session.ClearCookie(c.Writer, h.opts.Cookies)

	logger.Info("user logged out", map[string]any{
		"username": id.Username,
		"ip":       c.ClientIP(),
	})
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

func (h *Handler) Whoami(c *gin.Context) {
	id, _ := middleware.Identity(c)
	c.JSON(http.StatusOK, gin.H{"username": id.Username})
}
