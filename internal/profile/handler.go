package profile

import (
	"net/http"
	"strings"

	"github.com/bogdanSgithub/autovitals-backend/internal/email"
	"github.com/bogdanSgithub/autovitals-backend/internal/httpx"
	"github.com/bogdanSgithub/autovitals-backend/internal/logger"
	"github.com/bogdanSgithub/autovitals-backend/internal/middleware"
	"github.com/bogdanSgithub/autovitals-backend/internal/session"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc      *Service
	sessions session.Store
	cookies  session.CookieOptions
}

func NewHandler(svc *Service, sessions session.Store, cookies session.CookieOptions) *Handler {
	return &Handler{
		svc:      svc,
		sessions: sessions,
		cookies:  cookies,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter, gate *middleware.Gate) {
	self := gate.Require(middleware.Self(middleware.BodyField("username")))
	selfPath := gate.Require(middleware.Self(middleware.PathParam("username")))
	admin := gate.Require(middleware.Admin(middleware.PathParam("username")))

	r.POST("/profiles", self, h.create)
	r.POST("/profiles/emailReminder", self, h.remind)
	r.GET("/profile/:username", selfPath, h.get)
	r.GET("/profiles/all/:username", admin, h.list)
	r.PUT("/profiles/:username", admin, h.update)
	r.DELETE("/profiles", self, h.deleteOwn)
	r.DELETE("/profiles/admin/:username", admin, h.deleteAsAdmin)
}

func (h *Handler) create(c *gin.Context) {
	var p Profile
	if !httpx.Bind(c, &p) {
		return
	}
	created, err := h.svc.Create(c.Request.Context(), p)
	if err != nil {
		httpx.Fail(c, "create profile", err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		httpx.Fail(c, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) list(c *gin.Context) {
	profiles, err := h.svc.List(c.Request.Context())
	if err != nil {
		httpx.Fail(c, "list profiles", err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// update edits the profile named in the body; the path names the acting admin.
func (h *Handler) update(c *gin.Context) {
	var p Profile
	if !httpx.Bind(c, &p) {
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), p)
	if err != nil {
		httpx.Fail(c, "update profile", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type deleteRequest struct {
	Username string `json:"username" binding:"required"`
}

func (h *Handler) deleteOwn(c *gin.Context) {
	var req deleteRequest
	if !httpx.Bind(c, &req) {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), req.Username); err != nil {
		httpx.Fail(c, "delete profile", err)
		return
	}

	h.revoke(c, req.Username)
	session.ClearCookie(c.Writer, h.cookies)
	c.JSON(http.StatusOK, gin.H{"deleted": req.Username})
}

func (h *Handler) deleteAsAdmin(c *gin.Context) {
	var req deleteRequest
	if !httpx.Bind(c, &req) {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), req.Username); err != nil {
		httpx.Fail(c, "delete profile", err)
		return
	}

	h.revoke(c, req.Username)
	if caller, ok := middleware.Identity(c); ok && strings.EqualFold(caller.Username, req.Username) {
		session.ClearCookie(c.Writer, h.cookies)
	}
	c.JSON(http.StatusOK, gin.H{"deleted": req.Username})
}

// revoke ends every live session of a deleted user. The account is already
// gone, so a failure here is logged rather than reported.
func (h *Handler) revoke(c *gin.Context, username string) {
	ctx := c.Request.Context()
	if caller, ok := middleware.Identity(c); ok && strings.EqualFold(caller.Username, username) {
		if err := h.sessions.Delete(ctx, caller.SessionID); err != nil {
			logger.Error("failed to revoke session", map[string]any{
				"username": username,
				"error":    err.Error(),
			})
		}
	}
	n, err := session.RevokeUser(ctx, h.sessions, username)
	if err != nil {
		logger.Error("failed to revoke sessions", map[string]any{
			"username": username,
			"error":    err.Error(),
		})
		return
	}
	logger.Info("sessions revoked", map[string]any{
		"username": username,
		"count":    n,
	})
}

type reminderRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Subject  string `json:"subject" binding:"required"`
	HTML     string `json:"html"`
}

func (h *Handler) remind(c *gin.Context) {
	var req reminderRequest
	if !httpx.Bind(c, &req) {
		return
	}
	err := h.svc.Remind(c.Request.Context(), req.Username, email.Message{
		To:      req.Email,
		Subject: req.Subject,
		HTML:    req.HTML,
	})
	if err != nil {
		httpx.Fail(c, "send reminder", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": req.Email})
}
