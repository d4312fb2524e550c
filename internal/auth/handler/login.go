package handler

import (
	"net/http"

	"github.com/bogdanSgithub/autovitals-backend/internal/logger"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login answers 401 for missing fields and bad credentials alike, and 500
// when the credential check itself fails. No session exists unless it
// answers 200.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	username, ok, err := h.credentials.CheckCredentials(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logger.Error("credential check failed", map[string]any{
			"username": req.Username,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	if !ok {
		logger.Warn("unsuccessful login", map[string]any{
			"username": req.Username,
			"ip":       c.ClientIP(),
		})
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if _, err := h.issueSession(c, username, h.opts.LoginTTL); err != nil {
		logger.Error("failed to create session", map[string]any{
			"username": username,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	logger.Info("login succeeded", map[string]any{
		"username": username,
		"ip":       c.ClientIP(),
	})
	c.JSON(http.StatusOK, gin.H{"username": username})
}
