package handler

import (
	"fmt"
	"net/http"

	"github.com/bogdanSgithub/autovitals-backend/internal/apperr"
	"github.com/bogdanSgithub/autovitals-backend/internal/httpx"
	"github.com/bogdanSgithub/autovitals-backend/internal/logger"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates the account and logs the new user in on the same path as
// Login, with the shorter registration lifetime.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, "register", fmt.Errorf("malformed body: %w", apperr.ErrInvalidInput))
		return
	}

	if err := h.accounts.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		httpx.Fail(c, "register", err)
		return
	}

	if _, err := h.issueSession(c, req.Username, h.opts.RegisterTTL); err != nil {
		logger.Error("failed to create session after registration", map[string]any{
			"username": req.Username,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	logger.Info("user registered", map[string]any{
		"username": req.Username,
	})
	c.JSON(http.StatusOK, gin.H{"username": req.Username})
}
