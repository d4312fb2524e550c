package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/bogdanSgithub/autovitals-backend/internal/logger"
	"github.com/bogdanSgithub/autovitals-backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastAccessLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var line map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var m map[string]any
		if json.Unmarshal([]byte(raw), &m) == nil && m["message"] == "request completed" {
			line = m
		}
	}
	require.NotNil(t, line, "no access line in %q", buf.String())
	return line
}

func TestAccessLogRecordsCaller(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stdout) })

	store := session.NewMemoryStore()
	gate := NewGate(store, nil)
	s, err := session.Start(context.Background(), store, "alice", time.Minute, time.Now())
	require.NoError(t, err)

	router := gin.New()
	router.Use(AccessLog())
	router.GET("/open", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/gated", gate.Require(Authenticated()), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: s.SessionID})
	router.ServeHTTP(httptest.NewRecorder(), req)

	line := lastAccessLine(t, &buf)
	assert.Equal(t, "alice", line["username"])
	assert.Equal(t, "/gated", line["path"])
	assert.EqualValues(t, http.StatusOK, line["status"])

	buf.Reset()
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/open", nil))
	line = lastAccessLine(t, &buf)
	assert.NotContains(t, line, "username")
}
