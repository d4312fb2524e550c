package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bogdanSgithub/autovitals-backend/internal/apperr"
	"github.com/bogdanSgithub/autovitals-backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAdmins struct {
	admins map[string]bool
	err    error
	calls  int
}

func (f *fakeAdmins) IsAdmin(_ context.Context, username string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	isAdmin, ok := f.admins[username]
	if !ok {
		return false, fmt.Errorf("profile %s: %w", username, apperr.ErrNotFound)
	}
	return isAdmin, nil
}

type gateFixture struct {
	store  *session.MemoryStore
	admins *fakeAdmins
	gate   *Gate
	now    time.Time
	router *gin.Engine
	hits   int
}

func newGateFixture(t *testing.T, opts ...GateOption) *gateFixture {
	t.Helper()
	f := &gateFixture{
		store:  session.NewMemoryStore(),
		admins: &fakeAdmins{admins: map[string]bool{"root": true, "alice": false}},
		now:    time.Now(),
	}
	opts = append([]GateOption{WithClock(func() time.Time { return f.now })}, opts...)
	f.gate = NewGate(f.store, f.admins, opts...)

	ok := func(c *gin.Context) {
		f.hits++
		id, _ := Identity(c)
		c.JSON(http.StatusOK, gin.H{"username": id.Username, "admin": id.IsAdmin})
	}

	f.router = gin.New()
	f.router.GET("/whoami", f.gate.Require(Authenticated()), ok)
	f.router.GET("/profile/:username", f.gate.Require(Self(PathParam("username"))), ok)
	f.router.POST("/profiles", f.gate.Require(Self(BodyField("username"))), ok)
	f.router.PUT("/profiles/:username", f.gate.Require(Self(Target{Param: "username", Body: "username"})), ok)
	f.router.GET("/profiles/all/:username", f.gate.Require(Admin(PathParam("username"))), ok)
	return f
}

func (f *gateFixture) login(t *testing.T, username string, ttl time.Duration) session.Session {
	t.Helper()
	s, err := session.Start(context.Background(), f.store, username, ttl, f.now)
	require.NoError(t, err)
	return s
}

func (f *gateFixture) do(method, path, body, sid string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sid})
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticatedPolicy(t *testing.T) {
	f := newGateFixture(t)
	s := f.login(t, "alice", time.Minute)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/whoami", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/whoami", "", "unknown-id").Code)

	rec := f.do(http.MethodGet, "/whoami", "", s.SessionID)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.Equal(t, 1, f.hits)
}

func TestExpiredSessionIsPurged(t *testing.T) {
	f := newGateFixture(t)
	s := f.login(t, "alice", time.Minute)

	f.now = f.now.Add(61 * time.Second)
	rec := f.do(http.MethodGet, "/whoami", "", s.SessionID)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	got, err := f.store.Get(context.Background(), s.SessionID)
	require.NoError(t, err)
	assert.Nil(t, got, "expired session must be removed on access")
	assert.Zero(t, f.hits)
}

func TestSessionValidUntilExpiryInstant(t *testing.T) {
	f := newGateFixture(t)
	s := f.login(t, "alice", time.Minute)

	f.now = s.ExpiresAt.Add(-time.Millisecond)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/whoami", "", s.SessionID).Code)

	f.now = s.ExpiresAt
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/whoami", "", s.SessionID).Code)
}

func TestSelfPolicyPathParam(t *testing.T) {
	f := newGateFixture(t)
	s := f.login(t, "alice", time.Minute)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/profile/bob", "", s.SessionID).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/profile/alice", "", s.SessionID).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/profile/alice", "", "").Code)
}

func TestSelfPolicyBodyField(t *testing.T) {
	f := newGateFixture(t)
	s := f.login(t, "alice", time.Minute)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/profiles", `{"username":"bob"}`, s.SessionID).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/profiles", `not json`, s.SessionID).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/profiles", `{"username":42}`, s.SessionID).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/profiles", `{"username":"alice"}`, s.SessionID).Code)
}

func TestSelfPolicyEitherSourceMatches(t *testing.T) {
	f := newGateFixture(t)
	s := f.login(t, "alice", time.Minute)

	// inherited behaviour: one matching source is enough
	assert.Equal(t, http.StatusOK, f.do(http.MethodPut, "/profiles/alice", `{"username":"bob"}`, s.SessionID).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodPut, "/profiles/bob", `{"username":"alice"}`, s.SessionID).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPut, "/profiles/bob", `{"username":"bob"}`, s.SessionID).Code)
}

func TestAdminPolicy(t *testing.T) {
	f := newGateFixture(t)
	alice := f.login(t, "alice", time.Minute)
	root := f.login(t, "root", time.Minute)
	ghost := f.login(t, "ghost", time.Minute)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/profiles/all/alice", "", alice.SessionID).Code, "non-admin")
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/profiles/all/ghost", "", ghost.SessionID).Code, "no profile")
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/profiles/all/alice", "", root.SessionID).Code, "admin acting as someone else")

	rec := f.do(http.MethodGet, "/profiles/all/root", "", root.SessionID)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"admin":true`)
}

func TestAdminPolicySkipsLookupOnMismatch(t *testing.T) {
	f := newGateFixture(t)
	root := f.login(t, "root", time.Minute)

	f.do(http.MethodGet, "/profiles/all/alice", "", root.SessionID)
	assert.Zero(t, f.admins.calls)
}

func TestAdminLookupFailureIsServerError(t *testing.T) {
	f := newGateFixture(t)
	root := f.login(t, "root", time.Minute)
	f.admins.err = errors.New("connection refused")

	rec := f.do(http.MethodGet, "/profiles/all/root", "", root.SessionID)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, f.hits)
}

type failingStore struct{ session.Store }

func (failingStore) Get(context.Context, string) (*session.Session, error) {
	return nil, errors.New("backend down")
}

func TestStoreFailureIsNotDenial(t *testing.T) {
	gate := NewGate(failingStore{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "sid"})

	_, err := gate.Resolve(req)
	require.Error(t, err)
	assert.False(t, IsDenied(err))
}

func TestBodyStillBindableAfterGate(t *testing.T) {
	f := newGateFixture(t)
	s := f.login(t, "alice", time.Minute)

	var seen string
	f.router.POST("/echo", f.gate.Require(Self(BodyField("username"))), func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
			Email    string `json:"email"`
		}
		require.NoError(t, c.ShouldBindBodyWith(&req, binding.JSON))
		seen = req.Email
		c.Status(http.StatusOK)
	})

	rec := f.do(http.MethodPost, "/echo", `{"username":"alice","email":"a@example.com"}`, s.SessionID)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@example.com", seen)
}

func TestIdentityReachesRequestContext(t *testing.T) {
	f := newGateFixture(t)
	s := f.login(t, "alice", time.Minute)

	var fromCtx string
	f.router.GET("/ctx", f.gate.Require(Authenticated()), func(c *gin.Context) {
		id, ok := IdentityFromContext(c.Request.Context())
		require.True(t, ok)
		fromCtx = id.Username
		c.Status(http.StatusOK)
	})

	f.do(http.MethodGet, "/ctx", "", s.SessionID)
	assert.Equal(t, "alice", fromCtx)
}

func TestUnknownPolicyDenies(t *testing.T) {
	f := newGateFixture(t)
	s := f.login(t, "alice", time.Minute)
	f.router.GET("/odd", f.gate.Require(Rule{Policy: Policy(99)}), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/odd", "", s.SessionID).Code)
	assert.Equal(t, "policy(99)", Policy(99).String())
}
