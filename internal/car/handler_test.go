package car

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bogdanSgithub/autovitals-backend/internal/middleware"
	"github.com/bogdanSgithub/autovitals-backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handlerFixture struct {
	svc    *Service
	store  *session.MemoryStore
	router *gin.Engine
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _, _ := newTestService()
	store := session.NewMemoryStore()

	router := gin.New()
	NewHandler(svc).RegisterRoutes(router, middleware.NewGate(store, nil))
	return &handlerFixture{svc: svc, store: store, router: router}
}

func (f *handlerFixture) login(t *testing.T, username string) string {
	t.Helper()
	s, err := session.Start(context.Background(), f.store, username, time.Minute, time.Now())
	require.NoError(t, err)
	return s.SessionID
}

func (f *handlerFixture) do(method, path, body, sid string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sid})
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

const civicJSON = `{"model":"Honda Civic","year":2015,"mileage":120000,"dateBought":"2019-06-01T00:00:00Z","url":"https://example.com/civic.jpg","userID":"%s"%s}`

func TestHandlerCarLifecycle(t *testing.T) {
	f := newHandlerFixture(t)
	alice := f.login(t, "alice")
	bob := f.login(t, "bob")

	rec := f.do(http.MethodPost, "/cars", fmt.Sprintf(civicJSON, "alice", ""), alice)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created Car
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created.ID.Hex()

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/cars/"+id, "", alice).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/cars/"+id, "", bob).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/cars/"+id, "", "").Code)

	rec = f.do(http.MethodGet, "/cars/all/alice", "", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	var cars []Car
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cars))
	assert.Len(t, cars, 1)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/cars/all/alice", "", bob).Code)

	update := fmt.Sprintf(civicJSON, "alice", fmt.Sprintf(`,"id":"%s"`, id))
	update = strings.Replace(update, "120000", "125000", 1)
	require.Equal(t, http.StatusOK, f.do(http.MethodPut, "/cars", update, alice).Code)
	got, err := f.svc.Get(context.Background(), id, "alice")
	require.NoError(t, err)
	assert.Equal(t, 125000, got.Mileage)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPut, "/cars", update, bob).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, "/cars/"+id, "", bob).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodDelete, "/cars/"+id, "", alice).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/cars/"+id, "", alice).Code)
}

func TestHandlerAddRejectsOtherOwner(t *testing.T) {
	f := newHandlerFixture(t)
	alice := f.login(t, "alice")

	rec := f.do(http.MethodPost, "/cars", fmt.Sprintf(civicJSON, "bob", ""), alice)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerAddValidation(t *testing.T) {
	f := newHandlerFixture(t)
	alice := f.login(t, "alice")

	body := strings.Replace(fmt.Sprintf(civicJSON, "alice", ""), "2015", "1985", 1)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/cars", body, alice).Code)

	body = strings.Replace(fmt.Sprintf(civicJSON, "alice", ""), "120000", "-5", 1)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/cars", body, alice).Code)
}

func TestHandlerBadID(t *testing.T) {
	f := newHandlerFixture(t)
	alice := f.login(t, "alice")

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/cars/xyz", "", alice).Code)
	body := fmt.Sprintf(civicJSON, "alice", `,"id":"xyz"`)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPut, "/cars", body, alice).Code)
}
