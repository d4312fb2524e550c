package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bogdanSgithub/autovitals-backend/internal/auth"
	"github.com/bogdanSgithub/autovitals-backend/internal/logger"
	"github.com/bogdanSgithub/autovitals-backend/internal/session"
)

var (
	// ErrUnauthenticated covers a missing cookie, an unknown id and an
	// expired session alike.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrWrongIdentity means a live session tried to act on someone else.
	ErrWrongIdentity = errors.New("session does not match target user")
	// ErrNotAdmin means the caller's profile lacks the admin flag.
	ErrNotAdmin = errors.New("admin privileges required")
)

// IsDenied reports whether err is an authorization outcome rather than a
// failure of a collaborator.
func IsDenied(err error) bool {
	return errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrWrongIdentity) ||
		errors.Is(err, ErrNotAdmin)
}

// unexported, collision-proof context key
type identityContextKeyType struct{}

var identityKey = identityContextKeyType{}

// IdentityFromContext extracts the authenticated identity from context.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

func withIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// AdminChecker answers whether a user holds the admin flag. A missing
// profile is reported as an error wrapping apperr.ErrNotFound.
type AdminChecker interface {
	IsAdmin(ctx context.Context, username string) (bool, error)
}

// Gate turns a request's session cookie into an identity and applies the
// route's policy to it.
type Gate struct {
	Store  session.Store
	Admins AdminChecker

	now func() time.Time
}

type GateOption func(*Gate)

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) { g.now = now }
}

func NewGate(store session.Store, admins AdminChecker, opts ...GateOption) *Gate {
	g := &Gate{
		Store:  store,
		Admins: admins,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Resolve performs the base lookup shared by every policy.
func (g *Gate) Resolve(r *http.Request) (auth.Identity, error) {
	// 1. Read session cookie
	sessionID := session.FromRequest(r)
	if sessionID == "" {
		return auth.Identity{}, ErrUnauthenticated
	}

	// 2. Load session
	sess, err := g.Store.Get(r.Context(), sessionID)
	if err != nil {
		return auth.Identity{}, fmt.Errorf("session lookup: %w", err)
	}
	if sess == nil {
		return auth.Identity{}, ErrUnauthenticated
	}

	// 3. Expired sessions are purged on sight
	if sess.ExpiredAt(g.now()) {
		if err := g.Store.Delete(r.Context(), sessionID); err != nil {
			logger.Error("failed to purge expired session", map[string]any{
				"error": err.Error(),
			})
		}
		logger.Debug("expired session rejected", map[string]any{
			"username": sess.Username,
		})
		return auth.Identity{}, ErrUnauthenticated
	}

	return auth.Identity{
		SessionID: sessionID,
		Username:  sess.Username,
	}, nil
}
