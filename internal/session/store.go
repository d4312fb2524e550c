package session

import (
	"context"
	"time"
)

// Session represents an authenticated user session.
// It intentionally stores only identity pointers, not auth state.
type Session struct {
	SessionID string    // unique session identifier
	Username  string    // owner of the session
	CreatedAt time.Time // issuance time
	ExpiresAt time.Time // absolute expiry time
}

// ExpiredAt reports whether the session is no longer valid at now.
// A session is valid strictly before ExpiresAt and expired from that instant on.
func (s Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s Session) IsExpired() bool {
	return s.ExpiredAt(time.Now())
}

// Store defines how sessions are stored and retrieved.
// Get does not check expiry; callers decide what an expired hit means.
// Delete must be idempotent.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
