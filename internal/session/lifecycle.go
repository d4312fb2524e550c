package session

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Start issues a new session for username that lives for ttl from now.
// Login and registration both go through here.
func Start(ctx context.Context, store Store, username string, ttl time.Duration, now time.Time) (Session, error) {
	if ttl <= 0 {
		return Session{}, fmt.Errorf("session: ttl must be positive")
	}

	sessionID, err := GenerateID()
	if err != nil {
		return Session{}, err
	}

	s := Session{
		SessionID: sessionID,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := store.Create(ctx, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Renew replaces old with a fresh session for the same user. The new session
// is created first, then the old id is deleted, so the caller always ends up
// with a different id. If the old id cannot be deleted the new one is
// dropped again and neither is returned.
func Renew(ctx context.Context, store Store, old Session, ttl time.Duration, now time.Time) (Session, error) {
	next, err := Start(ctx, store, old.Username, ttl, now)
	if err != nil {
		return Session{}, err
	}
	if err := store.Delete(ctx, old.SessionID); err != nil {
		// the caller treats a failed renewal as a logout, so next must not
		// outlive it
		if cleanupErr := store.Delete(ctx, next.SessionID); cleanupErr != nil {
			err = errors.Join(err, cleanupErr)
		}
		return Session{}, fmt.Errorf("session: failed to drop renewed session: %w", err)
	}
	return next, nil
}

// userIndex is implemented by stores that can enumerate a user's sessions.
type userIndex interface {
	ForUser(username string) []Session
}

// RevokeUser deletes every session held by username and returns how many
// were removed. Stores without a per-user index revoke nothing.
func RevokeUser(ctx context.Context, store Store, username string) (int, error) {
	idx, ok := store.(userIndex)
	if !ok {
		return 0, nil
	}
	n := 0
	for _, s := range idx.ForUser(username) {
		if err := store.Delete(ctx, s.SessionID); err != nil {
			return n, fmt.Errorf("session: revoke %s: %w", username, err)
		}
		n++
	}
	return n, nil
}
