package profile

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bogdanSgithub/autovitals-backend/internal/apperr"
	"github.com/bogdanSgithub/autovitals-backend/internal/email"
)

type memRepo struct {
	mu       sync.Mutex
	profiles map[string]Profile
	err      error
}

func newMemRepo() *memRepo {
	return &memRepo{profiles: map[string]Profile{}}
}

func key(username string) string { return strings.ToLower(username) }

func (r *memRepo) Insert(_ context.Context, p Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.profiles[key(p.Username)]; ok {
		return fmt.Errorf("profile %s: %w", p.Username, apperr.ErrConflict)
	}
	r.profiles[key(p.Username)] = p
	return nil
}

func (r *memRepo) Find(_ context.Context, username string) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.profiles[key(username)]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", username, apperr.ErrNotFound)
	}
	return &p, nil
}

func (r *memRepo) FindAll(context.Context) ([]Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := []Profile{}
	for _, p := range r.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, p Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.profiles[key(p.Username)]
	if !ok {
		return fmt.Errorf("profile %s: %w", p.Username, apperr.ErrNotFound)
	}
	p.LastReminderSent = old.LastReminderSent
	r.profiles[key(p.Username)] = p
	return nil
}

func (r *memRepo) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[key(username)]; !ok {
		return fmt.Errorf("profile %s: %w", username, apperr.ErrNotFound)
	}
	delete(r.profiles, key(username))
	return nil
}

func (r *memRepo) MarkReminded(_ context.Context, username string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[key(username)]
	if !ok {
		return fmt.Errorf("profile %s: %w", username, apperr.ErrNotFound)
	}
	p.LastReminderSent = &at
	r.profiles[key(username)] = p
	return nil
}

type memAccounts struct {
	mu    sync.Mutex
	users map[string]bool
}

func newMemAccounts(names ...string) *memAccounts {
	a := &memAccounts{users: map[string]bool{}}
	for _, n := range names {
		a.users[key(n)] = true
	}
	return a
}

func (a *memAccounts) Exists(_ context.Context, username string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.users[key(username)], nil
}

func (a *memAccounts) Delete(_ context.Context, username string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.users[key(username)] {
		return fmt.Errorf("user %s: %w", username, apperr.ErrNotFound)
	}
	delete(a.users, key(username))
	return nil
}

type recordingSender struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}
