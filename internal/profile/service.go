package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bogdanSgithub/autovitals-backend/internal/apperr"
	"github.com/bogdanSgithub/autovitals-backend/internal/email"
	"github.com/bogdanSgithub/autovitals-backend/internal/logger"

	"github.com/gin-gonic/gin/binding"
)

// Accounts is the slice of the credential store profiles depend on.
type Accounts interface {
	Exists(ctx context.Context, username string) (bool, error)
	Delete(ctx context.Context, username string) error
}

type Service struct {
	repo     Repository
	accounts Accounts
	mail     email.Sender
	now      func() time.Time
}

func NewService(repo Repository, accounts Accounts, mail email.Sender) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		mail:     mail,
		now:      time.Now,
	}
}

// Create stores a new profile for an existing account. Admin rights cannot
// be self-granted here; they are set through Update.
func (s *Service) Create(ctx context.Context, p Profile) (Profile, error) {
	if err := s.validate(ctx, p); err != nil {
		return Profile{}, err
	}
	p.IsAdmin = false
	p.LastReminderSent = nil

	if err := s.repo.Insert(ctx, p); err != nil {
		return Profile{}, err
	}
	logger.Info("profile created", map[string]any{
		"username": p.Username,
	})
	return p, nil
}

func (s *Service) Get(ctx context.Context, username string) (*Profile, error) {
	return s.repo.Find(ctx, username)
}

func (s *Service) List(ctx context.Context) ([]Profile, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) Update(ctx context.Context, p Profile) (Profile, error) {
	if err := s.validate(ctx, p); err != nil {
		return Profile{}, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return Profile{}, err
	}
	logger.Info("profile updated", map[string]any{
		"username": p.Username,
		"is_admin": p.IsAdmin,
	})
	return p, nil
}

// Delete removes the profile and the account behind it.
func (s *Service) Delete(ctx context.Context, username string) error {
	if err := s.repo.Delete(ctx, username); err != nil {
		return err
	}

	err := s.accounts.Delete(ctx, username)
	if errors.Is(err, apperr.ErrNotFound) {
		logger.Warn("profile deleted without matching account", map[string]any{
			"username": username,
		})
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("profile and account deleted", map[string]any{
		"username": username,
	})
	return nil
}

// IsAdmin answers the admin policy. A missing profile surfaces as
// apperr.ErrNotFound.
func (s *Service) IsAdmin(ctx context.Context, username string) (bool, error) {
	p, err := s.repo.Find(ctx, username)
	if err != nil {
		return false, err
	}
	return p.IsAdmin, nil
}

// Remind mails msg on behalf of username and stamps the profile.
func (s *Service) Remind(ctx context.Context, username string, msg email.Message) error {
	if _, err := s.repo.Find(ctx, username); err != nil {
		return err
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return err
	}
	return s.repo.MarkReminded(ctx, username, s.now().UTC())
}

func (s *Service) validate(ctx context.Context, p Profile) error {
	if err := binding.Validator.ValidateStruct(p); err != nil {
		return fmt.Errorf("profile %s: %v: %w", p.Username, err, apperr.ErrInvalidInput)
	}

	exists, err := s.accounts.Exists(ctx, p.Username)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("no account named %s: %w", p.Username, apperr.ErrInvalidInput)
	}
	return nil
}
