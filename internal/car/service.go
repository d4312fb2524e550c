package car

import (
	"context"
	"fmt"
	"strings"

	"github.com/bogdanSgithub/autovitals-backend/internal/apperr"
	"github.com/bogdanSgithub/autovitals-backend/internal/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Accounts confirms a car's owner is a registered user.
type Accounts interface {
	Exists(ctx context.Context, username string) (bool, error)
}

// Dependents is notified when a car goes away so records hanging off it can
// follow.
type Dependents interface {
	DeleteForCar(ctx context.Context, carID string) error
}

type Service struct {
	repo       Repository
	accounts   Accounts
	dependents Dependents
}

func NewService(repo Repository, accounts Accounts, dependents Dependents) *Service {
	return &Service{repo: repo, accounts: accounts, dependents: dependents}
}

// ParseID turns a hex id from a URL or body into an ObjectID.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("car id %q: %w", hex, apperr.ErrInvalidInput)
	}
	return id, nil
}

func (s *Service) Add(ctx context.Context, c Car) (Car, error) {
	if err := s.validate(ctx, c); err != nil {
		return Car{}, err
	}
	id, err := s.repo.Insert(ctx, c)
	if err != nil {
		return Car{}, err
	}
	c.ID = id
	logger.Info("car added", map[string]any{
		"car_id": id.Hex(),
		"owner":  c.UserID,
	})
	return c, nil
}

func (s *Service) Get(ctx context.Context, id, owner string) (*Car, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindOwned(ctx, oid, owner)
}

func (s *Service) List(ctx context.Context, owner string) ([]Car, error) {
	return s.repo.ListByOwner(ctx, owner)
}

// Update applies c to the car with c.ID if it belongs to c.UserID.
func (s *Service) Update(ctx context.Context, c Car) (Car, error) {
	if err := s.validate(ctx, c); err != nil {
		return Car{}, err
	}
	if err := s.repo.UpdateOwned(ctx, c); err != nil {
		return Car{}, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id, owner string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteOwned(ctx, oid, owner); err != nil {
		return err
	}
	if s.dependents != nil {
		if err := s.dependents.DeleteForCar(ctx, oid.Hex()); err != nil {
			logger.Error("failed to delete records of removed car", map[string]any{
				"car_id": oid.Hex(),
				"error":  err.Error(),
			})
		}
	}
	logger.Info("car deleted", map[string]any{
		"car_id": oid.Hex(),
		"owner":  owner,
	})
	return nil
}

// OwnedBy checks that car id exists and belongs to owner, and returns the
// id in the lower-case hex form records are keyed by.
func (s *Service) OwnedBy(ctx context.Context, id, owner string) (string, error) {
	c, err := s.Get(ctx, id, owner)
	if err != nil {
		return "", err
	}
	return c.ID.Hex(), nil
}

func (s *Service) validate(ctx context.Context, c Car) error {
	switch {
	case strings.TrimSpace(c.Model) == "":
		return fmt.Errorf("model cannot be empty: %w", apperr.ErrInvalidInput)
	case c.Year < MinYear:
		return fmt.Errorf("year %d before %d: %w", c.Year, MinYear, apperr.ErrInvalidInput)
	case c.Mileage < 0:
		return fmt.Errorf("mileage cannot be negative: %w", apperr.ErrInvalidInput)
	}

	exists, err := s.accounts.Exists(ctx, c.UserID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("user %s does not exist: %w", c.UserID, apperr.ErrInvalidInput)
	}
	return nil
}

// CarIDs lists the hex ids of owner's cars.
func (s *Service) CarIDs(ctx context.Context, owner string) ([]string, error) {
	cars, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(cars))
	for _, c := range cars {
		ids = append(ids, c.ID.Hex())
	}
	return ids, nil
}
