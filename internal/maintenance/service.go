package maintenance

import (
	"context"

	"github.com/bogdanSgithub/autovitals-backend/internal/logger"
)

// Garage answers which cars a user owns.
type Garage interface {
	// OwnedBy returns the canonical form of carID when owner has that car.
	OwnedBy(ctx context.Context, carID, owner string) (string, error)
	CarIDs(ctx context.Context, owner string) ([]string, error)
}

// Service exposes maintenance records to the owner of the car they belong
// to. Records of other users' cars read as missing.
type Service struct {
	repo   Repository
	garage Garage
}

func NewService(repo Repository, garage Garage) *Service {
	return &Service{repo: repo, garage: garage}
}

func (s *Service) Add(ctx context.Context, owner string, r Record) (Record, error) {
	id, err := s.garage.OwnedBy(ctx, r.CarID, owner)
	if err != nil {
		return Record{}, err
	}
	r.CarID = id
	if err := s.repo.Insert(ctx, r); err != nil {
		return Record{}, err
	}
	logger.Info("maintenance record added", map[string]any{
		"car_id": r.CarID,
		"part":   r.CarPart,
	})
	return r, nil
}

func (s *Service) Get(ctx context.Context, owner, carID, part string) (*Record, error) {
	id, err := s.garage.OwnedBy(ctx, carID, owner)
	if err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, id, part)
}

func (s *Service) ListForCar(ctx context.Context, owner, carID string) ([]Record, error) {
	id, err := s.garage.OwnedBy(ctx, carID, owner)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByCars(ctx, id)
}

// ListAll returns the records of every car owner has.
func (s *Service) ListAll(ctx context.Context, owner string) ([]Record, error) {
	ids, err := s.garage.CarIDs(ctx, owner)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByCars(ctx, ids...)
}

func (s *Service) Update(ctx context.Context, owner string, r Record) (Record, error) {
	id, err := s.garage.OwnedBy(ctx, r.CarID, owner)
	if err != nil {
		return Record{}, err
	}
	r.CarID = id
	if err := s.repo.Update(ctx, r); err != nil {
		return Record{}, err
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, owner, carID, part string) error {
	id, err := s.garage.OwnedBy(ctx, carID, owner)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, id, part)
}
