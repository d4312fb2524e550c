package car

import (
	"context"
	"fmt"
	"sync"

	"github.com/bogdanSgithub/autovitals-backend/internal/apperr"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memRepo struct {
	mu   sync.Mutex
	cars map[primitive.ObjectID]Car
}

func newMemRepo() *memRepo {
	return &memRepo{cars: map[primitive.ObjectID]Car{}}
}

func (r *memRepo) Insert(_ context.Context, c Car) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = primitive.NewObjectID()
	r.cars[c.ID] = c
	return c.ID, nil
}

func (r *memRepo) FindOwned(_ context.Context, id primitive.ObjectID, owner string) (*Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cars[id]
	if !ok || c.UserID != owner {
		return nil, fmt.Errorf("car %s: %w", id.Hex(), apperr.ErrNotFound)
	}
	return &c, nil
}

func (r *memRepo) ListByOwner(_ context.Context, owner string) ([]Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Car{}
	for _, c := range r.cars {
		if c.UserID == owner {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memRepo) UpdateOwned(_ context.Context, c Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.cars[c.ID]
	if !ok || old.UserID != c.UserID {
		return fmt.Errorf("car %s: %w", c.ID.Hex(), apperr.ErrNotFound)
	}
	r.cars[c.ID] = c
	return nil
}

func (r *memRepo) DeleteOwned(_ context.Context, id primitive.ObjectID, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cars[id]
	if !ok || c.UserID != owner {
		return fmt.Errorf("car %s: %w", id.Hex(), apperr.ErrNotFound)
	}
	delete(r.cars, id)
	return nil
}

type staticAccounts map[string]bool

func (a staticAccounts) Exists(_ context.Context, username string) (bool, error) {
	return a[username], nil
}

type recordingDependents struct {
	deleted []string
}

func (d *recordingDependents) DeleteForCar(_ context.Context, carID string) error {
	d.deleted = append(d.deleted, carID)
	return nil
}
