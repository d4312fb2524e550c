package maintenance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bogdanSgithub/autovitals-backend/internal/apperr"
)

type memRepo struct {
	mu      sync.Mutex
	records map[[2]string]Record
}

func newMemRepo() *memRepo {
	return &memRepo{records: map[[2]string]Record{}}
}

func (m *memRepo) Insert(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := [2]string{r.CarID, r.CarPart}
	if _, ok := m.records[k]; ok {
		return fmt.Errorf("record %s/%s: %w", r.CarID, r.CarPart, apperr.ErrConflict)
	}
	m.records[k] = r
	return nil
}

func (m *memRepo) Find(_ context.Context, carID, part string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[[2]string{carID, part}]
	if !ok {
		return nil, fmt.Errorf("record %s/%s: %w", carID, part, apperr.ErrNotFound)
	}
	return &r, nil
}

func (m *memRepo) ListByCars(_ context.Context, carIDs ...string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := map[string]bool{}
	for _, id := range carIDs {
		want[id] = true
	}
	out := []Record{}
	for _, r := range m.records {
		if want[r.CarID] {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastChanged.After(out[j].LastChanged) })
	return out, nil
}

func (m *memRepo) Update(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := [2]string{r.CarID, r.CarPart}
	if _, ok := m.records[k]; !ok {
		return fmt.Errorf("record %s/%s: %w", r.CarID, r.CarPart, apperr.ErrNotFound)
	}
	m.records[k] = r
	return nil
}

func (m *memRepo) Delete(_ context.Context, carID, part string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := [2]string{carID, part}
	if _, ok := m.records[k]; !ok {
		return fmt.Errorf("record %s/%s: %w", carID, part, apperr.ErrNotFound)
	}
	delete(m.records, k)
	return nil
}

func (m *memRepo) DeleteForCar(_ context.Context, carID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.records {
		if k[0] == carID {
			delete(m.records, k)
		}
	}
	return nil
}

// garage maps lower-case car ids to owners. Lookups ignore case like hex
// object ids do.
type garage map[string]string

func (g garage) OwnedBy(_ context.Context, carID, owner string) (string, error) {
	id := strings.ToLower(carID)
	if o, ok := g[id]; !ok || o != owner {
		return "", fmt.Errorf("car %s: %w", carID, apperr.ErrNotFound)
	}
	return id, nil
}

func (g garage) CarIDs(_ context.Context, owner string) ([]string, error) {
	var ids []string
	for id, o := range g {
		if o == owner {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
