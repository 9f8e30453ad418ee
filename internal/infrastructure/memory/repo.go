package memory

import (
	"context"
	"sync"

	"github.com/baechuer/real-time-ressys/services/location-service/internal/domain"
)

type cityKey struct {
	stateID int64
	value   string
}

// Repo keeps states and cities in process memory. A single lock serializes
// the uniqueness check and the insert, so concurrent creates cannot both win.
type Repo struct {
	mu sync.RWMutex

	nextStateID int64
	nextCityID  int64

	states      map[int64]domain.State
	stateByName map[string]int64
	stateBySlug map[string]int64
	cities      []domain.City // insertion order
	cityByName  map[cityKey]int
	cityBySlug  map[cityKey]int
}

func NewRepo() *Repo {
	return &Repo{
		states:      make(map[int64]domain.State),
		stateByName: make(map[string]int64),
		stateBySlug: make(map[string]int64),
		cityByName:  make(map[cityKey]int),
		cityBySlug:  make(map[cityKey]int),
	}
}

func (r *Repo) CreateState(ctx context.Context, s *domain.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stateByName[s.Name]; ok {
		return domain.ErrConflict("duplicate state", map[string]string{"name": "state with this name already exists"})
	}
	if _, ok := r.stateBySlug[s.Slug]; ok {
		return domain.ErrConflict("duplicate state", map[string]string{"name": "state with this slug already exists"})
	}

	r.nextStateID++
	s.ID = r.nextStateID
	r.states[s.ID] = *s
	r.stateByName[s.Name] = s.ID
	r.stateBySlug[s.Slug] = s.ID
	return nil
}

func (r *Repo) GetStateBySlug(ctx context.Context, slug string) (*domain.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.stateBySlug[slug]
	if !ok {
		return nil, domain.ErrNotFound("state not found")
	}
	s := r.states[id]
	return &s, nil
}

func (r *Repo) ListCitiesByStateSlug(ctx context.Context, stateSlug string) ([]*domain.City, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.stateBySlug[stateSlug]
	if !ok {
		return nil, nil
	}

	var out []*domain.City
	for i := range r.cities {
		if r.cities[i].StateID == id {
			c := r.cities[i]
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *Repo) GetCityBySlugs(ctx context.Context, stateSlug, citySlug string) (*domain.City, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.stateBySlug[stateSlug]
	if !ok {
		return nil, domain.ErrNotFound("city not found")
	}
	idx, ok := r.cityBySlug[cityKey{stateID: id, value: citySlug}]
	if !ok {
		return nil, domain.ErrNotFound("city not found")
	}
	c := r.cities[idx]
	return &c, nil
}

func (r *Repo) CreateCity(ctx context.Context, c *domain.City) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.states[c.StateID]
	if !ok {
		return domain.ErrNotFound("state not found")
	}
	if _, dup := r.cityByName[cityKey{stateID: c.StateID, value: c.Name}]; dup {
		return domain.ErrConflict("duplicate city", map[string]string{"name": "city with this name already exists in state"})
	}
	if _, dup := r.cityBySlug[cityKey{stateID: c.StateID, value: c.Slug}]; dup {
		return domain.ErrConflict("duplicate city", map[string]string{"name": "city with this slug already exists in state"})
	}

	r.nextCityID++
	c.ID = r.nextCityID
	c.StateSlug = state.Slug

	r.cities = append(r.cities, *c)
	idx := len(r.cities) - 1
	r.cityByName[cityKey{stateID: c.StateID, value: c.Name}] = idx
	r.cityBySlug[cityKey{stateID: c.StateID, value: c.Slug}] = idx
	return nil
}

// DeleteState removes a state and, like the ON DELETE CASCADE foreign key, all of its cities.
func (r *Repo) DeleteState(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.states[id]
	if !ok {
		return domain.ErrNotFound("state not found")
	}
	delete(r.states, id)
	delete(r.stateByName, s.Name)
	delete(r.stateBySlug, s.Slug)

	kept := r.cities[:0]
	for _, c := range r.cities {
		if c.StateID != id {
			kept = append(kept, c)
		}
	}
	r.cities = kept

	// indexes point into the slice; rebuild them after compaction
	r.cityByName = make(map[cityKey]int, len(r.cities))
	r.cityBySlug = make(map[cityKey]int, len(r.cities))
	for i, c := range r.cities {
		r.cityByName[cityKey{stateID: c.StateID, value: c.Name}] = i
		r.cityBySlug[cityKey{stateID: c.StateID, value: c.Slug}] = i
	}
	return nil
}

func (r *Repo) Ping(ctx context.Context) error { return nil }
