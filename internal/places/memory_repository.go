package places

import (
	"context"
	"sort"
	"sync"

	"github.com/placefinder/placefinder/internal/apperr"
)

// MemoryRepository is an in-memory catalog for development and tests. It
// also accepts writes so publishing and sync can run without Postgres.
type MemoryRepository struct {
	mu     sync.RWMutex
	places map[string]Place
}

// NewMemoryRepository builds a catalog holding seed.
func NewMemoryRepository(seed ...Place) *MemoryRepository {
	r := &MemoryRepository{places: make(map[string]Place, len(seed))}
	for _, p := range seed {
		r.places[p.ID] = p
	}
	return r
}

func (r *MemoryRepository) List(_ context.Context) ([]Place, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(Place) bool { return true }), nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (Place, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.places[id]
	if !ok {
		return Place{}, ErrPlaceNotFound
	}
	return p, nil
}

func (r *MemoryRepository) ListByCategory(_ context.Context, category string) ([]Place, error) {
	if !IsCategory(category) {
		return nil, apperr.New(apperr.CodeBadRequest, "Bad request: Category does not exist.")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(p Place) bool { return p.InCategory(category) }), nil
}

// Put inserts or replaces a place.
func (r *MemoryRepository) Put(p Place) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.places[p.ID] = p
}

// Remove deletes a place if present.
func (r *MemoryRepository) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.places, id)
}

// Replace swaps the whole catalog.
func (r *MemoryRepository) Replace(ps []Place) {
	next := make(map[string]Place, len(ps))
	for _, p := range ps {
		next[p.ID] = p
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.places = next
}

// sorted must be called with the lock held.
func (r *MemoryRepository) sorted(keep func(Place) bool) []Place {
	var out []Place
	for _, p := range r.places {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out
}
