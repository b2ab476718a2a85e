package myplaces

import (
	"context"
	"sort"
	"sync"

	"github.com/placefinder/placefinder/internal/places"
)

type memoryRepository struct {
	mu      sync.RWMutex
	catalog *places.MemoryRepository
	items   map[string]MyPlace
}

// NewMemoryRepository keeps submitted places in memory and mirrors them into
// catalog.
func NewMemoryRepository(catalog *places.MemoryRepository) Repository {
	return &memoryRepository{catalog: catalog, items: make(map[string]MyPlace)}
}

func (r *memoryRepository) Create(_ context.Context, mp MyPlace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[mp.ID] = mp
	r.catalog.Put(mp.Place)
	return nil
}

func (r *memoryRepository) Update(_ context.Context, mp MyPlace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[mp.ID]; !ok {
		return ErrMyPlaceNotFound
	}
	r.items[mp.ID] = mp
	r.catalog.Put(mp.Place)
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrMyPlaceNotFound
	}
	delete(r.items, id)
	r.catalog.Remove(id)
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (MyPlace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mp, ok := r.items[id]
	if !ok {
		return MyPlace{}, ErrMyPlaceNotFound
	}
	return mp, nil
}

func (r *memoryRepository) ListByOwner(_ context.Context, ownerID string) ([]MyPlace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []MyPlace
	for _, mp := range r.items {
		if mp.OwnerID == ownerID {
			out = append(out, mp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepository) All(_ context.Context) ([]places.Place, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]places.Place, 0, len(r.items))
	for _, mp := range r.items {
		out = append(out, mp.Place)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
