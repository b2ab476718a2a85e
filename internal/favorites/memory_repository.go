package favorites

import (
	"context"
	"sync"

	"github.com/placefinder/placefinder/internal/apperr"
	"github.com/placefinder/placefinder/internal/places"
)

type memoryRepository struct {
	mu      sync.Mutex
	catalog places.Repository
	byUser  map[string][]string
}

// NewMemoryRepository keeps favourites in memory and resolves them against
// catalog on List.
func NewMemoryRepository(catalog places.Repository) Repository {
	return &memoryRepository{catalog: catalog, byUser: make(map[string][]string)}
}

func (r *memoryRepository) Add(_ context.Context, userID, placeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.byUser[userID] {
		if id == placeID {
			return ErrAlreadyFavourite
		}
	}
	r.byUser[userID] = append(r.byUser[userID], placeID)
	return nil
}

func (r *memoryRepository) Remove(_ context.Context, userID, placeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.byUser[userID]
	for i, id := range ids {
		if id == placeID {
			r.byUser[userID] = append(ids[:i:i], ids[i+1:]...)
			return nil
		}
	}
	return ErrNotFavourite
}

func (r *memoryRepository) List(ctx context.Context, userID string) ([]places.Place, error) {
	r.mu.Lock()
	ids := append([]string(nil), r.byUser[userID]...)
	r.mu.Unlock()

	out := make([]places.Place, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		p, err := r.catalog.Get(ctx, ids[i])
		if err != nil {
			if apperr.Is(err, apperr.CodeNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
