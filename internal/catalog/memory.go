package catalog

import (
	"context"

	"github.com/placefinder/placefinder/internal/places"
)

// MemorySource serves a fixed upstream catalog.
type MemorySource struct {
	places []places.Place
}

func NewMemorySource(ps ...places.Place) *MemorySource {
	return &MemorySource{places: ps}
}

func (s *MemorySource) Upstream(_ context.Context) ([]places.Place, error) {
	return append([]places.Place(nil), s.places...), nil
}

// Submitted lists user-submitted places.
type Submitted interface {
	All(ctx context.Context) ([]places.Place, error)
}

// MemoryStore rebuilds an in-memory catalog.
type MemoryStore struct {
	catalog   *places.MemoryRepository
	submitted Submitted
}

func NewMemoryStore(catalog *places.MemoryRepository, submitted Submitted) *MemoryStore {
	return &MemoryStore{catalog: catalog, submitted: submitted}
}

func (s *MemoryStore) Rebuild(ctx context.Context, upstream []places.Place) (int, error) {
	mine, err := s.submitted.All(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(upstream)+len(mine))
	next := make([]places.Place, 0, len(upstream)+len(mine))
	for _, batch := range [][]places.Place{upstream, mine} {
		for _, p := range batch {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			next = append(next, p)
		}
	}
	s.catalog.Replace(next)
	return len(next), nil
}
