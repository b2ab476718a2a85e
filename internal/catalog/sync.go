// Package catalog rebuilds the main places table from the upstream catalog
// and user-submitted places, on demand or on a cron schedule.
package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/placefinder/placefinder/internal/places"
)

// Source yields the upstream catalog.
type Source interface {
	Upstream(ctx context.Context) ([]places.Place, error)
}

// Store replaces the main catalog with upstream plus every submitted place
// and reports how many rows it now holds.
type Store interface {
	Rebuild(ctx context.Context, upstream []places.Place) (int, error)
}

// Syncer runs one rebuild at a time.
type Syncer struct {
	source Source
	store  Store
	logger *slog.Logger

	mu sync.Mutex
}

func NewSyncer(source Source, store Store, logger *slog.Logger) *Syncer {
	return &Syncer{source: source, store: store, logger: logger}
}

// Run performs a full sync. Concurrent callers wait their turn.
func (s *Syncer) Run(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now()
	upstream, err := s.source.Upstream(ctx)
	if err != nil {
		return 0, err
	}
	n, err := s.store.Rebuild(ctx, upstream)
	if err != nil {
		return 0, err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "catalog synced",
			"upstream", len(upstream),
			"places", n,
			"duration_ms", time.Since(started).Milliseconds(),
		)
	}
	return n, nil
}
