package places

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/placefinder/placefinder/internal/apperr"
)

// DefaultRadiusKM is the proximity radius used when none is configured.
const DefaultRadiusKM = 2.0

// Service answers catalog queries.
type Service struct {
	repo     Repository
	radiusKM float64
	logger   *slog.Logger
}

func NewService(repo Repository, radiusKM float64, logger *slog.Logger) *Service {
	if radiusKM <= 0 {
		radiusKM = DefaultRadiusKM
	}
	return &Service{repo: repo, radiusKM: radiusKM, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Place, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Place, error) {
	if id == "" {
		return Place{}, apperr.MissingFields("Bad request: Field id is required.")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ByCategory(ctx context.Context, category string) ([]Place, error) {
	if category == "" {
		return nil, apperr.MissingFields("Bad request: Field category is required.")
	}
	return s.repo.ListByCategory(ctx, category)
}

// Nearby returns places within the configured radius of gps, nearest first.
// Catalog rows with unreadable coordinates are skipped.
func (s *Service) Nearby(ctx context.Context, gps string) ([]Place, error) {
	if gps == "" {
		return nil, apperr.MissingFields("Bad request: Field gps is required.")
	}
	origin, err := ParseGPS(gps)
	if err != nil {
		return nil, apperr.New(apperr.CodeBadRequest, "Bad request: Invalid gps coordinates.")
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	type hit struct {
		place Place
		km    float64
	}
	var hits []hit
	for _, p := range all {
		at, err := ParseGPS(p.GPS)
		if err != nil {
			if s.logger != nil {
				s.logger.WarnContext(ctx, "place has unreadable gps", "place_id", p.ID, "gps", p.GPS)
			}
			continue
		}
		if km := Haversine(origin, at); km <= s.radiusKM {
			hits = append(hits, hit{place: p, km: km})
		}
	}
	slices.SortStableFunc(hits, func(a, b hit) int { return cmp.Compare(a.km, b.km) })

	out := make([]Place, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.place)
	}
	return out, nil
}
