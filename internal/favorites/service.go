package favorites

import (
	"context"

	"github.com/placefinder/placefinder/internal/apperr"
	"github.com/placefinder/placefinder/internal/places"
)

type Service struct {
	repo    Repository
	catalog places.Repository
}

func NewService(repo Repository, catalog places.Repository) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// Add marks a catalog place as favourite for the user.
func (s *Service) Add(ctx context.Context, userID, placeID string) error {
	if placeID == "" {
		return apperr.MissingFields("Bad request: Field activity_id is required.")
	}
	if _, err := s.catalog.Get(ctx, placeID); err != nil {
		return err
	}
	return s.repo.Add(ctx, userID, placeID)
}

func (s *Service) Remove(ctx context.Context, userID, placeID string) error {
	if placeID == "" {
		return apperr.MissingFields("Bad request: Field activity_id is required.")
	}
	return s.repo.Remove(ctx, userID, placeID)
}

func (s *Service) List(ctx context.Context, userID string) ([]places.Place, error) {
	return s.repo.List(ctx, userID)
}
