package notes

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

// Save writes the note for a catalog place, replacing any earlier text.
func (s *Service) Save(ctx context.Context, userID, placeID, text string) error {
	if placeID == "" || text == "" {
		return apperr.MissingFields("Bad request: All fields are required.")
	}
	if _, err := s.catalog.Get(ctx, placeID); err != nil {
		return err
	}
	return s.repo.Upsert(ctx, userID, placeID, text)
}

func (s *Service) Delete(ctx context.Context, userID, placeID string) error {
	if placeID == "" {
		return apperr.MissingFields("Bad request: Field activity_id is required.")
	}
	return s.repo.Delete(ctx, userID, placeID)
}

func (s *Service) Get(ctx context.Context, userID, placeID string) (Note, error) {
	if placeID == "" {
		return Note{}, apperr.MissingFields("Bad request: Field activity_id is required.")
	}
	return s.repo.Get(ctx, userID, placeID)
}
