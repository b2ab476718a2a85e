package myplaces

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/placefinder/placefinder/internal/apperr"
	"github.com/placefinder/placefinder/internal/media"
	"github.com/placefinder/placefinder/internal/notification"
	"github.com/placefinder/placefinder/internal/places"
)

// Presigner signs image upload URLs. *media.Presigner satisfies it.
type Presigner interface {
	PresignPut(ctx context.Context, key string) (string, error)
}

var (
	errNotOwner        = apperr.New(apperr.CodeForbidden, "Forbidden: Access forbidden.")
	errStorageDisabled = apperr.NotFound("Not Found: Image storage is not configured.")
)

type Service struct {
	repo      Repository
	presigner Presigner
	notifier  notification.Notifier
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the service. presigner and notifier may be nil.
func NewService(repo Repository, presigner Presigner, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, presigner: presigner, notifier: notifier, logger: logger, now: time.Now}
}

// Create stores a new place owned by ownerID and publishes it.
func (s *Service) Create(ctx context.Context, ownerID string, in places.Place) (MyPlace, error) {
	if err := checkPlace(in); err != nil {
		return MyPlace{}, err
	}
	in.ID = uuid.NewString()
	mp := MyPlace{Place: in, OwnerID: ownerID, CreatedAt: s.now().UTC()}
	if err := s.repo.Create(ctx, mp); err != nil {
		return MyPlace{}, err
	}

	if s.notifier != nil {
		if err := s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindPlacePublished,
			Destination: ownerID,
			Body:        "Published " + mp.Name,
		}); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "notification failed", "kind", notification.KindPlacePublished, "error", err)
		}
	}
	return mp, nil
}

// Update replaces the fields of an owned place. The id comes from in.ID.
func (s *Service) Update(ctx context.Context, ownerID string, in places.Place) error {
	if in.ID == "" {
		return apperr.MissingFields("Bad request: Field id is required.")
	}
	if err := checkPlace(in); err != nil {
		return err
	}
	current, err := s.owned(ctx, ownerID, in.ID)
	if err != nil {
		return err
	}
	current.Place = in
	return s.repo.Update(ctx, current)
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (MyPlace, error) {
	return s.owned(ctx, ownerID, id)
}

func (s *Service) List(ctx context.Context, ownerID string) ([]MyPlace, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// ImageUpload is a presigned upload target.
type ImageUpload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ImageUploadURL presigns a PUT for the image of an owned place.
func (s *Service) ImageUploadURL(ctx context.Context, ownerID, id string) (ImageUpload, error) {
	if s.presigner == nil {
		return ImageUpload{}, errStorageDisabled
	}
	mp, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return ImageUpload{}, err
	}
	key := media.ImageKey(mp.ID, mp.ImageName)
	url, err := s.presigner.PresignPut(ctx, key)
	if err != nil {
		return ImageUpload{}, apperr.Internal("presign image upload", err)
	}
	return ImageUpload{Key: key, URL: url}, nil
}

func (s *Service) owned(ctx context.Context, ownerID, id string) (MyPlace, error) {
	if id == "" {
		return MyPlace{}, apperr.MissingFields("Bad request: Field id is required.")
	}
	mp, err := s.repo.Get(ctx, id)
	if err != nil {
		return MyPlace{}, err
	}
	if mp.OwnerID != ownerID {
		return MyPlace{}, errNotOwner
	}
	return mp, nil
}

func checkPlace(p places.Place) error {
	if p.Name == "" || p.GPS == "" {
		return apperr.MissingFields("Bad request: Fields name and gps are required.")
	}
	if _, err := places.ParseGPS(p.GPS); err != nil {
		return apperr.New(apperr.CodeBadRequest, "Bad request: Invalid gps coordinates.")
	}
	return nil
}
