// Package favorites keeps each user's set of favourite places.
package favorites

import (
	"context"

	"github.com/google/uuid"

	"github.com/placefinder/placefinder/internal/apperr"
	"github.com/placefinder/placefinder/internal/infra"
	"github.com/placefinder/placefinder/internal/places"
)

// Repository stores (user, place) favourite pairs.
type Repository interface {
	Add(ctx context.Context, userID, placeID string) error
	Remove(ctx context.Context, userID, placeID string) error
	List(ctx context.Context, userID string) ([]places.Place, error)
}

var (
	ErrAlreadyFavourite = apperr.New(apperr.CodeConflict, "Conflict: Place is already in favourites.")
	ErrNotFavourite     = apperr.NotFound("Not Found: Place is not in favourites.")
)

type PostgresRepository struct {
	db infra.DB
}

func NewPostgresRepository(db infra.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, userID, placeID string) error {
	uid, pid, err := parseIDs(userID, placeID)
	if err != nil {
		return places.ErrPlaceNotFound
	}
	_, err = r.db.Exec(ctx, `INSERT INTO favourites (user_id, place_id) VALUES ($1, $2)`, uid, pid)
	if err != nil {
		err = apperr.Storage("insert favourite", err)
		if apperr.Is(err, apperr.CodeConflict) {
			return ErrAlreadyFavourite
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, userID, placeID string) error {
	uid, pid, err := parseIDs(userID, placeID)
	if err != nil {
		return ErrNotFavourite
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM favourites WHERE user_id = $1 AND place_id = $2`, uid, pid)
	if err != nil {
		return apperr.Storage("delete favourite", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFavourite
	}
	return nil
}

// List returns the favourite places still present in the catalog, most
// recently added first.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]places.Place, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil
	}
	return places.QueryPlaces(ctx, r.db, `
		SELECT p.id, p.name, p.image_name, p.description, p.contact, p.address, p.gps,
		       p.meals, p.accomodation, p.sport, p.hiking, p.fun, p.events
		FROM favourites f
		JOIN places p ON p.id = f.place_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`, uid)
}

func parseIDs(userID, placeID string) (uuid.UUID, uuid.UUID, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	pid, err := uuid.Parse(placeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return uid, pid, nil
}
