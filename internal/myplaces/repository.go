// Package myplaces manages places submitted by users. Each one is owned by
// its creator and mirrored into the main catalog.
package myplaces

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/placefinder/placefinder/internal/apperr"
	"github.com/placefinder/placefinder/internal/infra"
	"github.com/placefinder/placefinder/internal/places"
)

// MyPlace is a user-submitted place.
type MyPlace struct {
	places.Place
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository writes to my_places and the catalog together.
type Repository interface {
	Create(ctx context.Context, mp MyPlace) error
	Update(ctx context.Context, mp MyPlace) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (MyPlace, error)
	ListByOwner(ctx context.Context, ownerID string) ([]MyPlace, error)
	// All returns every submitted place, for catalog sync.
	All(ctx context.Context) ([]places.Place, error)
}

var ErrMyPlaceNotFound = apperr.NotFound("Not Found: Place not found.")

const selectMyPlace = `SELECT ` + places.Columns + `, owner_id, created_at FROM my_places`

type PostgresRepository struct {
	db infra.DB
}

func NewPostgresRepository(db infra.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the place and publishes it to the catalog in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, mp MyPlace) error {
	values, owner, err := mp.values()
	if err != nil {
		return err
	}
	return r.inTx(ctx, "create my place", func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO my_places (`+places.Columns+`, owner_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			append(values, owner, mp.CreatedAt)...); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, upsertPlace, values...)
		return err
	})
}

// Update rewrites the place and its catalog copy. Ownership is checked by
// the caller.
func (r *PostgresRepository) Update(ctx context.Context, mp MyPlace) error {
	values, _, err := mp.values()
	if err != nil {
		return err
	}
	return r.inTx(ctx, "update my place", func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE my_places SET name = $2, image_name = $3, description = $4,
			contact = $5, address = $6, gps = $7, meals = $8, accomodation = $9, sport = $10,
			hiking = $11, fun = $12, events = $13
			WHERE id = $1`, values...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrMyPlaceNotFound
		}
		_, err = tx.Exec(ctx, upsertPlace, values...)
		return err
	})
}

// Delete removes the place from my_places and the catalog.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	placeID, err := uuid.Parse(id)
	if err != nil {
		return ErrMyPlaceNotFound
	}
	return r.inTx(ctx, "delete my place", func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM my_places WHERE id = $1`, placeID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrMyPlaceNotFound
		}
		_, err = tx.Exec(ctx, `DELETE FROM places WHERE id = $1`, placeID)
		return err
	})
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (MyPlace, error) {
	placeID, err := uuid.Parse(id)
	if err != nil {
		return MyPlace{}, ErrMyPlaceNotFound
	}
	mp, err := scanMyPlace(r.db.QueryRow(ctx, selectMyPlace+` WHERE id = $1`, placeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return MyPlace{}, ErrMyPlaceNotFound
	}
	if err != nil {
		return MyPlace{}, apperr.Storage("select my place", err)
	}
	return mp, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]MyPlace, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, selectMyPlace+` WHERE owner_id = $1 ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, apperr.Storage("query my places", err)
	}
	defer rows.Close()

	var out []MyPlace
	for rows.Next() {
		mp, err := scanMyPlace(rows)
		if err != nil {
			return nil, apperr.Storage("scan my place", err)
		}
		out = append(out, mp)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("iterate my places", err)
	}
	return out, nil
}

func (r *PostgresRepository) All(ctx context.Context) ([]places.Place, error) {
	return places.QueryPlaces(ctx, r.db, `SELECT `+places.Columns+` FROM my_places ORDER BY created_at`)
}

const upsertPlace = `INSERT INTO places (` + places.Columns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, image_name = EXCLUDED.image_name,
		description = EXCLUDED.description, contact = EXCLUDED.contact, address = EXCLUDED.address,
		gps = EXCLUDED.gps, meals = EXCLUDED.meals, accomodation = EXCLUDED.accomodation,
		sport = EXCLUDED.sport, hiking = EXCLUDED.hiking, fun = EXCLUDED.fun, events = EXCLUDED.events`

func (r *PostgresRepository) inTx(ctx context.Context, op string, fn func(pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperr.Storage(op, err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if err := fn(tx); err != nil {
		if apperr.Code(err) != "" {
			return err
		}
		return apperr.Storage(op, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.Storage(op, err)
	}
	return nil
}

func (mp MyPlace) values() ([]any, uuid.UUID, error) {
	values, err := mp.Place.Values()
	if err != nil {
		return nil, uuid.Nil, apperr.New(apperr.CodeBadRequest, "Bad request: Malformed id.")
	}
	owner, err := uuid.Parse(mp.OwnerID)
	if err != nil {
		return nil, uuid.Nil, apperr.New(apperr.CodeBadRequest, "Bad request: Malformed owner id.")
	}
	return values, owner, nil
}

func scanMyPlace(row pgx.Row) (MyPlace, error) {
	var (
		id, owner uuid.UUID
		mp        MyPlace
	)
	p := &mp.Place
	err := row.Scan(&id, &p.Name, &p.ImageName, &p.Description, &p.Contact, &p.Address, &p.GPS,
		&p.Meals, &p.Accomodation, &p.Sport, &p.Hiking, &p.Fun, &p.Events, &owner, &mp.CreatedAt)
	if err != nil {
		return MyPlace{}, err
	}
	p.ID = id.String()
	mp.OwnerID = owner.String()
	return mp, nil
}
