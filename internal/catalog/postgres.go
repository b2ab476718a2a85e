package catalog

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/placefinder/placefinder/internal/apperr"
	"github.com/placefinder/placefinder/internal/infra"
	"github.com/placefinder/placefinder/internal/places"
)

var placeColumns = strings.Split(strings.ReplaceAll(places.Columns, " ", ""), ",")

// PostgresSource reads catalog_places, either from the main database or from
// a separate upstream one.
type PostgresSource struct {
	db infra.DB
}

func NewPostgresSource(db infra.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Upstream(ctx context.Context) ([]places.Place, error) {
	return places.QueryPlaces(ctx, s.db, `SELECT `+places.Columns+` FROM catalog_places ORDER BY name`)
}

// PostgresStore rebuilds places inside one transaction so readers never see
// a partial catalog.
type PostgresStore struct {
	db infra.DB
}

func NewPostgresStore(db infra.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Rebuild(ctx context.Context, upstream []places.Place) (int, error) {
	rows := make([][]any, 0, len(upstream))
	for _, p := range upstream {
		values, err := p.Values()
		if err != nil {
			return 0, apperr.Storage("prepare upstream place", err)
		}
		rows = append(rows, values)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, apperr.Storage("begin catalog sync", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM places`); err != nil {
		return 0, apperr.Storage("clear places", err)
	}
	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"places"}, placeColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, apperr.Storage("copy upstream places", err)
	}
	// Upstream wins on an id collision with a submitted place.
	tag, err := tx.Exec(ctx, `INSERT INTO places (`+places.Columns+`)
		SELECT `+places.Columns+` FROM my_places
		ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return 0, apperr.Storage("copy my places", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, apperr.Storage("commit catalog sync", err)
	}
	return int(copied + tag.RowsAffected()), nil
}
