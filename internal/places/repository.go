package places

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/placefinder/placefinder/internal/apperr"
	"github.com/placefinder/placefinder/internal/infra"
)

// Repository reads the main catalog.
type Repository interface {
	List(ctx context.Context) ([]Place, error)
	Get(ctx context.Context, id string) (Place, error)
	ListByCategory(ctx context.Context, category string) ([]Place, error)
}

// ErrPlaceNotFound is returned for an unknown place id.
var ErrPlaceNotFound = apperr.NotFound("Not Found: Place not found.")

// Columns is the column list shared by every places-shaped table.
const Columns = `id, name, image_name, description, contact, address, gps, meals, accomodation, sport, hiking, fun, events`

// PostgresRepository reads the places table.
type PostgresRepository struct {
	db infra.DB
}

// NewPostgresRepository builds a Postgres-backed catalog reader.
func NewPostgresRepository(db infra.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns every place ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]Place, error) {
	return QueryPlaces(ctx, r.db, `SELECT `+Columns+` FROM places ORDER BY name`)
}

// Get returns one place.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Place, error) {
	placeID, err := uuid.Parse(id)
	if err != nil {
		return Place{}, ErrPlaceNotFound
	}
	p, err := ScanPlace(r.db.QueryRow(ctx, `SELECT `+Columns+` FROM places WHERE id = $1`, placeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Place{}, ErrPlaceNotFound
	}
	if err != nil {
		return Place{}, apperr.Storage("select place", err)
	}
	return p, nil
}

// ListByCategory returns places with the category flag set. category must be
// one of Categories; it is interpolated as a column name.
func (r *PostgresRepository) ListByCategory(ctx context.Context, category string) ([]Place, error) {
	if !IsCategory(category) {
		return nil, apperr.New(apperr.CodeBadRequest, "Bad request: Category does not exist.")
	}
	return QueryPlaces(ctx, r.db, fmt.Sprintf(`SELECT %s FROM places WHERE %s ORDER BY name`, Columns, category))
}

// QueryPlaces runs a query selecting Columns and collects the rows.
func QueryPlaces(ctx context.Context, db infra.DB, query string, args ...any) ([]Place, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Storage("query places", err)
	}
	defer rows.Close()

	var out []Place
	for rows.Next() {
		p, err := ScanPlace(rows)
		if err != nil {
			return nil, apperr.Storage("scan place", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("iterate places", err)
	}
	return out, nil
}

// ScanPlace reads one row selected with Columns.
func ScanPlace(row pgx.Row) (Place, error) {
	var (
		id uuid.UUID
		p  Place
	)
	err := row.Scan(&id, &p.Name, &p.ImageName, &p.Description, &p.Contact, &p.Address, &p.GPS,
		&p.Meals, &p.Accomodation, &p.Sport, &p.Hiking, &p.Fun, &p.Events)
	if err != nil {
		return Place{}, err
	}
	p.ID = id.String()
	return p, nil
}

// Values returns the place in Columns order, for inserts and COPY.
func (p Place) Values() ([]any, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return nil, fmt.Errorf("place id %q: %w", p.ID, err)
	}
	return []any{id, p.Name, p.ImageName, p.Description, p.Contact, p.Address, p.GPS,
		p.Meals, p.Accomodation, p.Sport, p.Hiking, p.Fun, p.Events}, nil
}
