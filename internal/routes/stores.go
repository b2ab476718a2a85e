package routes

import (
	"github.com/placefinder/placefinder/internal/catalog"
	"github.com/placefinder/placefinder/internal/favorites"
	"github.com/placefinder/placefinder/internal/identity"
	"github.com/placefinder/placefinder/internal/myplaces"
	"github.com/placefinder/placefinder/internal/notes"
	"github.com/placefinder/placefinder/internal/places"
)

// Stores holds the repositories behind every handler, backed by Postgres
// when a pool is configured and by memory otherwise.
type Stores struct {
	Users      identity.Repository
	Places     places.Repository
	Favourites favorites.Repository
	Notes      notes.Repository
	MyPlaces   myplaces.Repository
	Syncer     *catalog.Syncer
}

// NewStores builds the repositories for d. The upstream catalog is read from
// CatalogDB when set, otherwise from the main database.
func NewStores(d Deps) Stores {
	if d.DB == nil {
		catalogRepo := places.NewMemoryRepository(catalog.Seed...)
		mine := myplaces.NewMemoryRepository(catalogRepo)
		return Stores{
			Users:      identity.NewMemoryRepository(),
			Places:     catalogRepo,
			Favourites: favorites.NewMemoryRepository(catalogRepo),
			Notes:      notes.NewMemoryRepository(),
			MyPlaces:   mine,
			Syncer: catalog.NewSyncer(
				catalog.NewMemorySource(catalog.Seed...),
				catalog.NewMemoryStore(catalogRepo, mine),
				d.Logger,
			),
		}
	}

	var source *catalog.PostgresSource
	if d.CatalogDB != nil {
		source = catalog.NewPostgresSource(d.CatalogDB)
	} else {
		source = catalog.NewPostgresSource(d.DB)
	}
	return Stores{
		Users:      identity.NewPostgresRepository(d.DB),
		Places:     places.NewPostgresRepository(d.DB),
		Favourites: favorites.NewPostgresRepository(d.DB),
		Notes:      notes.NewPostgresRepository(d.DB),
		MyPlaces:   myplaces.NewPostgresRepository(d.DB),
		Syncer:     catalog.NewSyncer(source, catalog.NewPostgresStore(d.DB), d.Logger),
	}
}
