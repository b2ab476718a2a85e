package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/placefinder/placefinder/internal/auth"
	"github.com/placefinder/placefinder/internal/catalog"
	"github.com/placefinder/placefinder/internal/config"
	"github.com/placefinder/placefinder/internal/credential"
	"github.com/placefinder/placefinder/internal/favorites"
	"github.com/placefinder/placefinder/internal/middleware"
	"github.com/placefinder/placefinder/internal/myplaces"
	"github.com/placefinder/placefinder/internal/notes"
	"github.com/placefinder/placefinder/internal/notification"
	"github.com/placefinder/placefinder/internal/places"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg       config.Config
	DB        *pgxpool.Pool
	CatalogDB *pgxpool.Pool
	Cache     *redis.Client
	Logger    *slog.Logger
	// Registry receives the HTTP collectors and backs /metrics. A fresh
	// registry is used when nil.
	Registry *prometheus.Registry
	// Presigner enables image upload URLs; leave nil when no bucket is set.
	Presigner myplaces.Presigner
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps, st Stores) error {
	if !d.Cfg.IsDev() && d.DB == nil {
		return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
	}
	if d.Registry == nil {
		d.Registry = prometheus.NewRegistry()
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	// Plain text access log in desired format: [HH:MM:SS] 200 -  145ms METHOD /path
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))
	app.Use(middleware.NewMetrics(d.Registry).Handler())
	app.Use(middleware.Timeout(d.Cfg.RequestTimeout))

	RegisterHealthRoutes(app, d)

	notifier := notification.NewLoggerNotifier(d.Logger)
	authSvc := auth.NewService(
		st.Users,
		credential.NewHasher(d.Cfg.HashConcurrency),
		auth.NewTokenService(d.Cfg.JWTSecret, d.Cfg.TokenTTL),
		notifier,
		d.Logger,
	)

	api := app.Group("/api")
	gate := middleware.TokenAccess(authSvc)

	RegisterAuthRoutes(api, auth.NewHandler(authSvc), gate, middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRatePerMinute))
	RegisterPlaceRoutes(api, gate, places.NewHandler(places.NewService(st.Places, d.Cfg.NearbyRadiusKM, d.Logger)))
	RegisterFavouriteRoutes(api, gate, favorites.NewHandler(favorites.NewService(st.Favourites, st.Places)))
	RegisterNoteRoutes(api, gate, notes.NewHandler(notes.NewService(st.Notes, st.Places)))
	RegisterMyPlaceRoutes(api, gate,
		middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger),
		myplaces.NewHandler(myplaces.NewService(st.MyPlaces, d.Presigner, notifier, d.Logger)),
	)
	RegisterCatalogRoutes(api, gate, catalog.NewHandler(st.Syncer))

	return nil
}
