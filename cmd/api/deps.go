package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/placefinder/placefinder/internal/config"
	"github.com/placefinder/placefinder/internal/infra"
)

// resources are the external connections a command opened.
type resources struct {
	db        *pgxpool.Pool
	catalogDB *pgxpool.Pool
	cache     *redis.Client
	logger    *slog.Logger
}

func connect(ctx context.Context, cfg config.Config, logger *slog.Logger) (*resources, error) {
	r := &resources{logger: logger}
	opts := infra.PoolOptions{
		MinConns:     cfg.DBMinConns,
		MaxConns:     cfg.DBMaxConns,
		ConnectTries: cfg.DBConnectTries,
		ConnectDelay: 500 * time.Millisecond,
	}

	if cfg.DatabaseURL != "" {
		db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL, opts)
		if err != nil {
			return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "connect postgres").Wrap(err)
		}
		r.db = db
	} else {
		logger.Warn("no database configured, using in-memory stores", "app_env", cfg.AppEnv)
	}

	if cfg.CatalogDatabaseURL != "" {
		db, err := infra.NewPostgresPool(ctx, cfg.CatalogDatabaseURL, opts)
		if err != nil {
			r.Close()
			return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "connect catalog postgres").Wrap(err)
		}
		r.catalogDB = db
	}

	cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		r.Close()
		return nil, oops.Code("REDIS_CONNECT_FAILED").With("operation", "connect redis").Wrap(err)
	}
	r.cache = cache
	return r, nil
}

func (r *resources) Close() {
	if r.cache != nil {
		if err := r.cache.Close(); err != nil {
			r.logger.Warn("close redis", "error", err)
		}
	}
	if r.catalogDB != nil {
		r.catalogDB.Close()
	}
	if r.db != nil {
		r.db.Close()
	}
}
