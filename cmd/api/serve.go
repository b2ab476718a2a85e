package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/placefinder/placefinder/internal/catalog"
	"github.com/placefinder/placefinder/internal/config"
	"github.com/placefinder/placefinder/internal/logging"
	"github.com/placefinder/placefinder/internal/media"
	"github.com/placefinder/placefinder/internal/migrations"
	"github.com/placefinder/placefinder/internal/routes"
	"github.com/placefinder/placefinder/internal/server"
	"github.com/placefinder/placefinder/internal/tlsboot"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel)
	ctx := cmd.Context()

	res, err := connect(ctx, cfg, logger)
	if err != nil {
		logging.LogError(logger, "connect", err)
		return err
	}
	defer res.Close()

	if res.db != nil {
		if err := migrations.Up(ctx, res.db); err != nil {
			logging.LogError(logger, "apply migrations", err)
			return err
		}
	}

	if cfg.TLSEnabled {
		created, err := tlsboot.EnsureCert(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return err
		}
		if created {
			logger.Warn("generated self-signed certificate", "cert", cfg.TLSCertFile)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps := routes.Deps{
		Cfg:       cfg,
		DB:        res.db,
		CatalogDB: res.catalogDB,
		Cache:     res.cache,
		Logger:    logger,
		Registry:  registry,
	}
	presigner, err := media.NewPresigner(ctx, media.Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		return err
	}
	if presigner != nil {
		deps.Presigner = presigner
	}

	srv, err := server.New(deps)
	if err != nil {
		logging.LogError(logger, "build server", err)
		return err
	}

	if cfg.SyncSchedule != "" {
		scheduler, err := catalog.NewScheduler(cfg.SyncSchedule, srv.Syncer(), cfg.ShutdownPeriod, logger)
		if err != nil {
			return err
		}
		scheduler.Start()
		logger.Info("catalog sync scheduled", "schedule", cfg.SyncSchedule)
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
			defer cancel()
			scheduler.Stop(stopCtx)
		}()
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logging.LogError(logger, "server error", err)
			return oops.Code("SERVER_FAILED").Wrap(err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.LogError(logger, "shutdown error", err)
		return err
	}

	logger.Info("server exited cleanly")
	return nil
}
