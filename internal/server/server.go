package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/placefinder/placefinder/internal/catalog"
	"github.com/placefinder/placefinder/internal/config"
	"github.com/placefinder/placefinder/internal/httpx"
	"github.com/placefinder/placefinder/internal/routes"
)

// Server wraps the Fiber application and shared dependencies.
type Server struct {
	app    *fiber.App
	cfg    config.Config
	syncer *catalog.Syncer
	logger *slog.Logger
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
func New(d routes.Deps) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:      d.Cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: httpx.ErrorHandler(d.Logger),
	})

	stores := routes.NewStores(d)
	if err := routes.Setup(app, d, stores); err != nil {
		return nil, err
	}

	return &Server{app: app, cfg: d.Cfg, syncer: stores.Syncer, logger: d.Logger}, nil
}

// Syncer returns the catalog syncer shared with the update endpoint.
func (s *Server) Syncer() *catalog.Syncer {
	return s.syncer
}

// Listen starts the HTTP server, with TLS when enabled.
func (s *Server) Listen() error {
	if s.cfg.TLSEnabled {
		s.logger.Info("listening", "addr", s.cfg.Address(), "tls", true)
		return s.app.ListenTLS(s.cfg.Address(), s.cfg.TLSCertFile, s.cfg.TLSKeyFile)
	}
	s.logger.Info("listening", "addr", s.cfg.Address(), "tls", false)
	return s.app.Listen(s.cfg.Address())
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
