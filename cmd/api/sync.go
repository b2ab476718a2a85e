package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/placefinder/placefinder/internal/config"
	"github.com/placefinder/placefinder/internal/logging"
	"github.com/placefinder/placefinder/internal/routes"
)

// NewSyncCmd creates the sync subcommand.
func NewSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Rebuild the main catalog once and exit",
		RunE:  runSync,
	}
}

func runSync(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("DATABASE_URL is required")
	}
	logger := logging.New(cfg.LogLevel)

	res, err := connect(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer res.Close()

	stores := routes.NewStores(routes.Deps{Cfg: cfg, DB: res.db, CatalogDB: res.catalogDB, Logger: logger})
	n, err := stores.Syncer.Run(cmd.Context())
	if err != nil {
		logging.LogError(logger, "catalog sync failed", err)
		return err
	}
	cmd.Printf("Synced %d places\n", n)
	return nil
}
