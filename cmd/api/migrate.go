package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/placefinder/placefinder/internal/config"
	"github.com/placefinder/placefinder/internal/logging"
	"github.com/placefinder/placefinder/internal/migrations"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending schema migrations to the configured PostgreSQL database.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
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

	cmd.Println("Running migrations...")
	if err := migrations.Up(cmd.Context(), res.db); err != nil {
		return err
	}
	cmd.Println("Migrations completed successfully")
	return nil
}
