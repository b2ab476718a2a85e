package main

import (
	"github.com/spf13/cobra"

	"github.com/placefinder/placefinder/internal/config"
)

// NewRootCmd creates the root command. Without a subcommand it serves.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "placefinder",
		Short:        "Placefinder REST backend",
		SilenceUsage: true,
		RunE:         runServe,
	}
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewCertsCmd())
	return cmd
}
