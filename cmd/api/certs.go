package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/placefinder/placefinder/internal/config"
	"github.com/placefinder/placefinder/internal/tlsboot"
)

// NewCertsCmd creates the certs subcommand.
func NewCertsCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "certs",
		Short: "Generate a self-signed TLS certificate",
		Long:  `Write a self-signed localhost certificate and key to the configured TLS paths.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if force {
				if err := tlsboot.Generate(cfg.TLSCertFile, cfg.TLSKeyFile, time.Now()); err != nil {
					return err
				}
				cmd.Printf("Wrote %s and %s\n", cfg.TLSCertFile, cfg.TLSKeyFile)
				return nil
			}
			created, err := tlsboot.EnsureCert(cfg.TLSCertFile, cfg.TLSKeyFile)
			if err != nil {
				return err
			}
			if created {
				cmd.Printf("Wrote %s and %s\n", cfg.TLSCertFile, cfg.TLSKeyFile)
			} else {
				cmd.Println("Certificate already present; use --force to replace it")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	return cmd
}
