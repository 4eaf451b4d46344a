package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/iudanet/fasalsaathi/internal/config"
	"github.com/iudanet/fasalsaathi/internal/server"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply pending migrations to the configured SQLite or PostgreSQL store. The bolt store needs none.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.Store.Driver == config.DriverBolt {
		cmd.Println("bolt store has no migrations")
		return nil
	}

	cmd.Println("Running migrations...")
	if err := server.Migrate(cmd.Context(), cfg.Store); err != nil {
		return oops.Code("MIGRATION_FAILED").With("driver", cfg.Store.Driver).Wrap(err)
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
