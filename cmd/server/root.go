package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/iudanet/fasalsaathi/internal/config"
	"github.com/iudanet/fasalsaathi/internal/logging"
)

const serviceName = "fasalsaathi"

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command of the server binary.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fasalsaathi",
		Short: "FasalSaathi - agriculture advisory API",
		Long: `FasalSaathi serves farm records, crop guidance, mandi prices and weather
to registered farmers over a JSON HTTP API.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (YAML)")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewAccountsCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// loadConfig reads the configuration for cmd and builds the matching logger.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	logger := logging.Setup(logging.Options{
		Service: serviceName,
		Version: Version,
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cmd.ErrOrStderr(),
	})
	return cfg, logger, nil
}
