package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iudanet/fasalsaathi/internal/logging"
	"github.com/iudanet/fasalsaathi/internal/server"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  `Run the HTTP API until SIGINT or SIGTERM, then shut down gracefully.`,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.InfoContext(ctx, "starting server",
		slog.String("addr", cfg.HTTP.Addr),
		slog.String("store", cfg.Store.Driver))

	srv, err := server.New(ctx, cfg, logger, Version)
	if err != nil {
		logging.LogError(ctx, logger, "failed to initialize server", err)
		return err
	}
	defer func() {
		if err := srv.Close(); err != nil {
			logging.LogError(context.WithoutCancel(ctx), logger, "failed to close server", err)
		}
	}()

	if err := srv.Run(ctx); err != nil {
		logging.LogError(ctx, logger, "server stopped with error", err)
		return err
	}
	return nil
}
