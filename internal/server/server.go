// Package server wires configuration, storage, services and HTTP handlers
// into a runnable API server.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/oops"

	"github.com/iudanet/fasalsaathi/internal/config"
	"github.com/iudanet/fasalsaathi/internal/crypto"
	"github.com/iudanet/fasalsaathi/internal/metrics"
	"github.com/iudanet/fasalsaathi/internal/server/auth"
	"github.com/iudanet/fasalsaathi/internal/server/handlers"
	"github.com/iudanet/fasalsaathi/internal/server/jwt"
	"github.com/iudanet/fasalsaathi/internal/server/storage/docstore"
	"github.com/iudanet/fasalsaathi/internal/server/storage/repository"
	"github.com/iudanet/fasalsaathi/internal/weather"
)

// Server owns every long-lived dependency of the API. Build it with New and
// release it with Close.
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   docstore.Store
	auth    *auth.Service
	handler http.Handler
}

// New opens the store and builds the services and router described by cfg.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, version string) (*Server, error) {
	store, err := OpenStore(ctx, cfg.Store, true)
	if err != nil {
		return nil, err
	}

	s, err := build(cfg, logger, version, store)
	if err != nil {
		store.Close()
		return nil, err
	}
	return s, nil
}

func build(cfg *config.Config, logger *slog.Logger, version string, store docstore.Store) (*Server, error) {
	repos := repository.New(store)

	hasher, err := crypto.NewPasswordHasher(logger, cfg.Password.Cost)
	if err != nil {
		return nil, err
	}

	tokens, err := jwt.NewService(jwt.Config{
		Secret:    []byte(cfg.JWT.Secret),
		Algorithm: cfg.JWT.Algorithm,
		TTL:       cfg.JWT.TTL,
		Leeway:    cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrapf(err, "failed to create token service")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewCollector(registry)

	authService := auth.NewService(auth.Config{
		Logger:       logger,
		Accounts:     repos.Accounts,
		Hasher:       hasher,
		Tokens:       tokens,
		Metrics:      recorder,
		StoreTimeout: cfg.Store.Timeout,
	})

	weatherClient := weather.NewClient(
		&http.Client{Timeout: cfg.Weather.Timeout},
		logger,
		cfg.Weather.Endpoint,
		cfg.Weather.APIKey,
	)

	timeout := cfg.Store.Timeout
	handler := NewRouter(RouterDeps{
		Authenticator:  authService,
		InactiveStatus: cfg.Auth.InactiveStatus,
		CORSOrigins:    cfg.CORS.Origins,
		Metrics:        recorder,
		Gatherer:       registry,

		Health:  handlers.NewHealthHandler(logger, store, cfg.App.Name, version, timeout),
		Auth:    handlers.NewAuthHandler(logger, authService),
		Farms:   handlers.NewFarmHandler(logger, repos.Farms, timeout),
		Crops:   handlers.NewCropHandler(logger, repos.Crops, timeout),
		Market:  handlers.NewMarketHandler(logger, repos.Market, repos.Crops, timeout),
		Weather: handlers.NewWeatherHandler(logger, weatherClient, repos.Weather, recorder, timeout),
	}, logger)

	return &Server{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		auth:    authService,
		handler: handler,
	}, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Accounts exposes account administration for the CLI.
func (s *Server) Accounts() *auth.Service {
	return s.auth
}

// Run serves HTTP on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.HTTP.Addr)
	if err != nil {
		return oops.Code("HTTP_LISTEN_FAILED").With("addr", s.cfg.HTTP.Addr).Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.HTTP.ReadTimeout,
		WriteTimeout: s.cfg.HTTP.WriteTimeout,
		IdleTimeout:  s.cfg.HTTP.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", slog.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return oops.Code("HTTP_SERVE_FAILED").Wrap(err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return oops.Code("HTTP_SHUTDOWN_FAILED").Wrap(err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return oops.Code("HTTP_SERVE_FAILED").Wrap(err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// Close releases the store.
func (s *Server) Close() error {
	if err := s.store.Close(); err != nil {
		return oops.Code("STORE_CLOSE_FAILED").Wrap(err)
	}
	return nil
}
