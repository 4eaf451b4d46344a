package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/fasalsaathi/pkg/api"
)

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler обрабатывает корневой endpoint и health check
type HealthHandler struct {
	base
	store   Pinger
	appName string
	version string
}

// NewHealthHandler создает новый health handler
func NewHealthHandler(logger *slog.Logger, store Pinger, appName, version string, storeTimeout time.Duration) *HealthHandler {
	return &HealthHandler{
		base:    base{logger: logger, storeTimeout: storeTimeout},
		store:   store,
		appName: appName,
		version: version,
	}
}

// Root обрабатывает GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, r, api.RootResponse{
		Message: "Welcome to the " + h.appName + "!",
		Name:    h.appName,
		Version: h.version,
	}, http.StatusOK)
}

// Health обрабатывает GET /api/health
// Если хранилище не отвечает на ping, возвращает 503 и статус unhealthy
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.storeContext(r)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
		h.sendJSON(w, r, api.HealthResponse{Status: "unhealthy"}, http.StatusServiceUnavailable)
		return
	}
	h.sendJSON(w, r, api.HealthResponse{Status: "healthy"}, http.StatusOK)
}
