package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/fasalsaathi/internal/models"
	"github.com/iudanet/fasalsaathi/internal/server/storage"
	"github.com/iudanet/fasalsaathi/pkg/api"
)

const (
	farmNotFound     = "Farm not found"
	defaultPageLimit = 100
)

// FarmHandler обрабатывает запросы к фермам текущего аккаунта
// Чужие фермы отдаются как не найденные
type FarmHandler struct {
	base
	farms storage.FarmStorage
}

// NewFarmHandler создает новый handler для ферм
func NewFarmHandler(logger *slog.Logger, farms storage.FarmStorage, storeTimeout time.Duration) *FarmHandler {
	return &FarmHandler{base: base{logger: logger, storeTimeout: storeTimeout}, farms: farms}
}

// Create обрабатывает POST /api/v1/farms
func (h *FarmHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.FarmRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	now := time.Now().UTC()
	farm := &models.Farm{OwnerID: currentAccountID(r), CreatedAt: now, UpdatedAt: now}
	applyFarmRequest(farm, req)

	ctx, cancel := h.storeContext(r)
	defer cancel()

	if err := h.farms.CreateFarm(ctx, farm); err != nil {
		h.sendInternalError(w, r, "failed to create farm", err)
		return
	}
	h.sendJSON(w, r, farm, http.StatusCreated)
}

// List обрабатывает GET /api/v1/farms?skip=&limit=
func (h *FarmHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, err := intQuery(r, "skip", 0, 0, 1<<30)
	if err != nil {
		h.sendValidationError(w, r, err)
		return
	}
	limit, err := intQuery(r, "limit", defaultPageLimit, 1, defaultPageLimit)
	if err != nil {
		h.sendValidationError(w, r, err)
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	farms, err := h.farms.ListFarms(ctx, currentAccountID(r), skip, limit)
	if err != nil {
		h.sendInternalError(w, r, "failed to list farms", err)
		return
	}
	h.sendJSON(w, r, nonNil(farms), http.StatusOK)
}

// Get обрабатывает GET /api/v1/farms/{id}
func (h *FarmHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.storeContext(r)
	defer cancel()

	farm, err := h.farms.GetFarm(ctx, currentAccountID(r), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.sendJSON(w, r, farm, http.StatusOK)
}

// Update обрабатывает PUT /api/v1/farms/{id}
// Заменяет все редактируемые поля
func (h *FarmHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req api.FarmRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	farm, err := h.farms.GetFarm(ctx, currentAccountID(r), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	applyFarmRequest(farm, req)
	farm.UpdatedAt = time.Now().UTC()
	if err := h.farms.UpdateFarm(ctx, farm); err != nil {
		h.storeError(w, r, err)
		return
	}
	h.sendJSON(w, r, farm, http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/farms/{id}
func (h *FarmHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.storeContext(r)
	defer cancel()

	if err := h.farms.DeleteFarm(ctx, currentAccountID(r), chi.URLParam(r, "id")); err != nil {
		h.storeError(w, r, err)
		return
	}
	h.sendJSON(w, r, api.MessageResponse{Message: "Farm deleted successfully"}, http.StatusOK)
}

func (h *FarmHandler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		h.sendError(w, farmNotFound, http.StatusNotFound)
		return
	}
	h.sendInternalError(w, r, "farm store operation failed", err)
}

func applyFarmRequest(farm *models.Farm, req api.FarmRequest) {
	farm.Name = strings.TrimSpace(req.Name)
	farm.Location = strings.TrimSpace(req.Location)
	farm.Area = req.Area
	farm.SoilType = strings.TrimSpace(req.SoilType)
	farm.IrrigationType = strings.TrimSpace(req.IrrigationType)
}

// nonNil нужен, чтобы пустой список кодировался как [], а не null
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
