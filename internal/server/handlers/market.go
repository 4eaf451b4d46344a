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
	currentPricesLimit = 100
	trendWindow        = 90
	defaultHistoryDays = 30
	maxHistoryDays     = 365
)

// MarketHandler обрабатывает запросы цен на рынках (mandi)
type MarketHandler struct {
	base
	prices storage.MarketStorage
	crops  storage.CropStorage
	now    func() time.Time
}

// NewMarketHandler создает новый handler для цен
func NewMarketHandler(logger *slog.Logger, prices storage.MarketStorage, crops storage.CropStorage, storeTimeout time.Duration) *MarketHandler {
	return &MarketHandler{
		base:   base{logger: logger, storeTimeout: storeTimeout},
		prices: prices,
		crops:  crops,
		now:    time.Now,
	}
}

// CurrentPrices обрабатывает GET /api/v1/market/prices/current?market=&crop_id=
// Возвращаются только цены за сегодня (UTC) и позже
func (h *MarketHandler) CurrentPrices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.PriceFilter{
		Since:      h.now().UTC().Truncate(24 * time.Hour),
		MarketName: q.Get("market"),
		CropID:     q.Get("crop_id"),
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	prices, err := h.prices.CurrentPrices(ctx, filter, currentPricesLimit)
	if err != nil {
		h.sendInternalError(w, r, "failed to list current prices", err)
		return
	}
	h.sendJSON(w, r, nonNil(prices), http.StatusOK)
}

// History обрабатывает GET /api/v1/market/prices/history/{crop_id}?days=
func (h *MarketHandler) History(w http.ResponseWriter, r *http.Request) {
	days, err := intQuery(r, "days", defaultHistoryDays, 1, maxHistoryDays)
	if err != nil {
		h.sendValidationError(w, r, err)
		return
	}
	cropID := chi.URLParam(r, "crop_id")

	ctx, cancel := h.storeContext(r)
	defer cancel()

	if _, err := h.crops.GetCrop(ctx, cropID); err != nil {
		h.cropError(w, r, err)
		return
	}

	prices, err := h.prices.PriceHistory(ctx, cropID, days)
	if err != nil {
		h.sendInternalError(w, r, "failed to load price history", err)
		return
	}
	h.sendJSON(w, r, nonNil(prices), http.StatusOK)
}

// Markets обрабатывает GET /api/v1/market/markets
func (h *MarketHandler) Markets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.storeContext(r)
	defer cancel()

	markets, err := h.prices.ListMarkets(ctx)
	if err != nil {
		h.sendInternalError(w, r, "failed to list markets", err)
		return
	}
	h.sendJSON(w, r, nonNil(markets), http.StatusOK)
}

// Trends обрабатывает GET /api/v1/market/trends/{crop_id}
// Культура должна существовать
func (h *MarketHandler) Trends(w http.ResponseWriter, r *http.Request) {
	cropID := chi.URLParam(r, "crop_id")

	ctx, cancel := h.storeContext(r)
	defer cancel()

	if _, err := h.crops.GetCrop(ctx, cropID); err != nil {
		h.cropError(w, r, err)
		return
	}

	prices, err := h.prices.PriceHistory(ctx, cropID, trendWindow)
	if err != nil {
		h.sendInternalError(w, r, "failed to load prices for trend", err)
		return
	}
	h.sendJSON(w, r, models.ComputePriceTrend(prices), http.StatusOK)
}

// CreatePrice обрабатывает POST /api/v1/market/prices
// Культура должна существовать
func (h *MarketHandler) CreatePrice(w http.ResponseWriter, r *http.Request) {
	var req api.MarketPriceRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	if _, err := h.crops.GetCrop(ctx, req.CropID); err != nil {
		h.cropError(w, r, err)
		return
	}

	price := &models.MarketPrice{
		CropID:     req.CropID,
		MarketName: strings.TrimSpace(req.MarketName),
		Price:      req.Price,
		Date:       req.Date.UTC(),
		CreatedAt:  h.now().UTC(),
	}
	if err := h.prices.CreatePrice(ctx, price); err != nil {
		h.sendInternalError(w, r, "failed to create market price", err)
		return
	}
	h.sendJSON(w, r, price, http.StatusCreated)
}

func (h *MarketHandler) cropError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		h.sendError(w, cropNotFound, http.StatusNotFound)
		return
	}
	h.sendInternalError(w, r, "crop lookup failed", err)
}
