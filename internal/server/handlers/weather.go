package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/fasalsaathi/internal/metrics"
	"github.com/iudanet/fasalsaathi/internal/models"
	"github.com/iudanet/fasalsaathi/internal/server/storage"
	"github.com/iudanet/fasalsaathi/pkg/api"
)

// Координаты по умолчанию (центральная Индия)
const (
	defaultLat          = 22.62
	defaultLon          = 77.76
	defaultForecastDays = 7
	maxForecastDays     = 16

	weatherUpstream    = "weather"
	weatherUnavailable = "Weather service unavailable"
)

// WeatherProvider получает погоду из внешнего сервиса
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (map[string]any, error)
	Forecast(ctx context.Context, lat, lon float64, days int) (map[string]any, error)
}

// WeatherHandler обрабатывает запросы погоды и сохраненных наблюдений
type WeatherHandler struct {
	base
	provider WeatherProvider
	records  storage.WeatherStorage
	metrics  metrics.Recorder
	now      func() time.Time
}

// NewWeatherHandler создает новый handler для погоды
func NewWeatherHandler(
	logger *slog.Logger,
	provider WeatherProvider,
	records storage.WeatherStorage,
	recorder metrics.Recorder,
	storeTimeout time.Duration,
) *WeatherHandler {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &WeatherHandler{
		base:     base{logger: logger, storeTimeout: storeTimeout},
		provider: provider,
		records:  records,
		metrics:  recorder,
		now:      time.Now,
	}
}

// Current обрабатывает GET /api/v1/weather/current?lat=&lon=
func (h *WeatherHandler) Current(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := h.coords(w, r)
	if !ok {
		return
	}

	data, err := h.provider.Current(r.Context(), lat, lon)
	if err != nil {
		h.upstreamError(w, r, err)
		return
	}
	h.sendJSON(w, r, data, http.StatusOK)
}

// Forecast обрабатывает GET /api/v1/weather/forecast?lat=&lon=&days=
func (h *WeatherHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := h.coords(w, r)
	if !ok {
		return
	}
	days, err := intQuery(r, "days", defaultForecastDays, 1, maxForecastDays)
	if err != nil {
		h.sendValidationError(w, r, err)
		return
	}

	data, err := h.provider.Forecast(r.Context(), lat, lon, days)
	if err != nil {
		h.upstreamError(w, r, err)
		return
	}
	h.sendJSON(w, r, data, http.StatusOK)
}

// History обрабатывает GET /api/v1/weather/history/{location}?days=
func (h *WeatherHandler) History(w http.ResponseWriter, r *http.Request) {
	days, err := intQuery(r, "days", defaultHistoryDays, 1, maxHistoryDays)
	if err != nil {
		h.sendValidationError(w, r, err)
		return
	}
	since := h.now().UTC().AddDate(0, 0, -days)

	ctx, cancel := h.storeContext(r)
	defer cancel()

	records, err := h.records.WeatherHistory(ctx, chi.URLParam(r, "location"), since, days)
	if err != nil {
		h.sendInternalError(w, r, "failed to load weather history", err)
		return
	}
	h.sendJSON(w, r, nonNil(records), http.StatusOK)
}

// Create обрабатывает POST /api/v1/weather
func (h *WeatherHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.WeatherRecordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	record := &models.WeatherRecord{
		Location:    strings.TrimSpace(req.Location),
		Date:        req.Date.UTC(),
		Temperature: req.Temperature,
		Humidity:    req.Humidity,
		Rainfall:    req.Rainfall,
		WindSpeed:   req.WindSpeed,
		CreatedAt:   h.now().UTC(),
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	if err := h.records.CreateWeatherRecord(ctx, record); err != nil {
		h.sendInternalError(w, r, "failed to create weather record", err)
		return
	}
	h.sendJSON(w, r, record, http.StatusCreated)
}

func (h *WeatherHandler) coords(w http.ResponseWriter, r *http.Request) (lat, lon float64, ok bool) {
	lat, err := floatQuery(r, "lat", defaultLat, -90, 90)
	if err != nil {
		h.sendValidationError(w, r, err)
		return 0, 0, false
	}
	lon, err = floatQuery(r, "lon", defaultLon, -180, 180)
	if err != nil {
		h.sendValidationError(w, r, err)
		return 0, 0, false
	}
	return lat, lon, true
}

func (h *WeatherHandler) upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	h.metrics.RecordUpstreamFailure(weatherUpstream)
	h.logger.WarnContext(r.Context(), "weather upstream failed", slog.Any("error", err))
	h.sendError(w, weatherUnavailable, http.StatusInternalServerError)
}
