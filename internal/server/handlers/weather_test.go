package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fasalsaathi/internal/metrics"
	"github.com/iudanet/fasalsaathi/internal/models"
	"github.com/iudanet/fasalsaathi/internal/weather"
	"github.com/iudanet/fasalsaathi/pkg/api"
)

type fakeProvider struct {
	err      error
	lat, lon float64
	days     int
}

func (f *fakeProvider) Current(_ context.Context, lat, lon float64) (map[string]any, error) {
	f.lat, f.lon = lat, lon
	if f.err != nil {
		return nil, f.err
	}
	return map[string]any{"name": "Sehore", "main": map[string]any{"temp": 31.5}}, nil
}

func (f *fakeProvider) Forecast(_ context.Context, lat, lon float64, days int) (map[string]any, error) {
	f.lat, f.lon, f.days = lat, lon, days
	if f.err != nil {
		return nil, f.err
	}
	return map[string]any{"cnt": float64(days * 8)}, nil
}

type upstreamCounter struct {
	metrics.Nop
	failures map[string]int
}

func (c *upstreamCounter) RecordUpstreamFailure(upstream string) {
	if c.failures == nil {
		c.failures = map[string]int{}
	}
	c.failures[upstream]++
}

func weatherRouter(h *WeatherHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/weather/current", h.Current)
	r.Get("/weather/forecast", h.Forecast)
	r.Get("/weather/history/{location}", h.History)
	r.Post("/weather", h.Create)
	return r
}

func TestWeatherHandler_Live(t *testing.T) {
	provider := &fakeProvider{}
	counter := &upstreamCounter{}
	router := weatherRouter(NewWeatherHandler(testLogger, provider, newRepos(t).Weather, counter, time.Second))

	rec := do(t, router, http.MethodGet, "/weather/current", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sehore", decode[map[string]any](t, rec)["name"])
	assert.InDelta(t, 22.62, provider.lat, 1e-9)
	assert.InDelta(t, 77.76, provider.lon, 1e-9)

	rec = do(t, router, http.MethodGet, "/weather/forecast?lat=23.2&lon=77.4", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, provider.days)
	assert.InDelta(t, 23.2, provider.lat, 1e-9)

	rec = do(t, router, http.MethodGet, "/weather/forecast?days=3", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, provider.days)

	for _, target := range []string{"/weather/forecast?days=17", "/weather/current?lat=91", "/weather/current?lon=abc"} {
		rec = do(t, router, http.MethodGet, target, nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}

	provider.err = weather.ErrUnavailable
	for _, target := range []string{"/weather/current", "/weather/forecast"} {
		rec = do(t, router, http.MethodGet, target, nil, nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Weather service unavailable", detail(t, rec))
	}
	assert.Equal(t, 2, counter.failures["weather"])

	provider.err = errors.New("anything else")
	rec = do(t, router, http.MethodGet, "/weather/current", nil, nil)
	assert.Equal(t, "Weather service unavailable", detail(t, rec))
}

func TestWeatherHandler_Records(t *testing.T) {
	h := NewWeatherHandler(testLogger, &fakeProvider{}, newRepos(t).Weather, nil, time.Second)
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }
	router := weatherRouter(h)

	for _, age := range []int{1, 5, 40} {
		rec := do(t, router, http.MethodPost, "/weather", api.WeatherRecordRequest{
			Location:    "Sehore",
			Date:        now.AddDate(0, 0, -age),
			Temperature: float64(30 + age),
			Humidity:    60,
		}, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := do(t, router, http.MethodGet, "/weather/history/Sehore", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]models.WeatherRecord](t, rec)
	require.Len(t, got, 2)
	assert.InDelta(t, 31, got[0].Temperature, 1e-9)
	assert.InDelta(t, 35, got[1].Temperature, 1e-9)

	rec = do(t, router, http.MethodGet, "/weather/history/Sehore?days=60", nil, nil)
	assert.Len(t, decode[[]models.WeatherRecord](t, rec), 3)

	rec = do(t, router, http.MethodGet, "/weather/history/Indore", nil, nil)
	assert.Empty(t, decode[[]models.WeatherRecord](t, rec))

	rec = do(t, router, http.MethodPost, "/weather", api.WeatherRecordRequest{Location: "Sehore", Date: now, Humidity: 120}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
