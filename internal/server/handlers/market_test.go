package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fasalsaathi/internal/models"
	"github.com/iudanet/fasalsaathi/internal/server/storage/repository"
	"github.com/iudanet/fasalsaathi/pkg/api"
)

func marketRouter(h *MarketHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/market/prices/current", h.CurrentPrices)
	r.Get("/market/prices/history/{crop_id}", h.History)
	r.Get("/market/markets", h.Markets)
	r.Get("/market/trends/{crop_id}", h.Trends)
	r.Post("/market/prices", h.CreatePrice)
	return r
}

func seedCrop(t *testing.T, repos *repository.Repositories, name string) string {
	t.Helper()
	crop := &models.Crop{Name: name, Season: "rabi", Duration: 100}
	require.NoError(t, repos.Crops.CreateCrop(t.Context(), crop))
	return crop.ID
}

func TestMarketHandler(t *testing.T) {
	repos := newRepos(t)
	h := NewMarketHandler(testLogger, repos.Market, repos.Crops, time.Second)
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }
	router := marketRouter(h)
	caller := &models.Account{ID: "acc", IsActive: true}

	wheatID := seedCrop(t, repos, "Wheat")
	riceID := seedCrop(t, repos, "Rice")

	prices := []api.MarketPriceRequest{
		{CropID: wheatID, MarketName: "Sehore", Price: 2000, Date: now.AddDate(0, 0, -3)},
		{CropID: wheatID, MarketName: "Indore", Price: 2100, Date: now.AddDate(0, 0, -1)},
		{CropID: wheatID, MarketName: "Sehore", Price: 2200, Date: now.Add(-2 * time.Hour)},
		{CropID: riceID, MarketName: "Bhopal", Price: 3000, Date: now.Add(-time.Hour)},
	}
	for _, p := range prices {
		rec := do(t, router, http.MethodPost, "/market/prices", p, caller)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	t.Run("unknown crop is rejected on create", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/market/prices", api.MarketPriceRequest{
			CropID: "0190b4e2-7d1c-7b7e-9c3a-2d4f5e6a7b8c", MarketName: "Sehore", Price: 1, Date: now,
		}, caller)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Crop not found", detail(t, rec))
	})

	t.Run("invalid price", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/market/prices", api.MarketPriceRequest{
			CropID: wheatID, MarketName: "Sehore", Price: 0, Date: now,
		}, caller)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("current prices are today's sorted by market", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/market/prices/current", nil, caller)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[[]models.MarketPrice](t, rec)
		require.Len(t, got, 2)
		assert.Equal(t, "Bhopal", got[0].MarketName)
		assert.Equal(t, "Sehore", got[1].MarketName)

		rec = do(t, router, http.MethodGet, "/market/prices/current?crop_id="+wheatID, nil, caller)
		got = decode[[]models.MarketPrice](t, rec)
		require.Len(t, got, 1)
		assert.InDelta(t, 2200, got[0].Price, 1e-9)

		rec = do(t, router, http.MethodGet, "/market/prices/current?market=Indore", nil, caller)
		assert.Empty(t, decode[[]models.MarketPrice](t, rec))
	})

	t.Run("history is newest first and capped by days", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/market/prices/history/"+wheatID, nil, caller)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[[]models.MarketPrice](t, rec)
		require.Len(t, got, 3)
		assert.InDelta(t, 2200, got[0].Price, 1e-9)
		assert.InDelta(t, 2000, got[2].Price, 1e-9)

		rec = do(t, router, http.MethodGet, "/market/prices/history/"+wheatID+"?days=2", nil, caller)
		assert.Len(t, decode[[]models.MarketPrice](t, rec), 2)

		rec = do(t, router, http.MethodGet, "/market/prices/history/"+wheatID+"?days=0", nil, caller)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = do(t, router, http.MethodGet, "/market/prices/history/nope", nil, caller)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("markets", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/market/markets", nil, caller)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.ElementsMatch(t, []string{"Bhopal", "Indore", "Sehore"}, decode[[]string](t, rec))
	})

	t.Run("trends", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/market/trends/"+wheatID, nil, caller)
		require.Equal(t, http.StatusOK, rec.Code)
		trend := decode[models.PriceTrend](t, rec)
		assert.Equal(t, models.TrendRising, trend.Trend)
		require.NotNil(t, trend.CurrentPrice)
		assert.InDelta(t, 2200, *trend.CurrentPrice, 1e-9)
		require.NotNil(t, trend.PriceChange)
		assert.InDelta(t, 10, *trend.PriceChange, 1e-9)

		maizeID := seedCrop(t, repos, "Maize")
		rec = do(t, router, http.MethodGet, "/market/trends/"+maizeID, nil, caller)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.TrendInsufficientData, decode[models.PriceTrend](t, rec).Trend)
	})

	t.Run("trends for unknown crop", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/market/trends/0190b4e2-7d1c-7b7e-9c3a-2d4f5e6a7b8c", nil, caller)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Crop not found", detail(t, rec))
	})
}
