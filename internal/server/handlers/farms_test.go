package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fasalsaathi/internal/models"
	"github.com/iudanet/fasalsaathi/pkg/api"
)

func farmRouter(h *FarmHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/farms", h.Create)
	r.Get("/farms", h.List)
	r.Get("/farms/{id}", h.Get)
	r.Put("/farms/{id}", h.Update)
	r.Delete("/farms/{id}", h.Delete)
	return r
}

func TestFarmHandler_Lifecycle(t *testing.T) {
	repos := newRepos(t)
	router := farmRouter(NewFarmHandler(testLogger, repos.Farms, time.Second))
	owner := &models.Account{ID: "owner-1", IsActive: true}
	other := &models.Account{ID: "owner-2", IsActive: true}

	req := api.FarmRequest{Name: "North field", Location: "Sehore", Area: 2.5, SoilType: "black", IrrigationType: "drip"}
	rec := do(t, router, http.MethodPost, "/farms", req, owner)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Farm](t, rec)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "owner-1", created.OwnerID)
	assert.InDelta(t, 2.5, created.Area, 1e-9)

	rec = do(t, router, http.MethodGet, "/farms", nil, owner)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Farm](t, rec), 1)

	rec = do(t, router, http.MethodGet, "/farms", nil, other)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = do(t, router, http.MethodGet, "/farms/"+created.ID, nil, other)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Farm not found", detail(t, rec))

	req.Name = "South field"
	req.Area = 4
	rec = do(t, router, http.MethodPut, "/farms/"+created.ID, req, owner)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Farm](t, rec)
	assert.Equal(t, "South field", updated.Name)
	assert.Equal(t, created.ID, updated.ID)

	rec = do(t, router, http.MethodGet, "/farms/"+created.ID, nil, owner)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "South field", decode[models.Farm](t, rec).Name)

	rec = do(t, router, http.MethodDelete, "/farms/"+created.ID, nil, other)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodDelete, "/farms/"+created.ID, nil, owner)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Farm deleted successfully", decode[api.MessageResponse](t, rec).Message)

	rec = do(t, router, http.MethodGet, "/farms/"+created.ID, nil, owner)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFarmHandler_Validation(t *testing.T) {
	router := farmRouter(NewFarmHandler(testLogger, newRepos(t).Farms, time.Second))
	owner := &models.Account{ID: "owner-1", IsActive: true}

	tests := []struct {
		name   string
		method string
		target string
		body   any
	}{
		{name: "zero area", method: http.MethodPost, target: "/farms", body: api.FarmRequest{Name: "n", Location: "l", SoilType: "s", IrrigationType: "i"}},
		{name: "missing name", method: http.MethodPost, target: "/farms", body: api.FarmRequest{Location: "l", Area: 1, SoilType: "s", IrrigationType: "i"}},
		{name: "negative skip", method: http.MethodGet, target: "/farms?skip=-1"},
		{name: "limit too large", method: http.MethodGet, target: "/farms?limit=101"},
		{name: "limit not a number", method: http.MethodGet, target: "/farms?limit=ten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, tt.method, tt.target, tt.body, owner)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, detail(t, rec))
		})
	}
}

func TestFarmHandler_Pagination(t *testing.T) {
	router := farmRouter(NewFarmHandler(testLogger, newRepos(t).Farms, time.Second))
	owner := &models.Account{ID: "owner-1", IsActive: true}

	for _, name := range []string{"a", "b", "c"} {
		rec := do(t, router, http.MethodPost, "/farms",
			api.FarmRequest{Name: name, Location: "l", Area: 1, SoilType: "s", IrrigationType: "i"}, owner)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := do(t, router, http.MethodGet, "/farms?skip=1&limit=1", nil, owner)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Farm](t, rec), 1)

	rec = do(t, router, http.MethodGet, "/farms?skip=5", nil, owner)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.Farm](t, rec))
}
