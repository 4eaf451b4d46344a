package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fasalsaathi/internal/logging"
	"github.com/iudanet/fasalsaathi/internal/models"
	"github.com/iudanet/fasalsaathi/internal/server/middleware"
	"github.com/iudanet/fasalsaathi/internal/server/storage/boltdb"
	"github.com/iudanet/fasalsaathi/internal/server/storage/repository"
	"github.com/iudanet/fasalsaathi/pkg/api"
)

var testLogger = logging.Discard()

// newRepos открывает временное bbolt хранилище
func newRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "handlers.db"), repository.Indexes)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return repository.New(store)
}

// do отправляет запрос через h
// Если account не nil, он добавляется в контекст как авторизованный
func do(t *testing.T, h http.Handler, method, target string, body any, account *models.Account) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if account != nil {
		req = req.WithContext(middleware.WithAccount(req.Context(), account))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[api.ErrorResponse](t, rec).Detail
}
