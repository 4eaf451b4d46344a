package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fasalsaathi/internal/server/storage/docstore"
	"github.com/iudanet/fasalsaathi/internal/server/storage/docstore/storetest"
)

func setupTestStorage(t *testing.T, indexes docstore.Indexes) *Storage {
	t.Helper()
	s, err := New(context.Background(), Config{
		Dialect: DialectSQLite,
		DSN:     filepath.Join(t.TempDir(), "test.db"),
	}, indexes)
	require.NoError(t, err)
	return s
}

func TestStorage_Conformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T, indexes docstore.Indexes) docstore.Store {
		return setupTestStorage(t, indexes)
	})
}

func TestStorage_MigrateIsIdempotent(t *testing.T) {
	s := setupTestStorage(t, nil)
	defer s.Close()

	require.NoError(t, s.Migrate(context.Background()))

	var tables int
	err := s.DB().QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('documents', 'unique_keys')`,
	).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 2, tables)
}

func TestStorage_FindOneUsesIndex(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t, storetest.Indexes)
	defer s.Close()

	_, err := s.Insert(ctx, "people", docstore.Document{"email": "a@x.com"})
	require.NoError(t, err)

	// Without its unique_keys row the document is invisible to an indexed
	// lookup but still found by a scan.
	_, err = s.DB().ExecContext(ctx, `DELETE FROM unique_keys WHERE collection = 'people'`)
	require.NoError(t, err)

	_, err = s.FindOne(ctx, "people", docstore.Filter{"email": "a@x.com"})
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	all, err := s.Find(ctx, "people", docstore.Filter{"email": "a@x.com"}, docstore.FindOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOpen_UnsupportedDialect(t *testing.T) {
	_, err := Open(context.Background(), Config{Dialect: "mysql"}, nil)
	assert.Error(t, err)
}

func TestStorage_Rebind(t *testing.T) {
	lite := &Storage{dialect: DialectSQLite}
	pg := &Storage{dialect: DialectPostgres}
	query := `SELECT body FROM documents WHERE collection = ? AND id = ?`

	assert.Equal(t, query, lite.rebind(query))
	assert.Equal(t, `SELECT body FROM documents WHERE collection = $1 AND id = $2`, pg.rebind(query))
}
