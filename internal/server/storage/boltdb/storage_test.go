package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/fasalsaathi/internal/server/storage/docstore"
	"github.com/iudanet/fasalsaathi/internal/server/storage/docstore/storetest"
)

func setupTestStorage(t *testing.T, indexes docstore.Indexes) *Storage {
	t.Helper()
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "test.db"), indexes)
	require.NoError(t, err)
	return s
}

func TestStorage_Conformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T, indexes docstore.Indexes) docstore.Store {
		return setupTestStorage(t, indexes)
	})
}

func TestStorage_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")

	s, err := New(ctx, path, storetest.Indexes)
	require.NoError(t, err)
	key, err := s.Insert(ctx, "people", docstore.Document{"email": "a@x.com"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = New(ctx, path, storetest.Indexes)
	require.NoError(t, err)
	defer s.Close()

	doc, err := s.Get(ctx, "people", key)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", doc.String("email"))

	_, err = s.Insert(ctx, "people", docstore.Document{"email": "a@x.com"})
	require.ErrorIs(t, err, docstore.ErrDuplicate)
}

func TestStorage_FindOneUsesIndex(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t, storetest.Indexes)
	defer s.Close()

	_, err := s.Insert(ctx, "people", docstore.Document{"email": "a@x.com"})
	require.NoError(t, err)

	// Drop the index entry behind the store's back: an indexed lookup can no
	// longer see the document while a scan still can.
	require.NoError(t, s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(indexBucket("people", "email")).Delete([]byte("a@x.com"))
	}))

	_, err = s.FindOne(ctx, "people", docstore.Filter{"email": "a@x.com"})
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	all, err := s.Find(ctx, "people", docstore.Filter{"email": "a@x.com"}, docstore.FindOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := New(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "x.db"), nil)
	require.Error(t, err)
}
