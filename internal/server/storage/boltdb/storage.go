// Package boltdb implements docstore.Store on top of an embedded bbolt file.
//
// Every collection is a bucket of JSON documents keyed by docstore.Key. Unique
// indexes live in sibling buckets named "<collection>#<field>" mapping the
// indexed value to the owning key; they are maintained in the same write
// transaction as the document.
package boltdb

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/oops"
	"go.etcd.io/bbolt"

	"github.com/iudanet/fasalsaathi/internal/server/storage/docstore"
)

// Storage is a bbolt-backed document store.
type Storage struct {
	db      *bbolt.DB
	indexes docstore.Indexes
}

var _ docstore.Store = (*Storage)(nil)

// New opens (creating if needed) the database file at dbPath and prepares the
// buckets for every indexed collection.
func New(ctx context.Context, dbPath string, indexes docstore.Indexes) (*Storage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, oops.Code("STORE_OPEN_FAILED").With("path", dbPath).Wrapf(err, "failed to open boltdb")
	}

	storage := &Storage{db: db, indexes: indexes}

	if err := storage.initBuckets(); err != nil {
		db.Close()
		return nil, oops.Code("STORE_OPEN_FAILED").With("path", dbPath).Wrapf(err, "failed to initialize buckets")
	}

	return storage, nil
}

// Close closes the database file.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks that the database file is still open.
func (s *Storage) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		return nil
	})
}

func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for collection, fields := range s.indexes {
			if _, err := tx.CreateBucketIfNotExists([]byte(collection)); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", collection, err)
			}
			for _, field := range fields {
				if _, err := tx.CreateBucketIfNotExists(indexBucket(collection, field)); err != nil {
					return fmt.Errorf("failed to create %s index bucket: %w", field, err)
				}
			}
		}
		return nil
	})
}

func indexBucket(collection, field string) []byte {
	return []byte(collection + "#" + field)
}
