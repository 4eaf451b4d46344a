package boltdb

import (
	"bytes"
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/fasalsaathi/internal/server/storage/docstore"
)

// Insert stores doc under a new key.
func (s *Storage) Insert(ctx context.Context, collection string, doc docstore.Document) (docstore.Key, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key, err := docstore.NewKey()
	if err != nil {
		return nil, err
	}

	data, err := doc.Marshal()
	if err != nil {
		return nil, err
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(collection))
		if err != nil {
			return fmt.Errorf("failed to create %s bucket: %w", collection, err)
		}

		if err := s.claimUnique(tx, collection, key, nil, doc); err != nil {
			return err
		}

		if err := bucket.Put(key, data); err != nil {
			return fmt.Errorf("failed to save document: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return key, nil
}

// Get returns the document stored under key.
func (s *Storage) Get(ctx context.Context, collection string, key docstore.Key) (docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc docstore.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(collection))
		if bucket == nil {
			return docstore.ErrNotFound
		}

		data := bucket.Get(key)
		if data == nil {
			return docstore.ErrNotFound
		}

		var err error
		doc, err = docstore.Unmarshal(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// FindOne returns the first matching document in key order. Equality on a
// unique field is answered from its index bucket.
func (s *Storage) FindOne(ctx context.Context, collection string, filter docstore.Filter) (docstore.Record, error) {
	if err := ctx.Err(); err != nil {
		return docstore.Record{}, err
	}

	var found docstore.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(collection))
		if bucket == nil {
			return docstore.ErrNotFound
		}

		if field, value, ok := s.indexes.Lookup(collection, filter); ok {
			idx := tx.Bucket(indexBucket(collection, field))
			if idx == nil {
				return docstore.ErrNotFound
			}
			owner := idx.Get([]byte(value))
			if owner == nil {
				return docstore.ErrNotFound
			}
			data := bucket.Get(owner)
			if data == nil {
				return docstore.ErrNotFound
			}
			doc, err := docstore.Unmarshal(data)
			if err != nil {
				return err
			}
			if !filter.Matches(doc) {
				return docstore.ErrNotFound
			}
			found = docstore.Record{Key: bytes.Clone(owner), Doc: doc}
			return nil
		}

		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			doc, err := docstore.Unmarshal(v)
			if err != nil {
				return err
			}
			if filter.Matches(doc) {
				found = docstore.Record{Key: bytes.Clone(k), Doc: doc}
				return nil
			}
		}
		return docstore.ErrNotFound
	})
	if err != nil {
		return docstore.Record{}, err
	}
	return found, nil
}

// Find returns all matching documents ordered and paged by opts.
func (s *Storage) Find(ctx context.Context, collection string, filter docstore.Filter, opts docstore.FindOptions) ([]docstore.Record, error) {
	all, err := s.scan(ctx, collection)
	if err != nil {
		return nil, err
	}
	return docstore.Query(all, filter, opts), nil
}

// Distinct returns the distinct values of field among matching documents.
func (s *Storage) Distinct(ctx context.Context, collection, field string, filter docstore.Filter) ([]any, error) {
	all, err := s.scan(ctx, collection)
	if err != nil {
		return nil, err
	}
	return docstore.Distinct(all, field, filter), nil
}

// Update merges set into the stored document.
func (s *Storage) Update(ctx context.Context, collection string, key docstore.Key, set docstore.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(collection))
		if bucket == nil {
			return docstore.ErrNotFound
		}

		data := bucket.Get(key)
		if data == nil {
			return docstore.ErrNotFound
		}

		current, err := docstore.Unmarshal(data)
		if err != nil {
			return err
		}
		merged := current.Merge(set)

		if err := s.claimUnique(tx, collection, key, current, merged); err != nil {
			return err
		}

		updated, err := merged.Marshal()
		if err != nil {
			return err
		}
		if err := bucket.Put(key, updated); err != nil {
			return fmt.Errorf("failed to save document: %w", err)
		}
		return nil
	})
}

// Delete removes the document and its index entries.
func (s *Storage) Delete(ctx context.Context, collection string, key docstore.Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(collection))
		if bucket == nil {
			return docstore.ErrNotFound
		}

		data := bucket.Get(key)
		if data == nil {
			return docstore.ErrNotFound
		}

		current, err := docstore.Unmarshal(data)
		if err != nil {
			return err
		}
		for field, value := range s.indexes.UniqueValues(collection, current) {
			if idx := tx.Bucket(indexBucket(collection, field)); idx != nil {
				if err := idx.Delete([]byte(value)); err != nil {
					return fmt.Errorf("failed to delete index entry: %w", err)
				}
			}
		}

		return bucket.Delete(key)
	})
}

// scan loads every document of collection in key order.
func (s *Storage) scan(ctx context.Context, collection string) ([]docstore.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []docstore.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(collection))
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			doc, err := docstore.Unmarshal(v)
			if err != nil {
				return err
			}
			records = append(records, docstore.Record{Key: bytes.Clone(k), Doc: doc})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// claimUnique moves the index entries of key from the values in previous to
// the values in next, failing with ErrDuplicate if another document owns one.
func (s *Storage) claimUnique(tx *bbolt.Tx, collection string, key docstore.Key, previous, next docstore.Document) error {
	old := s.indexes.UniqueValues(collection, previous)
	current := s.indexes.UniqueValues(collection, next)
	for field, value := range current {
		idx, err := tx.CreateBucketIfNotExists(indexBucket(collection, field))
		if err != nil {
			return fmt.Errorf("failed to create index bucket: %w", err)
		}

		if owner := idx.Get([]byte(value)); owner != nil && !bytes.Equal(owner, key) {
			return fmt.Errorf("%w: %s.%s", docstore.ErrDuplicate, collection, field)
		}

		if prev, ok := old[field]; ok && prev != value {
			if err := idx.Delete([]byte(prev)); err != nil {
				return fmt.Errorf("failed to delete index entry: %w", err)
			}
		}
		if err := idx.Put([]byte(value), key); err != nil {
			return fmt.Errorf("failed to save index entry: %w", err)
		}
	}

	for field, prev := range old {
		if _, kept := current[field]; kept {
			continue
		}
		if idx := tx.Bucket(indexBucket(collection, field)); idx != nil {
			if err := idx.Delete([]byte(prev)); err != nil {
				return fmt.Errorf("failed to delete index entry: %w", err)
			}
		}
	}
	return nil
}
