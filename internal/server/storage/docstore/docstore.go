// Package docstore defines a minimal key-document store contract shared by the
// bbolt and SQL backends, plus the in-memory query evaluation they both use.
package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no document matches a key or filter.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate value for unique field")
	// ErrInvalidKey is returned when an external identifier is not a valid key.
	ErrInvalidKey = errors.New("invalid document key")
)

// Key is the store-native primary key of a document: the 16 raw bytes of a
// UUIDv7, so keys sort by creation time.
type Key []byte

// NewKey generates a fresh time-ordered key.
func NewKey() (Key, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return Key(id[:]), nil
}

// ParseKey converts an external identifier to a Key.
func ParseKey(s string) (Key, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return Key(id[:]), nil
}

// String returns the external identifier for k.
func (k Key) String() string {
	id, err := uuid.FromBytes(k)
	if err != nil {
		return ""
	}
	return id.String()
}

// Record is a stored document together with its key.
type Record struct {
	Key Key
	Doc Document
}

// Indexes lists the unique fields per collection. A write that would give two
// documents of a collection the same value for one of these fields fails with
// ErrDuplicate. Only string values are indexed.
type Indexes map[string][]string

// FindOptions controls ordering and paging of Find results.
type FindOptions struct {
	Sort  string // field name; empty keeps key order
	Desc  bool
	Skip  int
	Limit int // 0 means unlimited
}

// Store is implemented by every document backend.
type Store interface {
	// Insert stores doc under a freshly generated key.
	Insert(ctx context.Context, collection string, doc Document) (Key, error)

	// Get returns the document stored under key or ErrNotFound.
	Get(ctx context.Context, collection string, key Key) (Document, error)

	// FindOne returns the first document in key order matching filter or ErrNotFound.
	FindOne(ctx context.Context, collection string, filter Filter) (Record, error)

	// Find returns all documents matching filter, ordered and paged by opts.
	Find(ctx context.Context, collection string, filter Filter, opts FindOptions) ([]Record, error)

	// Update merges set into the document stored under key.
	Update(ctx context.Context, collection string, key Key, set Document) error

	// Delete removes the document stored under key.
	Delete(ctx context.Context, collection string, key Key) error

	// Distinct returns the distinct non-null values of field among matching documents.
	Distinct(ctx context.Context, collection, field string, filter Filter) ([]any, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// UniqueValues returns the indexed field values of doc for collection.
// Fields that are absent or not strings are skipped.
func (ix Indexes) UniqueValues(collection string, doc Document) map[string]string {
	fields := ix[collection]
	if len(fields) == 0 {
		return nil
	}
	values := make(map[string]string, len(fields))
	for _, field := range fields {
		if s, ok := doc[field].(string); ok {
			values[field] = s
		}
	}
	return values
}

// Lookup reports an indexed field of collection that filter pins to a string
// by equality. Backends resolve such filters through the index instead of
// scanning the collection.
func (ix Indexes) Lookup(collection string, filter Filter) (field, value string, ok bool) {
	for _, f := range ix[collection] {
		if v, isString := filter[f].(string); isString {
			return f, v, true
		}
	}
	return "", "", false
}
