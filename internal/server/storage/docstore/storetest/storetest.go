// Package storetest holds a behavioral test suite every docstore.Store
// backend must pass.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fasalsaathi/internal/server/storage/docstore"
)

// Indexes is the index set the suite opens stores with.
var Indexes = docstore.Indexes{"people": {"email"}}

// Factory opens an empty store configured with the given indexes.
type Factory func(t *testing.T, indexes docstore.Indexes) docstore.Store

// Run executes the suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s docstore.Store)
	}{
		{"InsertGet", testInsertGet},
		{"GetMissing", testGetMissing},
		{"FindOne", testFindOne},
		{"FindOneIndexed", testFindOneIndexed},
		{"Find", testFind},
		{"Update", testUpdate},
		{"Delete", testDelete},
		{"UniqueInsert", testUniqueInsert},
		{"UniqueUpdate", testUniqueUpdate},
		{"UniqueConcurrent", testUniqueConcurrent},
		{"Distinct", testDistinct},
		{"CanceledContext", testCanceledContext},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t, Indexes)
			t.Cleanup(func() {
				_ = s.Close()
			})
			tt.fn(t, s)
		})
	}
}

func testInsertGet(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	at := time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC)

	key, err := s.Insert(ctx, "people", docstore.Document{
		"email":  "a@x.com",
		"age":    31,
		"active": true,
		"joined": at,
	})
	require.NoError(t, err)
	require.Len(t, key, 16)

	doc, err := s.Get(ctx, "people", key)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", doc.String("email"))
	assert.Equal(t, 31, doc.Int("age"))
	assert.True(t, doc.Bool("active"))
	assert.True(t, at.Equal(doc.Time("joined")))

	require.NoError(t, s.Ping(ctx))
}

func testGetMissing(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	key, err := docstore.NewKey()
	require.NoError(t, err)

	_, err = s.Get(ctx, "people", key)
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	_, err = s.Get(ctx, "never_created", key)
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	assert.ErrorIs(t, s.Update(ctx, "people", key, docstore.Document{"x": 1}), docstore.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "people", key), docstore.ErrNotFound)
}

func testFindOne(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	first, err := s.Insert(ctx, "people", docstore.Document{"email": "a@x.com", "team": "red"})
	require.NoError(t, err)
	_, err = s.Insert(ctx, "people", docstore.Document{"email": "b@x.com", "team": "red"})
	require.NoError(t, err)

	rec, err := s.FindOne(ctx, "people", docstore.Filter{"team": "red"})
	require.NoError(t, err)
	assert.Equal(t, first, rec.Key)
	assert.Equal(t, "a@x.com", rec.Doc.String("email"))

	_, err = s.FindOne(ctx, "people", docstore.Filter{"team": "blue"})
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	_, err = s.FindOne(ctx, "never_created", nil)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func testFindOneIndexed(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	key, err := s.Insert(ctx, "people", docstore.Document{"email": "a@x.com", "team": "red"})
	require.NoError(t, err)
	_, err = s.Insert(ctx, "people", docstore.Document{"email": "b@x.com", "team": "blue"})
	require.NoError(t, err)

	rec, err := s.FindOne(ctx, "people", docstore.Filter{"email": "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, key, rec.Key)
	assert.Equal(t, "red", rec.Doc.String("team"))

	// Remaining conditions still apply to the indexed match.
	_, err = s.FindOne(ctx, "people", docstore.Filter{"email": "a@x.com", "team": "blue"})
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	_, err = s.FindOne(ctx, "people", docstore.Filter{"email": "nobody@x.com"})
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	// The index follows updates and deletes.
	require.NoError(t, s.Update(ctx, "people", key, docstore.Document{"email": "c@x.com"}))
	_, err = s.FindOne(ctx, "people", docstore.Filter{"email": "a@x.com"})
	assert.ErrorIs(t, err, docstore.ErrNotFound)
	rec, err = s.FindOne(ctx, "people", docstore.Filter{"email": "c@x.com"})
	require.NoError(t, err)
	assert.Equal(t, key, rec.Key)

	require.NoError(t, s.Delete(ctx, "people", key))
	_, err = s.FindOne(ctx, "people", docstore.Filter{"email": "c@x.com"})
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func testFind(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	crops := []string{"wheat", "rice", "wheat", "rice"}
	for i, name := range []string{"c", "a", "d", "b"} {
		_, err := s.Insert(ctx, "prices", docstore.Document{
			"name":  name,
			"crop":  crops[i],
			"price": float64(100 * (i + 1)),
			"date":  base.AddDate(0, 0, i),
		})
		require.NoError(t, err)
	}

	all, err := s.Find(ctx, "prices", nil, docstore.FindOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "d", "b"}, names(all))

	sorted, err := s.Find(ctx, "prices", nil, docstore.FindOptions{Sort: "name"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, names(sorted))

	wheat, err := s.Find(ctx, "prices", docstore.Filter{"crop": "wheat"}, docstore.FindOptions{Sort: "date", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c"}, names(wheat))

	recent, err := s.Find(ctx, "prices",
		docstore.Filter{"date": docstore.Range{Gte: base.AddDate(0, 0, 2)}},
		docstore.FindOptions{Sort: "date"})
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "b"}, names(recent))

	page, err := s.Find(ctx, "prices", nil, docstore.FindOptions{Sort: "price", Desc: true, Skip: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "a"}, names(page))

	none, err := s.Find(ctx, "never_created", nil, docstore.FindOptions{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testUpdate(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	key, err := s.Insert(ctx, "people", docstore.Document{"email": "a@x.com", "name": "A", "active": true})
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, "people", key, docstore.Document{"active": false, "phone": "9999999999"}))

	doc, err := s.Get(ctx, "people", key)
	require.NoError(t, err)
	assert.Equal(t, "A", doc.String("name"))
	assert.False(t, doc.Bool("active"))
	assert.Equal(t, "9999999999", doc.String("phone"))
}

func testDelete(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	key, err := s.Insert(ctx, "people", docstore.Document{"email": "a@x.com"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "people", key))

	_, err = s.Get(ctx, "people", key)
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	// The unique value is released with the document.
	_, err = s.Insert(ctx, "people", docstore.Document{"email": "a@x.com"})
	assert.NoError(t, err)
}

func testUniqueInsert(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	first, err := s.Insert(ctx, "people", docstore.Document{"email": "a@x.com", "name": "first"})
	require.NoError(t, err)

	_, err = s.Insert(ctx, "people", docstore.Document{"email": "a@x.com", "name": "second"})
	assert.ErrorIs(t, err, docstore.ErrDuplicate)

	doc, err := s.Get(ctx, "people", first)
	require.NoError(t, err)
	assert.Equal(t, "first", doc.String("name"))

	all, err := s.Find(ctx, "people", nil, docstore.FindOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// Unindexed collections accept repeated values.
	_, err = s.Insert(ctx, "notes", docstore.Document{"email": "a@x.com"})
	require.NoError(t, err)
	_, err = s.Insert(ctx, "notes", docstore.Document{"email": "a@x.com"})
	require.NoError(t, err)
}

func testUniqueUpdate(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	a, err := s.Insert(ctx, "people", docstore.Document{"email": "a@x.com"})
	require.NoError(t, err)
	b, err := s.Insert(ctx, "people", docstore.Document{"email": "b@x.com"})
	require.NoError(t, err)

	err = s.Update(ctx, "people", b, docstore.Document{"email": "a@x.com"})
	assert.ErrorIs(t, err, docstore.ErrDuplicate)

	// Rewriting a document's own value is not a conflict.
	require.NoError(t, s.Update(ctx, "people", a, docstore.Document{"email": "a@x.com", "name": "A"}))

	require.NoError(t, s.Update(ctx, "people", a, docstore.Document{"email": "c@x.com"}))
	_, err = s.Insert(ctx, "people", docstore.Document{"email": "a@x.com"})
	assert.NoError(t, err, "old value must be released after update")

	_, err = s.Insert(ctx, "people", docstore.Document{"email": "c@x.com"})
	assert.ErrorIs(t, err, docstore.ErrDuplicate)
}

func testUniqueConcurrent(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	const workers = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		dupes     int
		other     []error
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Insert(ctx, "people", docstore.Document{"email": "race@x.com"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, docstore.ErrDuplicate):
				dupes++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, other)
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, dupes)
}

func testDistinct(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	for _, m := range []string{"Indore", "Bhopal", "Indore", "Ujjain"} {
		_, err := s.Insert(ctx, "prices", docstore.Document{"market_name": m})
		require.NoError(t, err)
	}
	_, err := s.Insert(ctx, "prices", docstore.Document{"price": 10})
	require.NoError(t, err)

	values, err := s.Distinct(ctx, "prices", "market_name", nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []any{"Indore", "Bhopal", "Ujjain"}, values)
}

func testCanceledContext(t *testing.T, s docstore.Store) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Insert(ctx, "people", docstore.Document{"email": "a@x.com"})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.Find(ctx, "people", nil, docstore.FindOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func names(rs []docstore.Record) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Doc.String("name"))
	}
	return out
}
