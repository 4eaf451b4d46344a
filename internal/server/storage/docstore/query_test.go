package docstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(t *testing.T, docs ...Document) []Record {
	t.Helper()
	out := make([]Record, 0, len(docs))
	for _, d := range docs {
		key, err := NewKey()
		require.NoError(t, err)
		// Round-trip through JSON the way backends do.
		data, err := d.Marshal()
		require.NoError(t, err)
		stored, err := Unmarshal(data)
		require.NoError(t, err)
		out = append(out, Record{Key: key, Doc: stored})
	}
	return out
}

func names(rs []Record) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Doc.String("name"))
	}
	return out
}

func TestKey_ParseAndString(t *testing.T) {
	key, err := NewKey()
	require.NoError(t, err)
	assert.Len(t, key, 16)

	parsed, err := ParseKey(key.String())
	require.NoError(t, err)
	assert.Equal(t, key, parsed)

	_, err = ParseKey("not-a-key")
	assert.ErrorIs(t, err, ErrInvalidKey)

	assert.Empty(t, Key([]byte{1, 2}).String())
}

func TestNewKey_TimeOrdered(t *testing.T) {
	first, err := NewKey()
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := NewKey()
	require.NoError(t, err)

	assert.Less(t, first.String(), second.String())
}

func TestFilter_Matches(t *testing.T) {
	day := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	rs := records(t, Document{
		"name":   "wheat",
		"season": "rabi",
		"price":  2100,
		"active": true,
		"date":   day.Add(3 * time.Hour),
	})
	doc := rs[0].Doc

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{name: "empty filter", filter: nil, want: true},
		{name: "string equality", filter: Filter{"season": "rabi"}, want: true},
		{name: "string mismatch", filter: Filter{"season": "kharif"}, want: false},
		{name: "int against stored float", filter: Filter{"price": 2100}, want: true},
		{name: "bool equality", filter: Filter{"active": true}, want: true},
		{name: "type mismatch", filter: Filter{"price": "2100"}, want: false},
		{name: "missing field", filter: Filter{"owner_id": "x"}, want: false},
		{name: "missing field nil", filter: Filter{"owner_id": nil}, want: true},
		{name: "time lower bound", filter: Filter{"date": Range{Gte: day}}, want: true},
		{name: "time lower bound excludes", filter: Filter{"date": Range{Gte: day.Add(24 * time.Hour)}}, want: false},
		{name: "time upper bound exclusive", filter: Filter{"date": Range{Lt: day.Add(3 * time.Hour)}}, want: false},
		{name: "number range", filter: Filter{"price": Range{Gte: 2000, Lt: 2200}}, want: true},
		{name: "range on missing field", filter: Filter{"rainfall": Range{Gte: 0}}, want: false},
		{name: "all conditions", filter: Filter{"season": "rabi", "active": false}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(doc))
		})
	}
}

func TestQuery_SortSkipLimit(t *testing.T) {
	rs := records(t,
		Document{"name": "c", "price": 30.0},
		Document{"name": "a", "price": 10.0},
		Document{"name": "b", "price": 20.0},
		Document{"name": "d"},
	)

	tests := []struct {
		name string
		opts FindOptions
		want []string
	}{
		{name: "key order", opts: FindOptions{}, want: []string{"c", "a", "b", "d"}},
		{name: "key order desc", opts: FindOptions{Desc: true}, want: []string{"d", "b", "a", "c"}},
		{name: "sort by name", opts: FindOptions{Sort: "name"}, want: []string{"a", "b", "c", "d"}},
		{name: "sort by price desc", opts: FindOptions{Sort: "price", Desc: true}, want: []string{"c", "b", "a", "d"}},
		{name: "missing sorts first", opts: FindOptions{Sort: "price"}, want: []string{"d", "a", "b", "c"}},
		{name: "skip and limit", opts: FindOptions{Sort: "name", Skip: 1, Limit: 2}, want: []string{"b", "c"}},
		{name: "skip past end", opts: FindOptions{Skip: 10}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Query(rs, nil, tt.opts)))
		})
	}
}

func TestDistinct(t *testing.T) {
	rs := records(t,
		Document{"market_name": "Indore", "crop_id": "1"},
		Document{"market_name": "Bhopal", "crop_id": "1"},
		Document{"market_name": "Indore", "crop_id": "2"},
		Document{"crop_id": "3"},
	)

	assert.Equal(t, []any{"Indore", "Bhopal"}, Distinct(rs, "market_name", nil))
	assert.Equal(t, []any{"Indore"}, Distinct(rs, "market_name", Filter{"crop_id": "2"}))
	assert.Empty(t, Distinct(rs, "unknown", nil))
}

func TestDocument_Accessors(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 6000, time.UTC)
	rs := records(t, Document{
		"name":     "wheat",
		"duration": 120,
		"area":     2.5,
		"active":   true,
		"at":       at,
	})
	doc := rs[0].Doc

	assert.Equal(t, "wheat", doc.String("name"))
	assert.Equal(t, 120, doc.Int("duration"))
	assert.InDelta(t, 2.5, doc.Float("area"), 1e-9)
	assert.True(t, doc.Bool("active"))
	assert.True(t, at.Equal(doc.Time("at")))

	assert.Empty(t, doc.String("duration"))
	assert.False(t, doc.Bool("missing"))
	assert.True(t, doc.Time("name").IsZero())
}

func TestDocument_Merge(t *testing.T) {
	orig := Document{"name": "a", "area": 1.0}
	merged := orig.Merge(Document{"area": 2, "soil_type": "black"})

	assert.Equal(t, Document{"name": "a", "area": 2.0, "soil_type": "black"}, merged)
	assert.Equal(t, 1.0, orig["area"], "merge must not mutate the receiver")
}

func TestIndexes_UniqueValues(t *testing.T) {
	ix := Indexes{"accounts": {"email"}}

	assert.Equal(t, map[string]string{"email": "a@x.com"},
		ix.UniqueValues("accounts", Document{"email": "a@x.com", "phone": "1"}))
	assert.Empty(t, ix.UniqueValues("accounts", Document{"email": 5}))
	assert.Nil(t, ix.UniqueValues("farms", Document{"email": "a@x.com"}))
}

func TestIndexes_Lookup(t *testing.T) {
	ix := Indexes{"accounts": {"email"}}

	tests := []struct {
		name       string
		collection string
		filter     Filter
		wantValue  string
		wantOK     bool
	}{
		{name: "indexed equality", collection: "accounts", filter: Filter{"email": "a@x.com", "active": true}, wantValue: "a@x.com", wantOK: true},
		{name: "unindexed field", collection: "accounts", filter: Filter{"phone": "1"}},
		{name: "range on indexed field", collection: "accounts", filter: Filter{"email": Range{Gte: "a"}}},
		{name: "unindexed collection", collection: "farms", filter: Filter{"email": "a@x.com"}},
		{name: "nil filter", collection: "accounts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, value, ok := ix.Lookup(tt.collection, tt.filter)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantValue, value)
			if ok {
				assert.Equal(t, "email", field)
			}
		})
	}
}
