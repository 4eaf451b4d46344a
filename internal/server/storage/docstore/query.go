package docstore

import (
	"bytes"
	"cmp"
	"slices"
	"strings"
	"time"
)

// Filter selects documents by field. A plain value requires equality; a Range
// value bounds the field. All entries must match.
type Filter map[string]any

// Range matches values v with Gte <= v < Lt. Nil bounds are open.
type Range struct {
	Gte any
	Lt  any
}

// Matches reports whether doc satisfies every condition of f.
func (f Filter) Matches(doc Document) bool {
	for field, cond := range f {
		value, ok := doc[field]
		if r, isRange := cond.(Range); isRange {
			if !ok || !r.contains(value) {
				return false
			}
			continue
		}
		if !ok {
			if cond != nil {
				return false
			}
			continue
		}
		if c, comparable := compare(value, cond); !comparable || c != 0 {
			return false
		}
	}
	return true
}

func (r Range) contains(v any) bool {
	if r.Gte != nil {
		c, ok := compare(v, r.Gte)
		if !ok || c < 0 {
			return false
		}
	}
	if r.Lt != nil {
		c, ok := compare(v, r.Lt)
		if !ok || c >= 0 {
			return false
		}
	}
	return true
}

// Query applies filter and opts to records, which must be in key order.
// Backends that cannot evaluate filters natively load a collection and call it.
func Query(records []Record, filter Filter, opts FindOptions) []Record {
	matched := make([]Record, 0, len(records))
	for _, r := range records {
		if filter.Matches(r.Doc) {
			matched = append(matched, r)
		}
	}

	if opts.Sort != "" {
		slices.SortStableFunc(matched, func(a, b Record) int {
			c := compareForSort(a.Doc[opts.Sort], b.Doc[opts.Sort])
			if opts.Desc {
				return -c
			}
			return c
		})
	} else if opts.Desc {
		slices.Reverse(matched)
	}

	if opts.Skip > 0 {
		if opts.Skip >= len(matched) {
			return []Record{}
		}
		matched = matched[opts.Skip:]
	}
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	return matched
}

// Distinct collects the distinct non-null values of field in first-seen order.
func Distinct(records []Record, field string, filter Filter) []any {
	var values []any
	for _, r := range records {
		if !filter.Matches(r.Doc) {
			continue
		}
		v, ok := r.Doc[field]
		if !ok || v == nil {
			continue
		}
		seen := slices.ContainsFunc(values, func(existing any) bool {
			c, ok := compare(existing, v)
			return ok && c == 0
		})
		if !seen {
			values = append(values, v)
		}
	}
	return values
}

// SortKeys orders records by key, the native order of both backends.
func SortKeys(records []Record) {
	slices.SortFunc(records, func(a, b Record) int {
		return bytes.Compare(a.Key, b.Key)
	})
}

// compareForSort orders missing and incomparable values first.
func compareForSort(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	c, ok := compare(a, b)
	if !ok {
		return 0
	}
	return c
}

// compare orders two scalar values of the same kind.
func compare(a, b any) (int, bool) {
	a, b = normalize(a), normalize(b)

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case float64:
		bv, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		return cmp.Compare(av, bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		if av == bv {
			return 0, true
		}
		if !av {
			return -1, true
		}
		return 1, true
	default:
		return 0, false
	}
}

func normalize(v any) any {
	switch x := v.(type) {
	case time.Time:
		return FormatTime(x)
	case *time.Time:
		if x == nil {
			return nil
		}
		return FormatTime(*x)
	case int, int32, int64, float32, uint, uint32, uint64:
		f, _ := toFloat(x)
		return f
	default:
		return v
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}
