package docstore

import (
	"encoding/json"
	"fmt"
	"time"
)

// timeLayout is fixed-width so formatted instants compare lexicographically
// in the same order as in time.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Document is the backend-neutral representation of a stored record. Values
// are limited to what JSON can carry; times go through FormatTime.
type Document map[string]any

// FormatTime converts t to the stored representation.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ParseTime reverses FormatTime. RFC 3339 input is accepted as well.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// String returns the string at key or "".
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Bool returns the boolean at key or false.
func (d Document) Bool(key string) bool {
	b, _ := d[key].(bool)
	return b
}

// Float returns the number at key or 0.
func (d Document) Float(key string) float64 {
	f, _ := toFloat(d[key])
	return f
}

// Int returns the number at key truncated to int.
func (d Document) Int(key string) int {
	return int(d.Float(key))
}

// Time returns the instant at key or the zero time when absent or unparsable.
func (d Document) Time(key string) time.Time {
	switch v := d[key].(type) {
	case time.Time:
		return v
	case string:
		t, err := ParseTime(v)
		if err != nil {
			return time.Time{}
		}
		return t
	default:
		return time.Time{}
	}
}

// Marshal encodes d for storage. time.Time values are normalized first.
func (d Document) Marshal() ([]byte, error) {
	data, err := json.Marshal(d.normalized())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a stored document.
func Unmarshal(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return d, nil
}

// Merge returns a copy of d with the fields of set applied.
func (d Document) Merge(set Document) Document {
	merged := make(Document, len(d)+len(set))
	for k, v := range d {
		merged[k] = v
	}
	for k, v := range set {
		merged[k] = normalize(v)
	}
	return merged
}

func (d Document) normalized() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = normalize(v)
	}
	return out
}
