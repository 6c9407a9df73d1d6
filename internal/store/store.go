// Package store is the record store adapter: a small contract over a
// key-value backend where every record is a JSON document addressed by a
// table name and a string primary key.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned by Update when the key is absent.
var ErrNotFound = errors.New("record not found")

// TimeLayout is the createdAt format. Fixed width so that string order is
// chronological order, which range scans rely on.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp formats t in TimeLayout, normalized to UTC.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Attributes names the fields changed by a partial update.
type Attributes map[string]any

// Backend is implemented by every key-value engine the service can run on.
// Scan returns documents in ascending key order.
type Backend interface {
	Get(ctx context.Context, table, key string) ([]byte, bool, error)
	Put(ctx context.Context, table, key string, doc []byte) error
	Scan(ctx context.Context, table string, filter Filter) ([][]byte, error)
	Update(ctx context.Context, table, key string, attrs Attributes) error
	Delete(ctx context.Context, table, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// mergeAttributes overwrites the named top-level fields of a JSON document.
func mergeAttributes(doc []byte, attrs Attributes) ([]byte, error) {
	fields := map[string]any{}
	if err := json.Unmarshal(doc, &fields); err != nil {
		return nil, err
	}
	for name, value := range attrs {
		fields[name] = value
	}
	return json.Marshal(fields)
}

// normalize turns arbitrary attribute values (structs, slices) into plain
// maps and slices using their JSON field names.
func normalize(attrs Attributes) (map[string]any, error) {
	raw, err := json.Marshal(attrs)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
