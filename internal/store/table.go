package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Table is a typed view over one backend table.
type Table[T any] struct {
	backend Backend
	name    string
}

func NewTable[T any](backend Backend, name string) *Table[T] {
	return &Table[T]{backend: backend, name: name}
}

// Get returns found=false without error when the key is absent.
func (t *Table[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var rec T
	doc, found, err := t.backend.Get(ctx, t.name, key)
	if err != nil || !found {
		return rec, false, err
	}
	if err := json.Unmarshal(doc, &rec); err != nil {
		return rec, false, fmt.Errorf("decode %s/%s: %w", t.name, key, err)
	}
	return rec, true, nil
}

func (t *Table[T]) Put(ctx context.Context, key string, rec T) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", t.name, key, err)
	}
	return t.backend.Put(ctx, t.name, key, doc)
}

func (t *Table[T]) Scan(ctx context.Context, filter Filter) ([]T, error) {
	docs, err := t.backend.Scan(ctx, t.name, filter)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var rec T
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", t.name, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (t *Table[T]) Update(ctx context.Context, key string, attrs Attributes) error {
	return t.backend.Update(ctx, t.name, key, attrs)
}

func (t *Table[T]) Delete(ctx context.Context, key string) error {
	return t.backend.Delete(ctx, t.name, key)
}
