package store

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// Memory is an in-process Backend useful for tests and local runs.
type Memory struct {
	mu     sync.RWMutex
	tables map[string]map[string][]byte
}

var _ Backend = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{tables: make(map[string]map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, table, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.tables[table][key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(doc), true, nil
}

func (m *Memory) Put(_ context.Context, table, key string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, ok := m.tables[table]
	if !ok {
		rows = make(map[string][]byte)
		m.tables[table] = rows
	}
	rows[strings.Clone(key)] = slices.Clone(doc)
	return nil
}

func (m *Memory) Scan(_ context.Context, table string, filter Filter) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.tables[table]
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([][]byte, 0, len(keys))
	for _, k := range keys {
		ok, err := matches(filter, rows[k])
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, slices.Clone(rows[k]))
		}
	}
	return out, nil
}

func (m *Memory) Update(_ context.Context, table, key string, attrs Attributes) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.tables[table][key]
	if !ok {
		return ErrNotFound
	}
	merged, err := mergeAttributes(doc, attrs)
	if err != nil {
		return err
	}
	// assignment also replaces the stored key, which may alias a request buffer
	m.tables[table][strings.Clone(key)] = merged
	return nil
}

func (m *Memory) Delete(_ context.Context, table, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tables[table], key)
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
