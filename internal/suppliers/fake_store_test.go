package suppliers

import (
	"context"
	"fmt"
	"sync"

	"github.com/ivy-monitoring/supplier-api/internal/store"
)

type call struct {
	op    store.Op
	table string
}

// memStore is an in-memory store.Client with per-table error injection.
type memStore struct {
	mu     sync.Mutex
	tables map[string][]store.Row
	fail   map[string]error
	calls  []call
	nextID int64
}

func newMemStore() *memStore {
	return &memStore{
		tables: make(map[string][]store.Row),
		fail:   make(map[string]error),
		nextID: 100,
	}
}

func (m *memStore) seed(table string, rows ...store.Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = append(m.tables[table], rows...)
}

func (m *memStore) callsTo(op store.Op) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func (m *memStore) record(op store.Op, table string) error {
	m.calls = append(m.calls, call{op: op, table: table})
	return m.fail[table]
}

func matches(row store.Row, f *store.Filter) bool {
	if f == nil {
		return true
	}
	return fmt.Sprint(row[f.Column]) == fmt.Sprint(f.Value)
}

func copyRow(row store.Row) store.Row {
	out := make(store.Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

func (m *memStore) Select(ctx context.Context, table string, filter *store.Filter) ([]store.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(store.OpSelect, table); err != nil {
		return nil, err
	}
	out := []store.Row{}
	for _, row := range m.tables[table] {
		if matches(row, filter) {
			out = append(out, copyRow(row))
		}
	}
	return out, nil
}

func (m *memStore) Insert(ctx context.Context, table string, values store.Row) ([]store.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(store.OpInsert, table); err != nil {
		return nil, err
	}
	row := copyRow(values)
	m.nextID++
	row["id"] = m.nextID
	m.tables[table] = append(m.tables[table], row)
	return []store.Row{copyRow(row)}, nil
}

func (m *memStore) Update(ctx context.Context, table string, values store.Row, filter store.Filter) ([]store.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(store.OpUpdate, table); err != nil {
		return nil, err
	}
	out := []store.Row{}
	for _, row := range m.tables[table] {
		if matches(row, &filter) {
			for k, v := range values {
				row[k] = v
			}
			out = append(out, copyRow(row))
		}
	}
	return out, nil
}

func (m *memStore) Delete(ctx context.Context, table string, filter store.Filter) ([]store.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(store.OpDelete, table); err != nil {
		return nil, err
	}
	kept := []store.Row{}
	out := []store.Row{}
	for _, row := range m.tables[table] {
		if matches(row, &filter) {
			out = append(out, row)
			continue
		}
		kept = append(kept, row)
	}
	m.tables[table] = kept
	return out, nil
}
