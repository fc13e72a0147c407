// Package memory implements every repository on top of process-local maps.
// A Store is an explicit value: construct one per server (or per test) and
// inject its repositories; nothing here is package-global.
package memory

import (
	"fmt"
	"sync"

	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
)

type record[T any] interface {
	Clone() T
	Key() string
}

// table keeps rows keyed by id and remembers insertion order so listings are stable.
// Rows go in and come out as clones.
type table[T record[T]] struct {
	kind  string
	mu    sync.RWMutex
	order []string
	rows  map[string]T
}

func newTable[T record[T]](kind string) *table[T] {
	return &table[T]{kind: kind, rows: make(map[string]T)}
}

func (t *table[T]) list() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id].Clone())
	}
	return out
}

func (t *table[T]) get(id string) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		return nil, entity.NotFoundError(t.kind, id)
	}
	c := row.Clone()
	return &c, nil
}

func (t *table[T]) find(match func(T) bool) (*T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, id := range t.order {
		if row := t.rows[id]; match(row) {
			c := row.Clone()
			return &c, true
		}
	}
	return nil, false
}

// insert appends a new row. Ids are never reused: an empty or taken id is rejected.
func (t *table[T]) insert(v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := v.Key()
	if id == "" {
		return fmt.Errorf("%s: empty id: %w", t.kind, entity.ErrDuplicateID)
	}
	if _, ok := t.rows[id]; ok {
		return fmt.Errorf("%s %s: %w", t.kind, id, entity.ErrDuplicateID)
	}
	t.order = append(t.order, id)
	t.rows[id] = v.Clone()
	return nil
}

func (t *table[T]) replace(v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := v.Key()
	if _, ok := t.rows[id]; !ok {
		return entity.NotFoundError(t.kind, id)
	}
	t.rows[id] = v.Clone()
	return nil
}

func (t *table[T]) remove(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return entity.NotFoundError(t.kind, id)
	}
	delete(t.rows, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func (t *table[T]) count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
