// Package memory provides in-process implementations of the repository
// contracts. Records are copied on every read and write so callers never
// share memory with the stored state.
package memory

import (
	"sort"
	"sync"
)

// table is a mutex guarded id -> record map with monotonic id assignment.
// Ids are never reused, so the ids slice stays sorted by appending.
type table[T any] struct {
	mu    sync.RWMutex
	seq   int64
	rows  map[int64]T
	ids   []int64
	clone func(T) T
	setID func(T, int64)
}

func newTable[T any](clone func(T) T, setID func(T, int64)) *table[T] {
	return &table[T]{
		rows:  make(map[int64]T),
		clone: clone,
		setID: setID,
	}
}

// insert stores a copy of v under a fresh id and returns that id.
func (t *table[T]) insert(v T) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	id := t.seq
	stored := t.clone(v)
	t.setID(stored, id)
	t.rows[id] = stored
	t.ids = append(t.ids, id)
	return id
}

func (t *table[T]) get(id int64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.clone(v), true
}

func (t *table[T]) has(id int64) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.rows[id]
	return ok
}

// replace overwrites the record stored under id. It reports false when id is absent.
func (t *table[T]) replace(id int64, v T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return false
	}
	stored := t.clone(v)
	t.setID(stored, id)
	t.rows[id] = stored
	return true
}

func (t *table[T]) remove(id int64) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	delete(t.rows, id)
	i := sort.Search(len(t.ids), func(i int) bool { return t.ids[i] >= id })
	if i < len(t.ids) && t.ids[i] == id {
		t.ids = append(t.ids[:i], t.ids[i+1:]...)
	}
	return v, true
}

// filter returns copies of the records matching keep, in ascending id order.
func (t *table[T]) filter(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0)
	for _, id := range t.ids {
		v := t.rows[id]
		if keep == nil || keep(v) {
			out = append(out, t.clone(v))
		}
	}
	return out
}

// page returns records [offset, offset+limit) in ascending id order and the total count.
func (t *table[T]) page(offset uint64, limit int) ([]T, int64) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	total := len(t.ids)
	start := total
	if offset < uint64(total) {
		start = int(offset)
	}
	end := start + limit
	if limit < 0 || end > total {
		end = total
	}

	out := make([]T, 0, end-start)
	for _, id := range t.ids[start:end] {
		out = append(out, t.clone(t.rows[id]))
	}
	return out, int64(total)
}

// last returns up to n records, highest id first.
func (t *table[T]) last(n int) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, n)
	for i := len(t.ids) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, t.clone(t.rows[t.ids[i]]))
	}
	return out
}
