package status

import (
	"maps"
	"slices"
	"sync"
)

// Family is a keyed set of metric cells of one kind
// Cell registers under a write lock; the frame loop caches the pointer and writes it lock-free
type Family[T any] struct {
	mu    sync.RWMutex
	cells map[string]*T
}

func NewFamily[T any]() *Family[T] {
	return &Family[T]{cells: make(map[string]*T)}
}

// Cell returns the cell for key, creating it on first use
func (f *Family[T]) Cell(key string) *T {
	f.mu.RLock()
	c, ok := f.cells[key]
	f.mu.RUnlock()
	if ok {
		return c
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok = f.cells[key]; !ok {
		c = new(T)
		f.cells[key] = c
	}
	return c
}

// Each visits cells in sorted key order so exports are stable
func (f *Family[T]) Each(fn func(key string, c *T)) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, k := range slices.Sorted(maps.Keys(f.cells)) {
		fn(k, f.cells[k])
	}
}

func (f *Family[T]) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.cells)
}
