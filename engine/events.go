package engine

import (
	"maps"
	"slices"
	"sync"
)

// ResizeEvent carries the new surface extent
type ResizeEvent struct {
	// ViewportWidth selects the viewport class, 0 means use the controller's viewport func
	ViewportWidth int
	// Width and Height are the surface size in pixels, 0 means read the surface
	Width, Height int
}

// DetachFunc removes a listener
type DetachFunc func() error

// EventSource is where the controller subscribes to host signals
// A source that cannot observe a signal returns ErrListenerUnavailable
type EventSource interface {
	OnResize(fn func(ResizeEvent)) (DetachFunc, error)
	OnVisibility(fn func(visible bool)) (DetachFunc, error)
	OnIntersection(fn func(intersecting bool)) (DetachFunc, error)
}

// Dispatcher is an in-process EventSource
// Front ends translate their native events into Dispatch calls
type Dispatcher struct {
	mu           sync.Mutex
	nextID       int
	resize       map[int]func(ResizeEvent)
	visibility   map[int]func(bool)
	intersection map[int]func(bool)
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		resize:       make(map[int]func(ResizeEvent)),
		visibility:   make(map[int]func(bool)),
		intersection: make(map[int]func(bool)),
	}
}

func (d *Dispatcher) OnResize(fn func(ResizeEvent)) (DetachFunc, error) {
	return subscribe(d, d.resize, fn), nil
}

func (d *Dispatcher) OnVisibility(fn func(bool)) (DetachFunc, error) {
	return subscribe(d, d.visibility, fn), nil
}

func (d *Dispatcher) OnIntersection(fn func(bool)) (DetachFunc, error) {
	return subscribe(d, d.intersection, fn), nil
}

func (d *Dispatcher) DispatchResize(ev ResizeEvent) {
	for _, fn := range snapshot(d, d.resize) {
		fn(ev)
	}
}

func (d *Dispatcher) DispatchVisibility(visible bool) {
	for _, fn := range snapshot(d, d.visibility) {
		fn(visible)
	}
}

func (d *Dispatcher) DispatchIntersection(intersecting bool) {
	for _, fn := range snapshot(d, d.intersection) {
		fn(intersecting)
	}
}

// Listeners counts attached listeners across all signals
func (d *Dispatcher) Listeners() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.resize) + len(d.visibility) + len(d.intersection)
}

func subscribe[F any](d *Dispatcher, m map[int]F, fn F) DetachFunc {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	m[id] = fn
	return func() error {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(m, id)
		return nil
	}
}

// snapshot copies listeners in attach order so callbacks run without the lock
func snapshot[F any](d *Dispatcher, m map[int]F) []F {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]F, 0, len(m))
	for _, id := range slices.Sorted(maps.Keys(m)) {
		out = append(out, m[id])
	}
	return out
}
