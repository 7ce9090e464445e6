package pipeline

import "sync/atomic"

// Mirror is a single-producer/single-consumer double buffer for small,
// infrequently-updated state — camera pose, viewport size — that does
// not warrant a full TriBuffer. The writer publishes a new snapshot
// with PublishWith; the reader's Sync always returns the latest one.
type Mirror[T any] struct {
	current atomic.Pointer[T]
}

// NewMirror returns a Mirror seeded with an initial value.
func NewMirror[T any](initial T) *Mirror[T] {
	m := &Mirror[T]{}
	m.current.Store(&initial)
	return m
}

// PublishWith derives a new snapshot from the last-published one via fn
// and publishes it. fn must not retain or mutate its argument after
// returning.
func (m *Mirror[T]) PublishWith(fn func(prev T) T) {
	prev := m.current.Load()
	next := fn(*prev)
	m.current.Store(&next)
}

// Sync returns the most recently published snapshot.
func (m *Mirror[T]) Sync() T {
	return *m.current.Load()
}
