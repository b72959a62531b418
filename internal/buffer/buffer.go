// Package buffer provides a bounded, newest-first sequence used by the
// log and network collectors.
package buffer

import "sync"

// Ring keeps at most Cap entries, newest first. Pushing past capacity drops
// the oldest entry.
type Ring[T any] struct {
	mu      sync.RWMutex
	entries []T
	limit   int
}

// New builds a ring holding up to capacity entries. A non-positive capacity
// falls back to fallback.
func New[T any](capacity, fallback int) *Ring[T] {
	if capacity <= 0 {
		capacity = fallback
	}
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring[T]{limit: capacity, entries: make([]T, 0, capacity)}
}

// Push inserts v at the front.
func (r *Ring[T]) Push(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) < r.limit {
		r.entries = append(r.entries, v)
	}
	copy(r.entries[1:], r.entries[:len(r.entries)-1])
	r.entries[0] = v
}

// Snapshot returns a copy of the entries, newest first. The copy is shallow:
// maps and slices inside T are shared, so readers must treat them as
// read-only.
func (r *Ring[T]) Snapshot() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, len(r.entries))
	copy(out, r.entries)
	return out
}

// Filter returns a copy of the entries matching keep, preserving order.
func (r *Ring[T]) Filter(keep func(T) bool) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, 0)
	for _, e := range r.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func (r *Ring[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	for i := range r.entries {
		r.entries[i] = zero
	}
	r.entries = r.entries[:0]
}

func (r *Ring[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Ring[T]) Cap() int {
	return r.limit
}
