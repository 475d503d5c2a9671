package collections

import "sync"

// Ring is a thread-safe circular buffer.
// It keeps the most recent values and allows concurrent reads while writing.
type Ring[T any] struct {
	values []T
	head   int // Next write position
	count  int // Number of valid values (up to capacity)
	mu     sync.RWMutex
}

// NewRing creates a ring buffer with the given capacity.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}

	return &Ring[T]{
		values: make([]T, capacity),
	}
}

// Push appends values to the buffer, overwriting the oldest if full.
func (r *Ring[T]) Push(values ...T) {
	if len(values) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	capacity := len(r.values)

	for _, v := range values {
		r.values[r.head] = v
		r.head = (r.head + 1) % capacity

		if r.count < capacity {
			r.count++
		}
	}
}

// Last returns up to n most recent values in chronological order.
func (r *Ring[T]) Last(n int) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.count == 0 || n <= 0 {
		return nil
	}

	n = min(n, r.count)

	result := make([]T, n)
	capacity := len(r.values)

	// head points to next write position, so the last n start at (head - n)
	start := (r.head - n + capacity) % capacity

	for i := range n {
		result[i] = r.values[(start+i)%capacity]
	}

	return result
}

// Len returns the number of valid values in the buffer.
func (r *Ring[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.count
}

// Reset drops all values.
func (r *Ring[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.head = 0
	r.count = 0
}
