// Package queue provides the bounded, concurrently appendable work queues that
// every wavefront pass reads from and writes to, and the worker pool that
// drains them.
package queue

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// ErrOverflow is matched by every *OverflowError
var ErrOverflow = errors.New("work queue overflow")

// OverflowError reports a push beyond a queue's fixed capacity. Queues are
// sized for the worst-case fan-out of a pass, so this is a configuration
// fault and the pass that hit it must be abandoned.
type OverflowError struct {
	Queue    string
	Capacity int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("work queue %q overflow: capacity %d exceeded", e.Queue, e.Capacity)
}

// Is lets errors.Is(err, ErrOverflow) match
func (e *OverflowError) Is(target error) bool {
	return target == ErrOverflow
}

// WorkQueue is a fixed-capacity append-only collection of work items.
// Push may be called from any number of goroutines; slots are reserved with
// an atomic counter so no two producers ever share one. Items are stored by
// value and are only read after the producing pass has finished.
type WorkQueue[T any] struct {
	name   string
	items  []T   // Pre-allocated buffer, never grown
	length int64 // Atomic write cursor

	pushes    prometheus.Counter
	overflows prometheus.Counter
	drained   prometheus.Gauge
}

// NewWorkQueue creates a queue holding at most capacity items. metrics may be nil.
func NewWorkQueue[T any](name string, capacity int, metrics *Metrics) *WorkQueue[T] {
	if capacity <= 0 {
		panic(fmt.Sprintf("work queue %q: capacity must be positive, got %d", name, capacity))
	}
	q := &WorkQueue[T]{
		name:  name,
		items: make([]T, capacity),
	}
	if metrics != nil {
		q.pushes = metrics.pushes.WithLabelValues(name)
		q.overflows = metrics.overflows.WithLabelValues(name)
		q.drained = metrics.drained.WithLabelValues(name)
	}
	return q
}

// Push appends item and returns its slot index. Exceeding the capacity
// panics with *OverflowError; the draining Pool turns that into a pass error.
func (q *WorkQueue[T]) Push(item T) int {
	index := atomic.AddInt64(&q.length, 1) - 1
	if int(index) >= len(q.items) {
		if q.overflows != nil {
			q.overflows.Inc()
		}
		panic(&OverflowError{Queue: q.name, Capacity: len(q.items)})
	}
	q.items[index] = item
	if q.pushes != nil {
		q.pushes.Inc()
	}
	return int(index)
}

// Size returns the number of items currently stored
func (q *WorkQueue[T]) Size() int {
	return min(int(atomic.LoadInt64(&q.length)), len(q.items))
}

// Capacity returns the fixed capacity
func (q *WorkQueue[T]) Capacity() int {
	return len(q.items)
}

// Name returns the queue name used in errors and metrics
func (q *WorkQueue[T]) Name() string {
	return q.name
}

// At returns the item in slot i. It must only be called once the producing
// pass has completed.
func (q *WorkQueue[T]) At(i int) T {
	return q.items[i]
}

// Items returns a copy of all stored items, in slot order
func (q *WorkQueue[T]) Items() []T {
	n := q.Size()
	result := make([]T, n)
	copy(result, q.items[:n])
	return result
}

// Reset empties the queue before the pass that refills it
func (q *WorkQueue[T]) Reset() {
	if q.drained != nil {
		q.drained.Set(float64(q.Size()))
	}
	atomic.StoreInt64(&q.length, 0) // Length controls access; stale slots are overwritten
}
