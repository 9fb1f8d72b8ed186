// Package queue implements the MPMC queues spec.md §4.5 calls for:
// incoming requests, completions, validated results and client-visible
// results. Each is FIFO per producer but not globally ordered across
// producers, which is all the scheduler ever relies on.
package queue

// Queue is a non-blocking multi-producer/multi-consumer queue of T,
// backed by a buffered channel the way the teacher's request/response
// pipelines are (pkg/c_scheduler/type.go's reqCh, pkg/d_executor.go's
// batchCh): Push never blocks the producer beyond the channel's
// capacity, and TryPop never blocks the consumer at all.
type Queue[T any] struct {
	ch chan T
}

// New returns a Queue with room for capacity buffered items before Push
// starts to block producers.
func New[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Queue[T]{ch: make(chan T, capacity)}
}

// Push enqueues v.
func (q *Queue[T]) Push(v T) {
	q.ch <- v
}

// TryPop removes and returns the oldest item from some producer's stream
// if one is available, without blocking.
func (q *Queue[T]) TryPop() (v T, ok bool) {
	select {
	case v = <-q.ch:
		return v, true
	default:
		return v, false
	}
}

// Pop blocks until an item is available.
func (q *Queue[T]) Pop() T {
	return <-q.ch
}
