package queue

import (
	"sync"
)

var _ Queue[int] = (*Synchronized[int])(nil)

// Synchronized is a FIFO guarded by a mutex, safe for use by multiple goroutines.
// No operation blocks other than waiting for the lock.
type Synchronized[T any] struct {
	mu sync.Mutex
	q  FIFO[T]
}

// NewSynchronized creates a thread-safe queue holding items, items[0] at the front.
func NewSynchronized[T any](items ...T) *Synchronized[T] {
	s := &Synchronized[T]{}
	if len(items) > 0 {
		s.q = *From(items...)
	}
	return s
}

// Enqueue adds an item to the back of the queue.
func (s *Synchronized[T]) Enqueue(item T) {
	s.mu.Lock()
	s.q.Enqueue(item)
	s.mu.Unlock()
}

// EnqueueBatch adds items atomically, in order.
func (s *Synchronized[T]) EnqueueBatch(items []T) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.EnqueueBatch(items)
}

// Dequeue removes and returns the front item. Returns false if queue is empty.
func (s *Synchronized[T]) Dequeue() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.Dequeue()
}

// Peek returns the front item without removing it.
func (s *Synchronized[T]) Peek() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.Peek()
}

// Drain removes up to max items in FIFO order under a single lock.
// A max <= 0 drains everything.
func (s *Synchronized[T]) Drain(max int) []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.q.Len()
	if max > 0 && max < n {
		n = max
	}
	if n == 0 {
		return nil
	}

	out := make([]T, n)
	s.q.DequeueBatch(out)
	return out
}

// Len returns the number of items in the queue.
func (s *Synchronized[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.Len()
}

// IsEmpty returns true if the queue holds no items.
func (s *Synchronized[T]) IsEmpty() bool { return s.Len() == 0 }

// Values returns a copy of the queue content, front first.
func (s *Synchronized[T]) Values() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.Values()
}

// Clear removes all items.
func (s *Synchronized[T]) Clear() {
	s.mu.Lock()
	s.q.Clear()
	s.mu.Unlock()
}

// Snapshot returns an unsynchronised copy of the queue.
func (s *Synchronized[T]) Snapshot() *FIFO[T] {
	return From(s.Values()...)
}

// Restore appends the content of q, front first.
func (s *Synchronized[T]) Restore(q *FIFO[T]) {
	s.EnqueueBatch(q.Values())
}
