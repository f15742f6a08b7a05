package queue

var _ Queue[int] = (*FIFO[int])(nil)

// FIFO is an unbounded first-in-first-out queue built from two slices used as stacks.
//
// New items are appended to inbox. Dequeue pops from the end of outbox, which holds the
// oldest items in reverse order. When outbox runs dry the whole inbox is reversed into it,
// so every item is moved at most once between Enqueue and Dequeue and both operations are
// amortized O(1).
//
// Front to back, the queue content is reverse(outbox) followed by inbox.
//
// The zero value is an empty queue ready to use. It is NOT thread-safe; see Synchronized.
type FIFO[T any] struct {
	outbox []T // oldest items, front of the queue last
	inbox  []T // newest items, in arrival order

	moved uint64 // items transferred from inbox to outbox
}

// New creates an empty queue.
func New[T any]() *FIFO[T] {
	return &FIFO[T]{}
}

// From creates a queue holding items, items[0] at the front.
// The argument slice is copied, not retained.
func From[T any](items ...T) *FIFO[T] {
	q := &FIFO[T]{}
	if len(items) == 0 {
		return q
	}

	q.outbox = make([]T, len(items))
	for i, item := range items {
		q.outbox[len(items)-1-i] = item
	}
	return q
}

// Enqueue adds an item to the back of the queue.
func (q *FIFO[T]) Enqueue(item T) {
	q.inbox = append(q.inbox, item)
}

// EnqueueBatch adds items in order. Returns count of items enqueued.
func (q *FIFO[T]) EnqueueBatch(items []T) int {
	q.inbox = append(q.inbox, items...)
	return len(items)
}

// Dequeue removes and returns the front item. Returns false if queue is empty.
func (q *FIFO[T]) Dequeue() (T, bool) {
	var zero T

	if !q.refill() {
		return zero, false
	}

	last := len(q.outbox) - 1
	item := q.outbox[last]
	q.outbox[last] = zero
	q.outbox = q.outbox[:last]
	return item, true
}

// DequeueBatch removes items into out slice in FIFO order. Returns count dequeued.
func (q *FIFO[T]) DequeueBatch(out []T) int {
	count := 0
	for i := range out {
		item, ok := q.Dequeue()
		if !ok {
			break
		}
		out[i] = item
		count++
	}
	return count
}

// Peek returns the front item without removing it.
func (q *FIFO[T]) Peek() (T, bool) {
	if !q.refill() {
		var zero T
		return zero, false
	}
	return q.outbox[len(q.outbox)-1], true
}

// refill reverses inbox into outbox when outbox is empty.
// Reports whether there is anything to take from outbox.
func (q *FIFO[T]) refill() bool {
	if len(q.outbox) > 0 {
		return true
	}
	if len(q.inbox) == 0 {
		return false
	}

	// Swap buffers so the old outbox backing array is reused as the next inbox.
	q.outbox, q.inbox = q.inbox, q.outbox[:0]
	for i, j := 0, len(q.outbox)-1; i < j; i, j = i+1, j-1 {
		q.outbox[i], q.outbox[j] = q.outbox[j], q.outbox[i]
	}
	q.moved += uint64(len(q.outbox))
	return true
}

// Len returns the number of items in the queue.
func (q *FIFO[T]) Len() int { return len(q.outbox) + len(q.inbox) }

// IsEmpty returns true if the queue holds no items.
func (q *FIFO[T]) IsEmpty() bool { return q.Len() == 0 }

// Values returns a copy of the queue content, front first.
func (q *FIFO[T]) Values() []T {
	out := make([]T, 0, q.Len())
	for i := len(q.outbox) - 1; i >= 0; i-- {
		out = append(out, q.outbox[i])
	}
	return append(out, q.inbox...)
}

// Clear removes all items. Backing arrays are released.
func (q *FIFO[T]) Clear() {
	q.outbox = nil
	q.inbox = nil
}
