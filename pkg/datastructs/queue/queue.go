package queue

// Queue is a generic interface for unbounded FIFO queues.
type Queue[T any] interface {
	// Enqueue adds an item to the back of the queue.
	Enqueue(item T)

	// Dequeue removes and returns the item at the front of the queue.
	// Returns (item, true) if successful, (zero, false) if the queue is empty.
	Dequeue() (T, bool)

	// Len returns the number of items in the queue.
	Len() int
}
