package batcher

// Consumer is the interface that must be implemented by users of the Batcher.
// It is responsible for processing a batch of items.
type Consumer[T any] interface {
	// Consume processes a batch of items, oldest first.
	// Returns an error if processing fails.
	Consume(batch []T) error
}

// ConsumerFunc adapts a function to Consumer.
type ConsumerFunc[T any] func(batch []T) error

func (f ConsumerFunc[T]) Consume(batch []T) error { return f(batch) }

// Config holds configuration for the Batcher.
type Config struct {
	// BatchSize is the largest batch handed to the Consumer.
	// Push flushes synchronously once this many items are pending.
	BatchSize int

	// FlushInterval is how often Run flushes pending items (milliseconds).
	FlushInterval int
}
