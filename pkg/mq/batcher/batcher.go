package batcher

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/huynhanx03/go-fifo/pkg/datastructs/queue"
	"github.com/huynhanx03/go-fifo/pkg/logger"
	"github.com/huynhanx03/go-fifo/pkg/utils"
)

const (
	defaultBatchSize     = 512
	defaultFlushInterval = 100 // millis
)

// Batcher collects items in a FIFO queue and hands them to a Consumer in
// arrival order, in batches of at most BatchSize.
//
// Behavior:
//   - Multiple goroutines can call Push() concurrently.
//   - A full batch is flushed by the Push that completes it.
//   - Run flushes on a timer and drains everything pending when ctx ends.
//     Items pushed after Run has returned are flushed by Push itself.
//   - A failed batch is logged and dropped; retries belong in the Consumer.
type Batcher[T any] struct {
	cons     Consumer[T]
	flushMu  sync.Mutex // one batch in flight keeps batches in FIFO order
	pending  *queue.Synchronized[T]
	size     int
	interval time.Duration
	log      *zap.Logger

	stopped atomic.Bool // set once Run has begun its final flush
}

// New creates a new Batcher for type T.
func New[T any](cons Consumer[T], cfg Config, log *zap.Logger) *Batcher[T] {
	if cons == nil {
		panic("batcher: nil consumer")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = defaultFlushInterval
	}

	return &Batcher[T]{
		cons:     cons,
		pending:  queue.NewSynchronized[T](),
		size:     cfg.BatchSize,
		interval: utils.ToDurationMs(cfg.FlushInterval),
		log:      logger.OrNop(log),
	}
}

// Push adds an item to the batcher.
// It flushes to the Consumer if a full batch is pending, or immediately once
// Run has stopped.
func (b *Batcher[T]) Push(item T) {
	b.pending.Enqueue(item)
	if b.stopped.Load() {
		b.Flush()
		return
	}
	if b.pending.Len() >= b.size {
		b.flushBatch()
	}
}

// Pending returns the number of items waiting to be flushed.
func (b *Batcher[T]) Pending() int { return b.pending.Len() }

// Flush hands every pending item to the Consumer. Returns the number of items flushed.
func (b *Batcher[T]) Flush() int {
	total := 0
	for {
		n := b.flushBatch()
		if n == 0 {
			return total
		}
		total += n
	}
}

// flushBatch hands at most one batch to the Consumer.
func (b *Batcher[T]) flushBatch() int {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	batch := b.pending.Drain(b.size)
	if len(batch) == 0 {
		return 0
	}

	if err := b.cons.Consume(batch); err != nil {
		b.log.Error("batcher: consume failed, dropping batch",
			zap.Int("size", len(batch)),
			zap.Error(err),
		)
	}
	return len(batch)
}

// Run flushes every FlushInterval until ctx is done, then flushes what is left.
func (b *Batcher[T]) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.Flush()
		case <-ctx.Done():
			// Set before flushing: a Push that misses the flag is drained below.
			b.stopped.Store(true)
			if n := b.Flush(); n > 0 {
				b.log.Info("batcher: flushed on shutdown", zap.Int("items", n))
			}
			return
		}
	}
}
