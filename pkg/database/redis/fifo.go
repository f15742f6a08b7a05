package redis

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	redisV9 "github.com/redis/go-redis/v9"

	"github.com/huynhanx03/go-fifo/pkg/codec"
)

// dequeueScript pops the front of a two-list queue.
// KEYS[1] is the inbox (arrival order), KEYS[2] the outbox (reversed).
// When the outbox is empty the inbox is moved over one element at a time from
// its head, which leaves the outbox holding the inbox reversed.
var dequeueScript = redisV9.NewScript(`
if redis.call('LLEN', KEYS[2]) == 0 then
	local v = redis.call('LMOVE', KEYS[1], KEYS[2], 'LEFT', 'LEFT')
	while v do
		v = redis.call('LMOVE', KEYS[1], KEYS[2], 'LEFT', 'LEFT')
	end
end
return redis.call('RPOP', KEYS[2])
`)

// peekScript is dequeueScript without the final pop.
var peekScript = redisV9.NewScript(`
if redis.call('LLEN', KEYS[2]) == 0 then
	local v = redis.call('LMOVE', KEYS[1], KEYS[2], 'LEFT', 'LEFT')
	while v do
		v = redis.call('LMOVE', KEYS[1], KEYS[2], 'LEFT', 'LEFT')
	end
end
return redis.call('LINDEX', KEYS[2], -1)
`)

// lenScript counts both lists in one step so a concurrent reversal cannot be
// seen half done.
var lenScript = redisV9.NewScript(`
return redis.call('LLEN', KEYS[1]) + redis.call('LLEN', KEYS[2])
`)

// FIFO is a durable queue kept in two Redis lists using the same inbox/outbox
// scheme as the in-memory queue. Each call is atomic on the server, so FIFO is
// safe for concurrent use by any number of processes.
type FIFO[T any] struct {
	client redisV9.Cmdable
	codec  codec.Codec[T]
	inbox  string
	outbox string
}

// NewFIFO binds a queue called name on engine.
func NewFIFO[T any](engine *RedisEngine, name string, c codec.Codec[T]) (*FIFO[T], error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	// The hash tag keeps both lists on one cluster slot so scripts can touch them together.
	base := fmt.Sprintf("{%s:%s}", engine.KeyPrefix(), name)
	return &FIFO[T]{
		client: engine.Client(),
		codec:  c,
		inbox:  base + ":in",
		outbox: base + ":out",
	}, nil
}

// Enqueue appends item to the back of the queue.
func (q *FIFO[T]) Enqueue(ctx context.Context, item T) error {
	data, err := q.codec.Marshal(item)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, q.inbox, data).Err()
}

// EnqueueBatch appends items in order with a single command.
func (q *FIFO[T]) EnqueueBatch(ctx context.Context, items []T) error {
	if len(items) == 0 {
		return nil
	}

	values := make([]any, len(items))
	for i, item := range items {
		data, err := q.codec.Marshal(item)
		if err != nil {
			return errors.Wrapf(err, "item %d", i)
		}
		values[i] = data
	}
	return q.client.RPush(ctx, q.inbox, values...).Err()
}

// Dequeue removes and returns the front item.
// An empty queue yields (zero, false, nil).
func (q *FIFO[T]) Dequeue(ctx context.Context) (T, bool, error) {
	return q.run(ctx, dequeueScript)
}

// Peek returns the front item without removing it.
func (q *FIFO[T]) Peek(ctx context.Context) (T, bool, error) {
	return q.run(ctx, peekScript)
}

func (q *FIFO[T]) run(ctx context.Context, script *redisV9.Script) (T, bool, error) {
	var zero T

	raw, err := script.Run(ctx, q.client, []string{q.inbox, q.outbox}).Text()
	if err == redisV9.Nil {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}

	item, err := q.codec.Unmarshal([]byte(raw))
	if err != nil {
		return zero, false, err
	}
	return item, true, nil
}

// Len returns the number of items in the queue.
func (q *FIFO[T]) Len(ctx context.Context) (int64, error) {
	return lenScript.Run(ctx, q.client, []string{q.inbox, q.outbox}).Int64()
}

// Clear removes every item.
func (q *FIFO[T]) Clear(ctx context.Context) error {
	return q.client.Del(ctx, q.inbox, q.outbox).Err()
}
