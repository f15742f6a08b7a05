package server

import (
	"context"
	"encoding/json"

	"github.com/huynhanx03/go-fifo/pkg/codec"
	"github.com/huynhanx03/go-fifo/pkg/database/redis"
	"github.com/huynhanx03/go-fifo/pkg/registry"
)

// Backend stores named queues of JSON values.
type Backend interface {
	Enqueue(ctx context.Context, name string, values []json.RawMessage) error
	Dequeue(ctx context.Context, name string) (json.RawMessage, bool, error)
	Peek(ctx context.Context, name string) (json.RawMessage, bool, error)
	Len(ctx context.Context, name string) (int64, error)
	Clear(ctx context.Context, name string) error
}

// Lister is implemented by backends that can enumerate their queues.
type Lister interface {
	Names(ctx context.Context) ([]string, error)
}

// MemoryBackend keeps queues in process memory.
type MemoryBackend struct {
	queues *registry.Registry[json.RawMessage]
}

var (
	_ Backend = (*MemoryBackend)(nil)
	_ Lister  = (*MemoryBackend)(nil)
)

// NewMemoryBackend creates an in-memory backend.
func NewMemoryBackend(shards int) *MemoryBackend {
	return &MemoryBackend{queues: registry.New[json.RawMessage](shards)}
}

func (m *MemoryBackend) Enqueue(_ context.Context, name string, values []json.RawMessage) error {
	m.queues.Get(name).EnqueueBatch(values)
	return nil
}

func (m *MemoryBackend) Dequeue(_ context.Context, name string) (json.RawMessage, bool, error) {
	q, ok := m.queues.Lookup(name)
	if !ok {
		return nil, false, nil
	}
	v, ok := q.Dequeue()
	return v, ok, nil
}

func (m *MemoryBackend) Peek(_ context.Context, name string) (json.RawMessage, bool, error) {
	q, ok := m.queues.Lookup(name)
	if !ok {
		return nil, false, nil
	}
	v, ok := q.Peek()
	return v, ok, nil
}

func (m *MemoryBackend) Len(_ context.Context, name string) (int64, error) {
	q, ok := m.queues.Lookup(name)
	if !ok {
		return 0, nil
	}
	return int64(q.Len()), nil
}

func (m *MemoryBackend) Clear(_ context.Context, name string) error {
	m.queues.Delete(name)
	return nil
}

func (m *MemoryBackend) Names(_ context.Context) ([]string, error) {
	return m.queues.Names(), nil
}

// RedisBackend keeps queues in Redis so they survive restarts and can be
// shared by several servers.
type RedisBackend struct {
	engine *redis.RedisEngine
	codec  codec.Codec[json.RawMessage]
}

var _ Backend = (*RedisBackend)(nil)

// NewRedisBackend creates a backend on engine.
func NewRedisBackend(engine *redis.RedisEngine) *RedisBackend {
	return &RedisBackend{engine: engine, codec: codec.JSON[json.RawMessage]{}}
}

func (r *RedisBackend) fifo(name string) (*redis.FIFO[json.RawMessage], error) {
	return redis.NewFIFO(r.engine, name, r.codec)
}

func (r *RedisBackend) Enqueue(ctx context.Context, name string, values []json.RawMessage) error {
	q, err := r.fifo(name)
	if err != nil {
		return err
	}
	return q.EnqueueBatch(ctx, values)
}

func (r *RedisBackend) Dequeue(ctx context.Context, name string) (json.RawMessage, bool, error) {
	q, err := r.fifo(name)
	if err != nil {
		return nil, false, err
	}
	return q.Dequeue(ctx)
}

func (r *RedisBackend) Peek(ctx context.Context, name string) (json.RawMessage, bool, error) {
	q, err := r.fifo(name)
	if err != nil {
		return nil, false, err
	}
	return q.Peek(ctx)
}

func (r *RedisBackend) Len(ctx context.Context, name string) (int64, error) {
	q, err := r.fifo(name)
	if err != nil {
		return 0, err
	}
	return q.Len(ctx)
}

func (r *RedisBackend) Clear(ctx context.Context, name string) error {
	q, err := r.fifo(name)
	if err != nil {
		return err
	}
	return q.Clear(ctx)
}
