package registry

import (
	"sort"

	"github.com/huynhanx03/go-fifo/pkg/datastructs/queue"
	"github.com/huynhanx03/go-fifo/pkg/datastructs/shardedmap"
	"github.com/huynhanx03/go-fifo/pkg/hash"
)

// Registry holds named in-memory queues. Queues are created on first use.
type Registry[T any] struct {
	queues *shardedmap.Map[string, *queue.Synchronized[T]]
}

// New creates a registry spreading queue names over shards.
func New[T any](shards int) *Registry[T] {
	return &Registry[T]{
		queues: shardedmap.New[string, *queue.Synchronized[T]](shards, hash.String),
	}
}

// Get returns the queue called name, creating an empty one if needed.
func (r *Registry[T]) Get(name string) *queue.Synchronized[T] {
	q, _ := r.queues.GetOrCreate(name, func() *queue.Synchronized[T] {
		return queue.NewSynchronized[T]()
	})
	return q
}

// Put stores q under name, replacing any queue already there.
func (r *Registry[T]) Put(name string, q *queue.Synchronized[T]) {
	r.queues.Set(name, q)
}

// Lookup returns the queue called name without creating it.
func (r *Registry[T]) Lookup(name string) (*queue.Synchronized[T], bool) {
	return r.queues.Get(name)
}

// Delete drops the queue called name and everything in it.
func (r *Registry[T]) Delete(name string) bool {
	return r.queues.Del(name)
}

// Names returns the names of all queues, sorted.
func (r *Registry[T]) Names() []string {
	names := r.queues.Keys()
	sort.Strings(names)
	return names
}

// Len returns the number of queues.
func (r *Registry[T]) Len() int { return r.queues.Len() }
