package queue

import (
	"reflect"
	"sort"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

// =============================================================================
// Synchronized Tests
// =============================================================================

func TestNewSynchronized(t *testing.T) {
	tests := []struct {
		name  string
		items []int
	}{
		{"empty", nil},
		{"seeded", []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSynchronized(tt.items...)
			if got := s.Len(); got != len(tt.items) {
				t.Fatalf("Len() = %d, want %d", got, len(tt.items))
			}
			for _, want := range tt.items {
				if got, ok := s.Dequeue(); !ok || got != want {
					t.Errorf("Dequeue() = (%d, %v), want (%d, true)", got, ok, want)
				}
			}
		})
	}
}

func TestSynchronized_Drain(t *testing.T) {
	tests := []struct {
		name     string
		items    []int
		max      int
		want     []int
		wantLeft int
	}{
		{"all_with_zero_max", []int{1, 2, 3}, 0, []int{1, 2, 3}, 0},
		{"all_with_negative_max", []int{1, 2}, -1, []int{1, 2}, 0},
		{"limited", []int{1, 2, 3, 4}, 2, []int{1, 2}, 2},
		{"max_above_len", []int{1}, 10, []int{1}, 0},
		{"empty", nil, 5, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSynchronized(tt.items...)
			got := s.Drain(tt.max)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Drain(%d) = %v, want %v", tt.max, got, tt.want)
			}
			if s.Len() != tt.wantLeft {
				t.Errorf("Len() after Drain = %d, want %d", s.Len(), tt.wantLeft)
			}
		})
	}
}

func TestSynchronized_PeekValuesClear(t *testing.T) {
	s := NewSynchronized[string]()
	s.EnqueueBatch([]string{"a", "b"})
	s.Enqueue("c")

	if v, ok := s.Peek(); !ok || v != "a" {
		t.Errorf("Peek() = (%q, %v), want (\"a\", true)", v, ok)
	}
	if got := s.Values(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Values() = %v", got)
	}

	s.Clear()
	if !s.IsEmpty() {
		t.Error("queue should be empty after Clear")
	}
}

// =============================================================================
// Concurrency Tests
// =============================================================================

func TestConcurrency_MultiProducer(t *testing.T) {
	const producers = 8
	const perProducer = 1000

	s := NewSynchronized[int]()
	var g errgroup.Group
	for p := 0; p < producers; p++ {
		id := p
		g.Go(func() error {
			for i := 0; i < perProducer; i++ {
				s.Enqueue(id*perProducer + i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if got := s.Len(); got != producers*perProducer {
		t.Fatalf("Len() = %d, want %d", got, producers*perProducer)
	}

	// Per-producer order must survive the interleaving.
	last := make([]int, producers)
	for i := range last {
		last[i] = -1
	}
	for {
		v, ok := s.Dequeue()
		if !ok {
			break
		}
		id, seq := v/perProducer, v%perProducer
		if seq <= last[id] {
			t.Fatalf("producer %d: got seq %d after %d", id, seq, last[id])
		}
		last[id] = seq
	}
}

func TestConcurrency_MixedProducerConsumer(t *testing.T) {
	const producers = 4
	const consumers = 4
	const perProducer = 2000
	total := producers * perProducer

	s := NewSynchronized[int]()

	var (
		mu   sync.Mutex
		seen = make([]int, 0, total)
	)

	var prod errgroup.Group
	for p := 0; p < producers; p++ {
		id := p
		prod.Go(func() error {
			for i := 0; i < perProducer; i++ {
				s.Enqueue(id*perProducer + i)
			}
			return nil
		})
	}

	done := make(chan struct{})
	var cons errgroup.Group
	for c := 0; c < consumers; c++ {
		cons.Go(func() error {
			for {
				if v, ok := s.Dequeue(); ok {
					mu.Lock()
					seen = append(seen, v)
					mu.Unlock()
					continue
				}
				select {
				case <-done:
					// Producers finished; take whatever is left.
					for _, v := range s.Drain(0) {
						mu.Lock()
						seen = append(seen, v)
						mu.Unlock()
					}
					return nil
				default:
				}
			}
		})
	}

	_ = prod.Wait()
	close(done)
	_ = cons.Wait()

	if len(seen) != total {
		t.Fatalf("consumed %d items, want %d", len(seen), total)
	}
	sort.Ints(seen)
	for i, v := range seen {
		if v != i {
			t.Fatalf("missing or duplicated item: seen[%d] = %d", i, v)
		}
	}
}

func TestSynchronized_SnapshotRestore(t *testing.T) {
	s := NewSynchronized(1, 2)
	s.Enqueue(3)

	snap := s.Snapshot()
	s.Dequeue()
	if got := snap.Values(); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("Snapshot().Values() = %v, want [1 2 3]", got)
	}

	other := NewSynchronized(0)
	other.Restore(snap)
	if got := other.Values(); !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
		t.Errorf("Values() after Restore = %v, want [0 1 2 3]", got)
	}
}
