package shardedmap_test

import (
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/huynhanx03/go-fifo/pkg/datastructs/shardedmap"
)

// simpleHash is a basic hash function for testing with string keys.
func simpleHash(key string) uint64 {
	var h uint64
	for i := 0; i < len(key); i++ {
		h = h*31 + uint64(key[i])
	}
	return h
}

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNew_NilHashPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil hash function")
		}
	}()
	shardedmap.New[string, int](16, nil)
}

// =============================================================================
// Get / Set / Del Tests
// =============================================================================

func TestSetGetDel(t *testing.T) {
	tests := []struct {
		name   string
		shards int
	}{
		{"single_shard", 1},
		{"default_shards", 0},
		{"rounded_shards", 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := shardedmap.New[string, int](tt.shards, simpleHash)

			m.Set("a", 1)
			m.Set("b", 2)
			m.Set("a", 3)

			if v, ok := m.Get("a"); !ok || v != 3 {
				t.Errorf("Get(a) = (%d, %v), want (3, true)", v, ok)
			}
			if m.Len() != 2 {
				t.Errorf("Len() = %d, want 2", m.Len())
			}
			if !m.Del("a") {
				t.Error("Del(a) should report presence")
			}
			if m.Del("a") {
				t.Error("second Del(a) should report absence")
			}
			if _, ok := m.Get("a"); ok {
				t.Error("Get(a) after Del should miss")
			}
		})
	}
}

func TestGetOrCreate(t *testing.T) {
	m := shardedmap.New[string, *int](8, simpleHash)
	calls := 0
	create := func() *int { calls++; v := 10; return &v }

	v1, existed := m.GetOrCreate("q", create)
	if existed {
		t.Error("first GetOrCreate should create")
	}
	v2, existed := m.GetOrCreate("q", create)
	if !existed {
		t.Error("second GetOrCreate should find the value")
	}
	if v1 != v2 {
		t.Error("GetOrCreate should return the same value")
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
}

func TestGetOrCreate_Concurrent(t *testing.T) {
	m := shardedmap.New[string, int](4, simpleHash)
	var created atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.GetOrCreate("shared", func() int {
				created.Add(1)
				return 1
			})
		}()
	}
	wg.Wait()

	if created.Load() != 1 {
		t.Errorf("create ran %d times, want 1", created.Load())
	}
}

// =============================================================================
// Iteration Tests
// =============================================================================

func TestKeysAndDo(t *testing.T) {
	m := shardedmap.New[string, int](4, simpleHash)
	for i := 0; i < 20; i++ {
		m.Set(strconv.Itoa(i), i)
	}

	keys := m.Keys()
	if len(keys) != 20 {
		t.Fatalf("Keys() returned %d keys, want 20", len(keys))
	}
	sort.Strings(keys)
	if keys[0] != "0" {
		t.Errorf("Keys()[0] = %q", keys[0])
	}

	sum := 0
	m.Do(func(_ string, v int) { sum += v })
	if sum != 190 {
		t.Errorf("sum = %d, want 190", sum)
	}
}
