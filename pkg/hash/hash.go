package hash

import (
	"github.com/cespare/xxhash/v2"
)

// String hashes a string key with xxhash, which is stable across processes.
// Its signature fits shardedmap hashers.
func String(key string) uint64 {
	return xxhash.Sum64String(key)
}
