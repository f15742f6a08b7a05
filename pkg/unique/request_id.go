package unique

import (
	"sync/atomic"
	"time"

	"github.com/huynhanx03/go-fifo/pkg/encoding"
)

var (
	// prefix distinguishes ids of different processes.
	prefix  = encoding.Base62Encode(time.Now().UnixNano())
	counter atomic.Int64
)

// NewID returns a short id unique within this process and, with high
// probability, across processes started at different times.
func NewID() string {
	return prefix + "-" + encoding.Base62Encode(counter.Add(1))
}
