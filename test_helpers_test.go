package ordered_test

import (
	"sync/atomic"
	"testing"
	"time"
)

// inflightCounter instruments caller-supplied functions to verify the
// concurrency budget from the outside.
type inflightCounter struct {
	cur atomic.Int64
	max atomic.Int64
}

func (c *inflightCounter) enter() {
	cur := c.cur.Add(1)
	for {
		m := c.max.Load()
		if cur <= m || c.max.CompareAndSwap(m, cur) {
			return
		}
	}
}

func (c *inflightCounter) exit() { c.cur.Add(-1) }

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func intRange(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}
