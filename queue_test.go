package ordered

import (
	"testing"
	"time"
)

func TestFifoQueueOrderAndGrowth(t *testing.T) {
	q := newFifoQueue[int](4)
	now := time.Now()

	for i := 0; i < 10; i++ {
		q.Push(Job[int]{Payload: i}, 0, now)
	}
	if q.Len() != 10 {
		t.Fatalf("len = %d; want 10", q.Len())
	}

	for i := 0; i < 10; i++ {
		j, ok := q.Pop(now)
		if !ok {
			t.Fatalf("pop %d: queue unexpectedly empty", i)
		}
		if j.Payload != i {
			t.Fatalf("pop %d: payload = %d; want %d", i, j.Payload, i)
		}
	}
	if _, ok := q.Pop(now); ok {
		t.Fatal("pop on empty queue returned a job")
	}
}

func TestFifoQueueWraparound(t *testing.T) {
	q := newFifoQueue[int](4)
	now := time.Now()

	// fill, half-drain and refill to force head/tail wraparound
	for i := 0; i < 4; i++ {
		q.Push(Job[int]{Payload: i}, 0, now)
	}
	for i := 0; i < 2; i++ {
		if j, _ := q.Pop(now); j.Payload != i {
			t.Fatalf("payload = %d; want %d", j.Payload, i)
		}
	}
	for i := 4; i < 6; i++ {
		q.Push(Job[int]{Payload: i}, 0, now)
	}
	for i := 2; i < 6; i++ {
		j, ok := q.Pop(now)
		if !ok || j.Payload != i {
			t.Fatalf("payload = %d (ok=%v); want %d", j.Payload, ok, i)
		}
	}
}

func TestPrioQueuePopsHighestFirst(t *testing.T) {
	q := newPrioQueue[string](0)
	now := time.Now()

	q.Push(Job[string]{Payload: "low"}, 1, now)
	q.Push(Job[string]{Payload: "high"}, 5, now)
	q.Push(Job[string]{Payload: "mid"}, 3, now)

	want := []string{"high", "mid", "low"}
	for _, w := range want {
		j, ok := q.Pop(now)
		if !ok {
			t.Fatal("queue unexpectedly empty")
		}
		if j.Payload != w {
			t.Fatalf("payload = %q; want %q", j.Payload, w)
		}
	}
}

func TestPrioQueueAgingPromotesOldJobs(t *testing.T) {
	q := newPrioQueue[string](100) // 100 priority units per second of waiting
	now := time.Now()

	q.Push(Job[string]{Payload: "old-low"}, 0, now.Add(-time.Second))
	q.Push(Job[string]{Payload: "new-high"}, 5, now)

	q.Tick(now)
	j, ok := q.Pop(now)
	if !ok {
		t.Fatal("queue unexpectedly empty")
	}
	if j.Payload != "old-low" {
		t.Fatalf("payload = %q; want old job promoted by aging", j.Payload)
	}

	if q.MaxAge() < time.Second {
		t.Fatalf("max age = %v; want >= 1s", q.MaxAge())
	}
}
