package ordered

import "time"

const (
	initialFifoCapacity = 1024
)

// fifoQueue implements a growable first-in–first-out job queue backed
// by a circular buffer.
//
// It satisfies the schedQueue[T] interface used by the scheduler.
// Jobs are processed strictly in the order they are submitted.
// No priorities, no aging, no reordering.
type fifoQueue[T any] struct {
	buf        []Job[T] // circular buffer
	head, tail int      // read/write indices
	size       int      // number of jobs currently buffered
	capacity   int
}

// newFifoQueue creates a FIFO queue with the given initial capacity.
// The buffer grows on demand; a full queue never drops submissions,
// since every accepted job must eventually be dispatched.
func newFifoQueue[T any](cap int) *fifoQueue[T] {
	return &fifoQueue[T]{
		buf:      make([]Job[T], cap),
		capacity: cap,
	}
}

// Len returns the number of jobs currently waiting in the queue.
func (q *fifoQueue[T]) Len() int { return q.size }

// Push inserts a job at the tail of the FIFO queue.
//
// FIFO does not use priority or timestamps, so basePrio and now
// are ignored.
func (q *fifoQueue[T]) Push(j Job[T], _ float64, _ time.Time) {
	if q.size == q.capacity {
		q.grow()
	}
	q.buf[q.tail] = j
	q.tail++
	if q.tail == q.capacity {
		q.tail = 0
	}
	q.size++
}

// Pop removes and returns the oldest job.
//
// If the queue is empty, returns zero-value Job[T] and false.
func (q *fifoQueue[T]) Pop(_ time.Time) (Job[T], bool) {
	if q.size == 0 {
		return Job[T]{}, false
	}
	j := q.buf[q.head]
	q.buf[q.head] = Job[T]{} // release references
	q.head++
	if q.head == q.capacity {
		q.head = 0
	}
	q.size--
	return j, true
}

// grow doubles the buffer, unwrapping the circular layout.
func (q *fifoQueue[T]) grow() {
	buf := make([]Job[T], q.capacity*2)
	for i := 0; i < q.size; i++ {
		buf[i] = q.buf[(q.head+i)%q.capacity]
	}
	q.buf = buf
	q.head = 0
	q.tail = q.size
	q.capacity = len(buf)
}

// Tick is a no-op for FIFO queues.
func (q *fifoQueue[T]) Tick(_ time.Time) {}

// MaxAge always returns zero, since FIFO does not track per-job
// timestamps or waiting durations.
func (q *fifoQueue[T]) MaxAge() time.Duration {
	return 0
}
