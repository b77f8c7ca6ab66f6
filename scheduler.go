package ordered

import (
	"time"
)

// item represents a scheduled job stored inside one of the internal
// scheduler queues.
//
// For the priority (heap) scheduler, an item carries its base priority,
// enqueue timestamp, and its current effective priority (eff), which is
// recomputed during aging. The container/heap implementation requires
// that each item track its index within the heap.
type item[T any] struct {
	// job is the actual job payload and execution function.
	job Job[T]

	// basePrio is the user-provided priority value supplied at Submit time.
	basePrio float64

	// queuedAt records when the job entered the scheduler.
	// Used for aging in the priority (heap) scheduler.
	queuedAt time.Time

	// eff is the effective priority computed from basePrio and job age.
	eff float64

	// index is maintained by the heap-based queue. It stores the element's
	// current position in the heap and is required by the heap.Interface.
	index int
}

// submitReq is what the pool feeds into the scheduler.
// We separate it from item so we can attach timestamps inside the scheduler.
type submitReq[T any] struct {
	job      Job[T]
	basePrio float64
}

// schedQueue defines the common behavior of all internal scheduler queues.
//
// A queue is responsible for storing pending jobs and determining
// which one should be dispatched next. Different implementations
// (such as FIFO or priority-based) define their own ordering logic.
//
// The scheduler goroutine interacts only through this interface,
// making it easy to plug in alternative queueing strategies.
type schedQueue[T any] interface {

	// Push inserts a newly submitted job into the queue.
	//
	// basePrio is the user-provided priority value, and now is the
	// enqueue timestamp. FIFO implementations can ignore both.
	Push(job Job[T], basePrio float64, now time.Time)

	// Pop retrieves and removes the next job to dispatch.
	//
	// It returns the selected job and a boolean flag indicating
	// whether a job was available. If false, the queue is empty.
	Pop(now time.Time) (Job[T], bool)

	// Tick updates internal state periodically.
	//
	// Priority-based queues use it to apply *aging* (increasing
	// effective priority with time), while FIFO queues typically
	// implement it as a no-op.
	Tick(now time.Time)

	// Len returns the current number of jobs waiting in the queue.
	Len() int

	// MaxAge reports the maximum waiting time among queued jobs.
	//
	// For FIFO queues or strategies that do not track age, it can
	// safely return zero.
	MaxAge() time.Duration
}

func (p *Pool[T]) makeQueue() schedQueue[T] {
	switch p.opts.QT {
	case Priority:
		return newPrioQueue[T](p.opts.AgingRate)
	default:
		return newFifoQueue[T](p.opts.QueueCapacity)
	}
}

// scheduler is a dedicated goroutine that:
//   - keeps submitted jobs in the configured queue
//   - periodically re-ages jobs so old ones bubble up
//   - dispatches ready jobs to workers
//   - drains the queue on shutdown
func (p *Pool[T]) scheduler() {
	defer p.wg.Done()

	q := p.makeQueue()
	ticker := time.NewTicker(p.opts.RebuildDur)
	defer ticker.Stop()

loop:
	for {
		if job, ok := q.Pop(time.Now()); ok {
			p.queued.Store(int64(q.Len()))
			p.dispatch(job)
			continue
		}

		select {
		case <-p.stopCh:
			// accept anything already submitted, then drain the queue
			for {
				select {
				case req := <-p.submitCh:
					q.Push(req.job, req.basePrio, time.Now())
					continue
				default:
				}
				job, ok := q.Pop(time.Now())
				if !ok {
					break
				}
				p.dispatch(job)
			}
			close(p.workCh)
			break loop

		case req := <-p.submitCh:
			now := time.Now()
			q.Push(req.job, req.basePrio, now)
			p.queued.Store(int64(q.Len()))

		case <-ticker.C:
			now := time.Now()
			q.Tick(now)
			p.queued.Store(int64(q.Len()))
			if age := q.MaxAge(); age > 0 {
				p.maxQueueAge.Store(int64(age))
			}
		}
	}
}

// dispatch sends a job to workers. If all workers are busy, block until
// one is free.
func (p *Pool[T]) dispatch(job Job[T]) {
	p.workCh <- job
}

// MaxQueueAge returns the maximum job waiting time observed at the last
// scheduler tick. Zero for FIFO queues.
func (p *Pool[T]) MaxQueueAge() time.Duration {
	return time.Duration(p.maxQueueAge.Load())
}
