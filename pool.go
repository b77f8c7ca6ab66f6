package ordered

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	lg "github.com/Andrej220/go-utils/zlog"
)

// JobFunc is the function executed by a worker for a given job payload.
type JobFunc[T any] func(T) error

// Job represents a single unit of work submitted to the pool.
//
// Payload is passed to Fn when executed.
// CleanupFunc, if set, is executed after job completion.
// Priority is interpreted by priority-aware scheduling queues.
type Job[T any] struct {
	Payload     T
	Fn          JobFunc[T]
	Ctx         context.Context
	CleanupFunc func()
	Priority    JobPriority
}

// Pool executes submitted jobs on a fixed set of workers. Jobs flow
// through a dedicated scheduler goroutine that keeps them in a
// pluggable queue (FIFO or aging priority heap) and dispatches to
// whichever worker frees up first.
type Pool[T any] struct {
	opts PoolOptions

	submitCh chan submitReq[T]
	workCh   chan Job[T]
	stopCh   chan struct{}
	closed   chan struct{}

	wg            sync.WaitGroup
	stopOnce      sync.Once
	activeWorkers atomic.Int32
	queued        atomic.Int64
	maxQueueAge   atomic.Int64

	// OnJobError, if set, receives errors returned by job functions and
	// errors produced by panic recovery. It must be set before the
	// first Submit and be safe for concurrent use.
	OnJobError func(error)
}

// NewPool creates a pool and starts its workers and scheduler.
func NewPool[T any](opts PoolOptions) *Pool[T] {
	opts.FillDefaults()
	p := &Pool[T]{
		opts:     opts,
		submitCh: make(chan submitReq[T], opts.SubmitBuffer),
		workCh:   make(chan Job[T]),
		stopCh:   make(chan struct{}),
		closed:   make(chan struct{}),
	}
	p.wg.Add(1)
	go p.scheduler()
	for i := 0; i < opts.Workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Shutdown closes the pool for new submissions, lets the scheduler
// drain its queue and waits for workers up to the context deadline.
// Safe to call more than once.
func (p *Pool[T]) Shutdown(ctx context.Context) error {
	p.stopOnce.Do(func() {
		close(p.closed) // reject new jobs
		close(p.stopCh) // tell the scheduler to drain
	})
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.wg.Wait()
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop is a blocking Shutdown.
func (p *Pool[T]) Stop() { _ = p.Shutdown(context.Background()) }

// Submit hands a job to the scheduler, blocking while the submission
// buffer is full. Returns ErrPoolClosed after Shutdown.
func (p *Pool[T]) Submit(job Job[T]) error {
	if job.Fn == nil {
		return ErrNilFunc
	}
	if job.Ctx == nil {
		job.Ctx = context.Background()
	}
	select {
	case <-p.closed:
		return ErrPoolClosed
	default:
	}
	select {
	case p.submitCh <- submitReq[T]{job: job, basePrio: float64(job.Priority)}:
		return nil
	case <-p.closed:
		return ErrPoolClosed
	}
}

// TrySubmit is a non-blocking Submit. It reports false when the pool is
// closed or the submission buffer is full.
func (p *Pool[T]) TrySubmit(job Job[T]) bool {
	if job.Fn == nil {
		return false
	}
	if job.Ctx == nil {
		job.Ctx = context.Background()
	}
	select {
	case <-p.closed:
		return false
	default:
	}
	select {
	case p.submitCh <- submitReq[T]{job: job, basePrio: float64(job.Priority)}:
		return true
	default:
		return false
	}
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for job := range p.workCh {
		p.activeWorkers.Add(1)
		p.runJob(job)
		p.activeWorkers.Add(-1)
	}
}

func (p *Pool[T]) runJob(job Job[T]) {
	p.opts.Metrics.IncInFlight()
	defer func() {
		if r := recover(); r != nil {
			lg.FromContext(job.Ctx).Error("job panicked", lg.Any("panic", r))
			p.reportJobError(fmt.Errorf("ordered: job panicked: %v", r))
		}
		if job.CleanupFunc != nil {
			job.CleanupFunc()
		}
		p.opts.Metrics.DecInFlight()
		p.opts.Metrics.IncExecuted()
	}()
	if err := job.Fn(job.Payload); err != nil {
		lg.FromContext(job.Ctx).Error("job failed", lg.Any("error", err))
		p.reportJobError(err)
	}
}

// reportJobError reports an error returned by a job or produced by
// panic recovery. Job errors do not stop pool execution. If no handler
// is registered, the error is only logged.
func (p *Pool[T]) reportJobError(err error) {
	if p.OnJobError != nil {
		p.OnJobError(err)
	}
}

// ActiveWorkers returns the number of workers currently running a job.
func (p *Pool[T]) ActiveWorkers() int32 { return p.activeWorkers.Load() }

// QueueLength returns the number of jobs waiting in the scheduling queue.
func (p *Pool[T]) QueueLength() int { return int(p.queued.Load()) }
