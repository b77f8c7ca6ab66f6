package ordered

import (
	"context"
)

// TaskRunner starts tasks on behalf of the engine.
//
// Go must either start fn asynchronously and return nil, or return an
// error without ever running fn. Running fn is mandatory once Go has
// returned nil: the engine accounts for exactly one completion per
// accepted task.
//
// The priority hint is forwarded unchanged from Options.Priority.
// Runners without a priority concept ignore it.
type TaskRunner interface {
	Go(ctx context.Context, prio JobPriority, fn func()) error
}

// goRunner is the default TaskRunner: one goroutine per task.
// The engine's own admission control already caps fan-out, so no
// additional bounding is needed here.
type goRunner struct{}

func (goRunner) Go(_ context.Context, _ JobPriority, fn func()) error {
	go fn()
	return nil
}

// runnerTask is the payload type used by PoolRunner jobs.
type runnerTask struct {
	fn func()
}

// PoolRunner executes engine tasks on a fixed worker Pool instead of
// spawning a goroutine per task. The per-run priority hint feeds the
// pool's scheduling queue, so runs sharing one pool can be prioritized
// against each other.
//
// The effective concurrency of a run is min(budget, pool workers).
type PoolRunner struct {
	pool *Pool[runnerTask]
}

// NewPoolRunner creates a PoolRunner backed by a new Pool with the
// given options.
func NewPoolRunner(opts PoolOptions) *PoolRunner {
	return &PoolRunner{pool: NewPool[runnerTask](opts)}
}

func (r *PoolRunner) Go(ctx context.Context, prio JobPriority, fn func()) error {
	return r.pool.Submit(Job[runnerTask]{
		Payload:  runnerTask{fn: fn},
		Ctx:      ctx,
		Priority: prio,
		Fn: func(t runnerTask) error {
			t.fn()
			return nil
		},
	})
}

// Shutdown stops the underlying pool, waiting for workers up to the
// context deadline. Must not be called while runs are still in flight.
func (r *PoolRunner) Shutdown(ctx context.Context) error {
	return r.pool.Shutdown(ctx)
}

// Stop is a blocking Shutdown.
func (r *PoolRunner) Stop() { r.pool.Stop() }
