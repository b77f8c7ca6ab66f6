package ordered

import (
	"context"
	"fmt"

	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// TransformFunc produces a result for one input element. It runs
// concurrently with other transforms of the same run, up to the
// concurrency budget.
type TransformFunc[E, R any] func(ctx context.Context, elem E) (R, error)

// ActionFunc is a result-less transform used by ForEach.
type ActionFunc[E any] func(ctx context.Context, elem E) error

// ConsumeFunc receives transformed results strictly one at a time, in
// original input order.
type ConsumeFunc[M any] func(ctx context.Context, res M) error

// Map applies transform to every element of items with at most
// Options.MaxConcurrency transforms in flight at once and returns the
// results in input order.
//
// The first error aborts the run: no new tasks are admitted, outstanding
// tasks are drained and no partial results are returned.
func Map[E, R any](ctx context.Context, items []E, opts Options, transform TransformFunc[E, R]) ([]R, error) {
	if transform == nil {
		return nil, ErrNilFunc
	}
	results := make([]R, len(items))
	e := newEngine(items, opts, transform, func(idx int, val R) error {
		results[idx] = val
		return nil
	})
	if err := e.run(ctx); err != nil {
		return nil, err
	}
	return results, nil
}

// ForEach applies action to every element of items with at most
// Options.MaxConcurrency actions in flight at once. Invocation order
// and completion order are unspecified.
func ForEach[E any](ctx context.Context, items []E, opts Options, action ActionFunc[E]) error {
	if action == nil {
		return ErrNilFunc
	}
	e := newEngine(items, opts,
		func(ctx context.Context, elem E) (struct{}, error) {
			return struct{}{}, action(ctx, elem)
		},
		func(int, struct{}) error { return nil },
	)
	return e.run(ctx)
}

// MapConsume applies transform to every element of items with at most
// Options.MaxConcurrency transforms in flight at once and feeds the
// results into consume strictly one at a time, in original input order,
// regardless of the order in which transforms complete.
//
// Slow early elements never block later transforms from running; they
// only delay consumption of the later results. On error the consumer
// has received a contiguous prefix of the input, ending strictly before
// the failed index.
func MapConsume[E, M any](ctx context.Context, items []E, opts Options, transform TransformFunc[E, M], consume ConsumeFunc[M]) error {
	if transform == nil || consume == nil {
		return ErrNilFunc
	}
	buf := newReorderBuffer[M]()
	e := newEngine(items, opts, transform, func(idx int, val M) error {
		return buf.deliver(ctx, idx, val, consume)
	})
	return e.run(ctx)
}

// completion is the message a finished task hands back to the engine.
type completion[R any] struct {
	idx int
	val R
	err error
}

// engine is the per-run scheduler: admission control, completion
// multiplexing and delivery. All fields except done are owned by the
// goroutine executing run; tasks only send on done.
type engine[E, R any] struct {
	id        uuid.UUID
	items     []E
	budget    int
	prio      JobPriority
	runner    TaskRunner
	metrics   MetricsPolicy
	transform TransformFunc[E, R]
	deliver   func(idx int, val R) error

	done        chan completion[R]
	nextAdmit   int
	outstanding int
}

func newEngine[E, R any](items []E, opts Options, transform TransformFunc[E, R], deliver func(int, R) error) *engine[E, R] {
	opts.FillDefaults()
	budget := opts.MaxConcurrency
	if budget <= 0 || budget > len(items) {
		budget = len(items)
	}
	return &engine[E, R]{
		id:        uuid.New(),
		items:     items,
		budget:    budget,
		prio:      opts.Priority,
		runner:    opts.Runner,
		metrics:   opts.Metrics,
		transform: transform,
		deliver:   deliver,
		// Sized so that a finishing task always finds a free slot:
		// at most budget tasks are outstanding at any moment.
		done: make(chan completion[R], budget),
	}
}

// run primes the budget, then processes one completion per iteration:
// record failure, admit a replacement, deliver the result. Returns when
// nothing is outstanding and either all indices were admitted or a
// failure stopped admission.
func (e *engine[E, R]) run(ctx context.Context) error {
	n := len(e.items)
	if n == 0 {
		return nil
	}
	log := lg.FromContext(ctx).With(lg.String("run", e.id.String()))
	log.Info("run started", lg.Int("items", n), lg.Int("budget", e.budget))

	var firstErr error
	for e.nextAdmit < e.budget {
		if err := e.admit(ctx, e.nextAdmit); err != nil {
			firstErr = err
			break
		}
		e.nextAdmit++
	}

	for e.outstanding > 0 {
		var c completion[R]
		select {
		case c = <-e.done:
		case <-ctx.Done():
			if firstErr == nil {
				firstErr = ctx.Err()
				log.Warn("run canceled", lg.Any("reason", ctx.Err()))
			}
			c = <-e.done
		}
		e.outstanding--
		e.metrics.IncExecuted()

		if c.err != nil {
			if firstErr == nil {
				log.Error("task failed", lg.Int("index", c.idx), lg.Any("error", c.err))
			}
			firstErr = multierr.Append(firstErr, c.err)
			continue
		}
		if firstErr != nil {
			// Late result from a task admitted before the failure
			// was observed. Discard.
			continue
		}
		if e.nextAdmit < n {
			if err := e.admit(ctx, e.nextAdmit); err != nil {
				firstErr = err
			} else {
				e.nextAdmit++
			}
		}
		if err := e.deliver(c.idx, c.val); err != nil {
			log.Error("delivery failed", lg.Int("index", c.idx), lg.Any("error", err))
			firstErr = multierr.Append(firstErr, err)
		}
	}

	if firstErr != nil {
		return firstErr
	}
	log.Info("run finished", lg.Int("items", n))
	return nil
}

// admit starts one task for the given index. outstanding is bumped only
// after the runner accepted the task, since a rejected task will never
// produce a completion.
func (e *engine[E, R]) admit(ctx context.Context, idx int) error {
	e.metrics.IncInFlight()
	err := e.runner.Go(ctx, e.prio, func() {
		c := completion[R]{idx: idx}
		defer func() {
			if r := recover(); r != nil {
				c.err = fmt.Errorf("ordered: task %d panicked: %v", idx, r)
			}
			e.metrics.DecInFlight()
			e.done <- c
		}()
		c.val, c.err = e.transform(ctx, e.items[idx])
	})
	if err != nil {
		e.metrics.DecInFlight()
		return err
	}
	e.outstanding++
	return nil
}
