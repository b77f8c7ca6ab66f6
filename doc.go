// Package ordered provides bounded-concurrency processing of finite
// sequences with ordered delivery of results.
//
// Design goals
//
// The package is designed around the following principles:
//
//   - Cap the number of simultaneously running tasks at all times
//   - Deliver results in original input order regardless of completion order
//   - Keep all bookkeeping on a single control goroutine, no locks
//   - Fail fast: the first error stops admission of new work
//
// Rather than exposing raw goroutine fan-out, the package gives the
// consumer side the simplicity of strictly sequential, in-order delivery
// while the producer side still runs concurrently.
//
// Architecture overview
//
// Every operation is executed by a per-call engine composed of three parts:
//
//   1. Admission (bounded fan-out)
//      min(budget, len) tasks are started up front, one per input index.
//      Afterwards exactly one replacement task is admitted per observed
//      completion, so the number of outstanding tasks never exceeds the
//      budget, even transiently.
//
//   2. Completion multiplexing
//      A single control goroutine receives (index, result, error)
//      completions over a channel sized to the budget. In-flight tasks
//      therefore never block on delivery, even while the serial consumer
//      is running. All cursors and buffers are owned by this goroutine.
//
//   3. Reordering (MapConsume only)
//      Completions arriving ahead of the next expected index are parked
//      in a small buffer keyed by index. Whenever the expected index
//      arrives, the contiguous run starting at the cursor is flushed to
//      the consumer, one call at a time.
//
// Execution model
//
// Tasks are started through a TaskRunner. The default runner spawns one
// goroutine per task, which is appropriate for i/o-bound transformations.
// A PoolRunner is provided for workloads that want a fixed worker set
// with its own scheduling queue; the per-run priority hint is passed
// through to that queue unchanged.
//
// Error handling
//
// The package distinguishes between two classes of errors:
//
//   - Task errors: returned by the caller-supplied transform or consumer.
//     The first one aborts the run; outstanding tasks are drained and any
//     further errors are folded into the returned value.
//   - Invariant violations: unexpected reorder-buffer states such as a
//     duplicated or dropped index. These indicate a scheduling bug, not
//     caller misuse, and unwrap to ErrInvariant.
//
// Panics inside tasks are recovered and surfaced as task errors so that a
// misbehaving transform cannot wedge the completion loop.
//
// Cancellation
//
// Context cancellation stops admission and is reported as the run error.
// Already-running tasks are not forcibly stopped; the caller-supplied
// functions are expected to observe the context themselves. There are no
// built-in timeouts.
package ordered
