package ordered

import (
	"context"
	"fmt"
)

// reorderBuffer turns completion-order delivery into input-order
// delivery. Completions arriving ahead of the cursor are parked by
// index; once the awaited index arrives, the contiguous run starting at
// the cursor is released.
//
// The buffer is keyed by index rather than sized to the concurrency
// budget: when the head index is slow, later completions keep admitting
// replacements and the number of parked entries can exceed the budget.
//
// Owned by the engine's control goroutine, so no locking.
type reorderBuffer[M any] struct {
	next    int
	pending map[int]M
}

func newReorderBuffer[M any]() *reorderBuffer[M] {
	return &reorderBuffer[M]{pending: make(map[int]M)}
}

// put parks one completed result. An index at or below the cursor, or
// one already parked, means an entry was dropped or double-delivered
// upstream and is reported as an invariant violation.
func (b *reorderBuffer[M]) put(idx int, val M) error {
	if idx < b.next {
		return &InvariantError{
			Code:   CodeStaleIndex,
			Detail: fmt.Sprintf("index %d already released (cursor at %d)", idx, b.next),
		}
	}
	if _, dup := b.pending[idx]; dup {
		return &InvariantError{
			Code:   CodeDuplicateIndex,
			Detail: fmt.Sprintf("index %d delivered twice", idx),
		}
	}
	b.pending[idx] = val
	return nil
}

// ready reports whether the entry for the current cursor is parked.
func (b *reorderBuffer[M]) ready() bool {
	_, ok := b.pending[b.next]
	return ok
}

// take removes and returns the entry for the current cursor and
// advances it. Calling take when the entry is absent is a bookkeeping
// bug and yields an invariant violation.
func (b *reorderBuffer[M]) take() (M, error) {
	v, ok := b.pending[b.next]
	if !ok {
		var zero M
		return zero, &InvariantError{
			Code:   CodeMissingEntry,
			Detail: fmt.Sprintf("no buffered entry for awaited index %d", b.next),
		}
	}
	delete(b.pending, b.next)
	b.next++
	return v, nil
}

// deliver parks one completion and flushes the contiguous run starting
// at the cursor into sink, one strictly sequential call per released
// entry.
func (b *reorderBuffer[M]) deliver(ctx context.Context, idx int, val M, sink ConsumeFunc[M]) error {
	if err := b.put(idx, val); err != nil {
		return err
	}
	for b.ready() {
		v, err := b.take()
		if err != nil {
			return err
		}
		if err := sink(ctx, v); err != nil {
			return err
		}
	}
	return nil
}
