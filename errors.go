package ordered

import (
	"errors"
	"fmt"
)

var (
	// ErrInvariant is the sentinel for internal bookkeeping violations.
	// Errors of this kind signal a scheduling bug, not caller misuse.
	ErrInvariant = errors.New("ordered: internal invariant violation")

	// ErrPoolClosed is returned when a Job is submitted to a pool
	// that has been shut down.
	ErrPoolClosed = errors.New("ordered: pool closed")

	// ErrNilFunc is returned when an operation or Job is given a nil
	// function.
	ErrNilFunc = errors.New("ordered: nil function")
)

// Stable codes carried by InvariantError.
const (
	// CodeMissingEntry: the reorder buffer was expected to hold an
	// entry for the current cursor but did not.
	CodeMissingEntry = "expected-entry-not-found"

	// CodeStaleIndex: a completion arrived for an index that was
	// already released to the consumer.
	CodeStaleIndex = "stale-index"

	// CodeDuplicateIndex: a completion arrived twice for the same index.
	CodeDuplicateIndex = "duplicate-index"
)

// InvariantError describes an unexpected reorder-buffer state.
// It unwraps to ErrInvariant so callers can detect the class with
// errors.Is without matching on the code.
type InvariantError struct {
	Code   string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("ordered: invariant violation [%s]: %s", e.Code, e.Detail)
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }
