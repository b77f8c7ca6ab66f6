package ordered

import (
	"sync/atomic"
)

// MetricsPolicy defines hooks used by the engine and the worker pool to
// report execution activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {

	// IncExecuted increments the executed tasks counter.
	IncExecuted()

	// IncInFlight increments the in-flight tasks gauge.
	IncInFlight()

	// DecInFlight decrements the in-flight tasks gauge.
	DecInFlight()
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	// executed is the total number of tasks processed.
	executed atomic.Uint64

	_ [56]byte // padding to avoid false sharing

	// inFlight is the current number of admitted, not-yet-finished tasks.
	inFlight atomic.Int64

	_ [56]byte

	// maxInFlight is the high-water mark of the inFlight gauge.
	maxInFlight atomic.Int64
}

// Executed returns the total number of executed tasks.
// Intended for cold-path observation.
func (m *AtomicMetrics) Executed() uint64 {
	return m.executed.Load()
}

// InFlight returns the current number of in-flight tasks.
// Intended for cold-path observation.
func (m *AtomicMetrics) InFlight() int64 {
	return m.inFlight.Load()
}

// MaxInFlight returns the highest in-flight count observed so far.
// Useful for verifying that a concurrency budget was respected.
func (m *AtomicMetrics) MaxInFlight() int64 {
	return m.maxInFlight.Load()
}

// IncExecuted increments the executed tasks counter by one.
func (m *AtomicMetrics) IncExecuted() {
	m.executed.Add(1)
}

// IncInFlight increments the in-flight gauge and advances the
// high-water mark if the new value exceeds it.
func (m *AtomicMetrics) IncInFlight() {
	cur := m.inFlight.Add(1)
	for {
		max := m.maxInFlight.Load()
		if cur <= max || m.maxInFlight.CompareAndSwap(max, cur) {
			return
		}
	}
}

// DecInFlight decrements the in-flight gauge by one.
func (m *AtomicMetrics) DecInFlight() {
	m.inFlight.Add(-1)
}

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
//
// It can be used when metrics collection is disabled and
// zero overhead is desired.
type NoopMetrics struct{}

func (m *NoopMetrics) IncExecuted() {}
func (m *NoopMetrics) IncInFlight() {}
func (m *NoopMetrics) DecInFlight() {}
