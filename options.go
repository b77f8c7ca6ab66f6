package ordered

import (
	"runtime"
	"time"
)

// JobPriority is an opaque scheduling hint. The engine passes it through
// to the TaskRunner unchanged; only priority-aware runners interpret it.
// Higher values are dispatched first.
type JobPriority float64

// QueueType defines the scheduling strategy used by a worker Pool.
//
// Different queue types determine how jobs are ordered and selected for
// execution by the scheduler. The type is configured via PoolOptions.QT
// when creating a new Pool.
type QueueType int

const (
	Fifo QueueType = iota

	Priority
)

func (qt QueueType) String() string {
	switch qt {
	case Fifo:
		return "Fifo"
	case Priority:
		return "Priority"
	default:
		return "Unknown"
	}
}

// Options configure a single Map, ForEach or MapConsume run.
//
// All zero values are replaced with sensible defaults in FillDefaults.
type Options struct {
	// MaxConcurrency caps the number of simultaneously outstanding
	// tasks. Zero or negative means effectively unbounded: every input
	// element is admitted immediately.
	MaxConcurrency int

	// Priority is forwarded to the runner for every task of the run.
	Priority JobPriority

	// Runner starts tasks. Defaults to one goroutine per task.
	Runner TaskRunner

	// Metrics receives execution and in-flight updates for the run.
	Metrics MetricsPolicy
}

func (o *Options) FillDefaults() {
	if o.Runner == nil {
		o.Runner = goRunner{}
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
}

const (
	defaultRebuildDur   = 100 * time.Millisecond
	defaultSubmitBuffer = 64
)

// PoolOptions configure a worker Pool.
//
// All zero values are replaced with sensible defaults in FillDefaults.
type PoolOptions struct {
	Workers int

	QT QueueType

	// AgingRate controls how quickly queued jobs gain effective
	// priority per second of waiting. Used by the Priority queue only.
	AgingRate float64

	// RebuildDur is the interval between scheduler ticks that re-age
	// the priority queue.
	RebuildDur time.Duration

	// QueueCapacity is the initial capacity of the scheduling queue.
	QueueCapacity int

	// SubmitBuffer is the capacity of the submission channel between
	// Submit and the scheduler goroutine.
	SubmitBuffer int

	Metrics MetricsPolicy
}

func (o *PoolOptions) FillDefaults() {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.RebuildDur <= 0 {
		o.RebuildDur = defaultRebuildDur
	}
	if o.QueueCapacity <= 0 {
		o.QueueCapacity = initialFifoCapacity
	}
	if o.SubmitBuffer <= 0 {
		o.SubmitBuffer = defaultSubmitBuffer
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
}
