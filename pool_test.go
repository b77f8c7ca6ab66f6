package ordered

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestJobSuccess(t *testing.T) {
	p := NewPool[int](PoolOptions{Workers: 2})
	defer p.Stop()

	done := make(chan struct{})

	err := p.Submit(Job[int]{
		Payload: 1,
		Fn: func(n int) error {
			close(done)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("job did not complete")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = p.Shutdown(ctx)
	if got := p.ActiveWorkers(); got != 0 {
		t.Fatalf("active workers = %d; want 0", got)
	}
}

func TestSubmitAfterShutdown(t *testing.T) {
	p := NewPool[int](PoolOptions{Workers: 1})
	_ = p.Shutdown(context.Background())

	if ok := p.TrySubmit(Job[int]{Payload: 1, Fn: func(int) error { return nil }}); ok {
		t.Fatal("TrySubmit succeeded on closed pool; want false")
	}
	if err := p.Submit(Job[int]{Payload: 1, Fn: func(int) error { return nil }}); !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("Submit err = %v; want ErrPoolClosed", err)
	}
}

func TestSubmitNilFunc(t *testing.T) {
	p := NewPool[int](PoolOptions{Workers: 1})
	defer p.Stop()

	if err := p.Submit(Job[int]{Payload: 1}); !errors.Is(err, ErrNilFunc) {
		t.Fatalf("Submit err = %v; want ErrNilFunc", err)
	}
}

func TestShutdownTimeout(t *testing.T) {
	p := NewPool[int](PoolOptions{Workers: 1})

	started := make(chan struct{})
	done := make(chan struct{})

	_ = p.Submit(Job[int]{
		Payload: 1,
		Fn: func(int) error {
			close(started)
			time.Sleep(300 * time.Millisecond)
			close(done)
			return nil
		},
	})

	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := p.Shutdown(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Shutdown err = %v; want deadline exceeded", err)
	}

	<-done
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("second Shutdown err = %v; want nil", err)
	}
}

func TestPanicRecoveryAndCleanup(t *testing.T) {
	p := NewPool[int](PoolOptions{Workers: 1})
	defer p.Stop()

	var mu sync.Mutex
	cleaned := 0
	var reported error
	reportedCh := make(chan struct{})
	p.OnJobError = func(err error) {
		mu.Lock()
		reported = err
		mu.Unlock()
		close(reportedCh)
	}

	secondDone := make(chan struct{})

	// first job panics
	_ = p.Submit(Job[int]{
		Payload: 1,
		Fn: func(int) error {
			panic("boom")
		},
		CleanupFunc: func() {
			mu.Lock()
			cleaned++
			mu.Unlock()
		},
	})

	// second job should still run
	_ = p.Submit(Job[int]{
		Payload: 2,
		Fn: func(int) error {
			close(secondDone)
			return nil
		},
		CleanupFunc: func() {
			mu.Lock()
			cleaned++
			mu.Unlock()
		},
	})

	select {
	case <-secondDone:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("second job did not complete after first panicked")
	}

	select {
	case <-reportedCh:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("panic was not reported via OnJobError")
	}

	// allow cleanup defers to run
	time.Sleep(10 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if cleaned != 2 {
		t.Fatalf("cleanup called %d times; want 2", cleaned)
	}
	if reported == nil {
		t.Fatal("reported error is nil")
	}
}

func TestJobErrorReported(t *testing.T) {
	p := NewPool[int](PoolOptions{Workers: 1})
	defer p.Stop()

	sentinel := errors.New("job failed")
	got := make(chan error, 1)
	p.OnJobError = func(err error) { got <- err }

	_ = p.Submit(Job[int]{Payload: 1, Fn: func(int) error { return sentinel }})

	select {
	case err := <-got:
		if !errors.Is(err, sentinel) {
			t.Fatalf("reported err = %v; want sentinel", err)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("job error was not reported")
	}
}

func TestShutdownDrainsQueue(t *testing.T) {
	metrics := &AtomicMetrics{}
	p := NewPool[int](PoolOptions{Workers: 1, Metrics: metrics})

	const jobs = 20
	var executed atomic.Int32

	for i := 0; i < jobs; i++ {
		if err := p.Submit(Job[int]{
			Payload: i,
			Fn: func(int) error {
				time.Sleep(time.Millisecond)
				executed.Add(1)
				return nil
			},
		}); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if got := executed.Load(); got != jobs {
		t.Fatalf("executed = %d; want %d", got, jobs)
	}
	if got := metrics.Executed(); got != jobs {
		t.Fatalf("metrics executed = %d; want %d", got, jobs)
	}
}
