// Package executor provides the shared, bounded blocking-I/O executor
// a concrete data-layer implementation owns. It wraps sourcegraph/conc's
// worker pool, a bounded-goroutine-pool-with-cancellation primitive.
package executor

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// Executor runs blocking-I/O tasks on a fixed-size pool of goroutines,
// shared across every engine partition in a job. A single Executor is
// safe for concurrent Submit calls.
type Executor struct {
	pool    *pool.Pool
	pending sync.WaitGroup // Submit calls not yet handed to pool
}

// New builds an Executor bounded to maxGoroutines concurrent tasks.
func New(maxGoroutines int) *Executor {
	p := pool.New().WithMaxGoroutines(maxGoroutines)
	return &Executor{pool: p}
}

// Future is a handle to a task submitted to an Executor. Wait blocks
// until the task completes or the context it was submitted with is
// cancelled. Cancellation is cooperative: fetches observe it at I/O
// boundaries rather than being forcibly killed.
type Future struct {
	done chan struct{}
	err  error
}

// Wait blocks until the task completes, returning its error (including
// context.Canceled/DeadlineExceeded if the task observed and returned
// it, or if the submitting context expired before the task ran).
func (f *Future) Wait() error {
	<-f.done
	return f.err
}

// Done returns a channel closed when the task completes, for callers
// that need to multiplex waiting on several Futures (or a Future and a
// context) with select rather than blocking in Wait.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Submit schedules fn to run on the pool, subject to the Executor's
// concurrency bound. fn should observe ctx.Done() at its I/O
// boundaries and return promptly on cancellation. Submit itself never
// blocks the caller; the returned Future is resolved asynchronously.
func (e *Executor) Submit(ctx context.Context, fn func(ctx context.Context) error) *Future {
	fut := &Future{done: make(chan struct{})}
	// pool.Go blocks while every worker is busy, so the hand-off runs on
	// its own goroutine.
	e.pending.Add(1)
	go func() {
		defer e.pending.Done()
		e.pool.Go(func() {
			defer close(fut.done)
			select {
			case <-ctx.Done():
				fut.err = ctx.Err()
				return
			default:
			}
			fut.err = fn(ctx)
		})
	}()
	return fut
}

// Drain blocks until every task submitted so far has completed. Used
// only at job shutdown; individual partitions wait on their own
// Futures rather than draining the shared executor.
func (e *Executor) Drain() {
	e.pending.Wait()
	e.pool.Wait()
}
