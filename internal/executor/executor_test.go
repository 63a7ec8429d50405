package executor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestSubmit_RunsAndResolves(t *testing.T) {
	e := New(4)
	var ran int32
	fut := e.Submit(context.Background(), func(ctx context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})
	if err := fut.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atomic.LoadInt32(&ran) != 1 {
		t.Errorf("expected task to run exactly once")
	}
}

func TestSubmit_PropagatesTaskError(t *testing.T) {
	e := New(2)
	wantErr := errors.New("boom")
	fut := e.Submit(context.Background(), func(ctx context.Context) error {
		return wantErr
	})
	if err := fut.Wait(); !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
}

func TestSubmit_ObservesCancellationBeforeRunning(t *testing.T) {
	e := New(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fut := e.Submit(ctx, func(ctx context.Context) error {
		t.Errorf("task should not have run on an already-cancelled context")
		return nil
	})
	if err := fut.Wait(); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSubmit_BoundsConcurrency(t *testing.T) {
	e := New(2)
	var inFlight, maxSeen int32

	release := make(chan struct{})
	var futs []*Future
	for i := 0; i < 5; i++ {
		futs = append(futs, e.Submit(context.Background(), func(ctx context.Context) error {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				old := atomic.LoadInt32(&maxSeen)
				if n <= old || atomic.CompareAndSwapInt32(&maxSeen, old, n) {
					break
				}
			}
			<-release
			atomic.AddInt32(&inFlight, -1)
			return nil
		}))
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	for _, f := range futs {
		if err := f.Wait(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if atomic.LoadInt32(&maxSeen) > 2 {
		t.Errorf("expected at most 2 concurrent tasks, saw %d", maxSeen)
	}
}
