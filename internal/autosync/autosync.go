// Package autosync runs sync passes in the background in response to
// triggers, coalescing bursts of triggers into single passes.
package autosync

import (
	"context"
	"log"
	std "sync"
	"sync/atomic"
	"time"

	"todosync/sync"
)

// debounce is how long a burst of triggers settles before a pass runs
const debounce = 2 * time.Second

// Runner wraps a sync coordinator and executes passes on demand without
// blocking the caller. At most one pass runs at a time; triggers arriving
// while a pass is running or pending are absorbed.
type Runner struct {
	coordinator *sync.Coordinator
	accessToken string
	timeout     time.Duration

	wg      std.WaitGroup
	pending atomic.Bool
	syncing atomic.Bool
	closed  atomic.Bool

	// OnResult, when set, receives each completed pass result
	OnResult func(*sync.Result)

	logger *log.Logger
}

// NewRunner creates a runner. logger may be nil for silent operation.
func NewRunner(coordinator *sync.Coordinator, accessToken string, timeout time.Duration, logger *log.Logger) *Runner {
	return &Runner{
		coordinator: coordinator,
		accessToken: accessToken,
		timeout:     timeout,
		logger:      logger,
	}
}

// Trigger requests a background sync pass. Non-blocking; returns
// immediately. Repeated triggers while a pass is pending or running
// collapse into one follow-up pass.
func (r *Runner) Trigger() {
	if r.closed.Load() {
		return
	}

	r.pending.Store(true)

	if !r.syncing.CompareAndSwap(false, true) {
		// A pass is already scheduled; it will observe the pending flag
		return
	}

	r.wg.Add(1)
	go r.loop()
}

// loop runs passes until no trigger arrived during the previous pass
func (r *Runner) loop() {
	defer r.wg.Done()
	defer r.syncing.Store(false)

	defer func() {
		if rec := recover(); rec != nil {
			r.logf("panic in background sync: %v", rec)
		}
	}()

	for r.pending.CompareAndSwap(true, false) {
		// Let a burst of triggers settle before starting
		time.Sleep(debounce)
		r.pending.Store(false)

		if r.closed.Load() {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		result, err := r.coordinator.Run(ctx, r.accessToken)
		cancel()

		if err != nil {
			r.logf("background sync failed: %v", err)
			continue
		}

		if r.OnResult != nil {
			r.OnResult(result)
		}
	}
}

// Shutdown stops accepting triggers and waits for an in-flight pass,
// up to the given timeout.
func (r *Runner) Shutdown(timeout time.Duration) {
	r.closed.Store(true)
	r.pending.Store(false)

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		r.logf("background sync did not finish within %v", timeout)
	}
}

func (r *Runner) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}
