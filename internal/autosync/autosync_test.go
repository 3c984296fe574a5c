package autosync

import (
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"todosync/store"
	"todosync/sync"
)

func newTestRunner(t *testing.T) (*Runner, *atomic.Int32) {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "todos.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	coordinator := sync.NewCoordinator(s, sync.NewMockGateway(), "user-1", nil)
	runner := NewRunner(coordinator, "token", 30*time.Second, nil)

	var passes atomic.Int32
	runner.OnResult = func(*sync.Result) { passes.Add(1) }

	return runner, &passes
}

func waitForPasses(t *testing.T, passes *atomic.Int32, want int32) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if passes.Load() >= want {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d passes, saw %d", want, passes.Load())
}

func TestTriggerRunsOnePass(t *testing.T) {
	runner, passes := newTestRunner(t)
	defer runner.Shutdown(5 * time.Second)

	runner.Trigger()
	waitForPasses(t, passes, 1)
}

func TestBurstOfTriggersCoalesces(t *testing.T) {
	runner, passes := newTestRunner(t)

	for i := 0; i < 20; i++ {
		runner.Trigger()
	}

	waitForPasses(t, passes, 1)
	runner.Shutdown(5 * time.Second)

	if got := passes.Load(); got > 2 {
		t.Errorf("burst of triggers ran %d passes, want at most 2", got)
	}
}

func TestShutdownStopsAcceptingTriggers(t *testing.T) {
	runner, passes := newTestRunner(t)

	runner.Shutdown(time.Second)
	runner.Trigger()

	time.Sleep(3 * time.Second)
	if got := passes.Load(); got != 0 {
		t.Errorf("trigger after shutdown ran %d passes, want 0", got)
	}
}
