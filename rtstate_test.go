package rtstate

import (
	"context"
	"sync"
	"testing"
	"time"
)

const timeout = 1 * time.Second

// trySend returns true if v can be sent to c within timeout, or false otherwise.
func trySend[T any](c chan<- T, v T, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case c <- v:
		return true
	case <-timer.C:
		return false
	}
}

// tryRecv returns the value received from c, or false if no value is received within timeout.
func tryRecv[T any](c <-chan T, timeout time.Duration) (*T, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case v := <-c:
		return &v, true
	case <-timer.C:
		return nil, false
	}
}

// fakeClock only moves when told to.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// start runs task on its own goroutine until the test ends. The returned channel receives
// the result of the run.
func start(t *testing.T, task *Task) <-chan error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- task.run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-task.Exited()
	})
	return errc
}

// parked reports whether task is sitting at a suspension point because it is suspended.
func parked(task *Task) func() bool {
	return func() bool { return task.parked.Load() }
}
