package rtstate

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// TaskID names a Task in a Registry.
type TaskID string

// TaskState is a Task's scheduling state as seen from outside.
type TaskState int

const (
	// Suspended tasks do not get past their next suspension point until resumed.
	Suspended TaskState = iota
	// Ready tasks may run but have not yet got past their last suspension point.
	Ready
	// Running tasks are executing their own code.
	Running
	// Blocked tasks are waiting at a suspension point for something other than Resume.
	Blocked
)

func (s TaskState) String() string {
	switch s {
	case Suspended:
		return "suspended"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Blocked:
		return "blocked"
	default:
		return fmt.Sprintf("TaskState(%d)", int(s))
	}
}

// TaskFunc is the body of a Task. It normally loops until ctx is cancelled, calling the
// Task's blocking methods, which double as its suspension points.
type TaskFunc func(ctx context.Context, t *Task) error

// Task is a unit of work run on its own goroutine that other goroutines can suspend and
// resume.
//
// Suspension is cooperative: Suspend only marks the Task, and the Task parks at its next
// suspension point. Its local variables are untouched, so after Resume it carries on exactly
// where it stopped. While a Task holds a lock taken with Do its suspension points do not
// park; the suspension takes effect once the lock is released.
type Task struct {
	id   TaskID
	fn   TaskFunc
	gate *gate

	started atomic.Bool
	parked  atomic.Bool
	blocked atomic.Int32
	held    atomic.Int32

	notes atomic.Uint32
	wake  chan struct{}

	exited chan struct{}
}

func newTask(id TaskID, fn TaskFunc, suspended bool) *Task {
	return &Task{
		id:     id,
		fn:     fn,
		gate:   newGate(suspended),
		wake:   make(chan struct{}, 1),
		exited: make(chan struct{}),
	}
}

// ID returns the Task's identifier.
func (t *Task) ID() TaskID { return t.id }

func (t *Task) String() string { return string(t.id) }

// Suspend marks the Task suspended. Suspending a suspended Task does nothing.
func (t *Task) Suspend() { t.gate.suspend() }

// Resume makes the Task runnable again. Resuming a runnable Task does nothing.
func (t *Task) Resume() { t.gate.resume() }

// Suspended reports whether the Task is marked suspended.
func (t *Task) Suspended() bool { return t.gate.isSuspended() }

// State reports the Task's scheduling state.
func (t *Task) State() TaskState {
	switch {
	case t.gate.isSuspended():
		return Suspended
	case !t.started.Load() || t.parked.Load():
		return Ready
	case t.blocked.Load() > 0:
		return Blocked
	default:
		return Running
	}
}

// Exited returns a channel closed when the Task's body has returned.
func (t *Task) Exited() <-chan struct{} { return t.exited }

// Checkpoint is a bare suspension point: it returns at once unless the Task is suspended, in
// which case it parks until Resume or ctx is done.
func (t *Task) Checkpoint(ctx context.Context) error {
	for {
		if t.held.Load() > 0 {
			return nil
		}
		open, _ := t.gate.channels()
		select {
		case <-open:
			return nil
		default:
		}
		t.parked.Store(true)
		select {
		case <-open:
			t.parked.Store(false)
		case <-ctx.Done():
			t.parked.Store(false)
			return ctx.Err()
		}
	}
}

// SuspendSelf suspends the Task and parks it until someone resumes it.
func (t *Task) SuspendSelf(ctx context.Context) error {
	t.Suspend()
	return t.Checkpoint(ctx)
}

// haltChan is the channel that interrupts a wait when the Task gets suspended, or nil while
// the Task holds a lock.
func (t *Task) haltChan() <-chan struct{} {
	if t.held.Load() > 0 {
		return nil
	}
	_, halt := t.gate.channels()
	return halt
}

// Acquire takes s's token as a suspension point. A Task suspended while waiting stops
// waiting without consuming the token; if the token is still there when it is resumed it
// takes it straight away.
func (t *Task) Acquire(ctx context.Context, s *Signal) error {
	for {
		if err := t.Checkpoint(ctx); err != nil {
			return err
		}
		halt := t.haltChan()
		t.blocked.Add(1)
		select {
		case <-s.c:
			t.blocked.Add(-1)
			if halt != nil && t.gate.isSuspended() {
				// lost the race against Suspend; hand the token back
				s.Release()
				continue
			}
			return nil
		case <-halt:
			t.blocked.Add(-1)
		case <-ctx.Done():
			t.blocked.Add(-1)
			return waitErr(ctx)
		}
	}
}

// Do takes s with Acquire, runs f and releases s, even if f panics. f must not block on
// anything that waits for this Task to be suspended.
func (t *Task) Do(ctx context.Context, s *Signal, f func()) error {
	if err := t.Acquire(ctx, s); err != nil {
		return err
	}
	t.held.Add(1)
	defer func() {
		s.Release()
		t.held.Add(-1)
	}()
	f()
	return nil
}

// Wait blocks until a receive from ready succeeds, as a suspension point. A value sent on
// ready is consumed; closed channels work as level-triggered conditions.
func (t *Task) Wait(ctx context.Context, ready <-chan struct{}) error {
	for {
		if err := t.Checkpoint(ctx); err != nil {
			return err
		}
		halt := t.haltChan()
		t.blocked.Add(1)
		select {
		case <-ready:
			t.blocked.Add(-1)
			return t.Checkpoint(ctx)
		case <-halt:
			t.blocked.Add(-1)
		case <-ctx.Done():
			t.blocked.Add(-1)
			return waitErr(ctx)
		}
	}
}

// Sleep pauses the Task for d, then passes a suspension point.
func (t *Task) Sleep(ctx context.Context, d time.Duration) error {
	if d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		t.blocked.Add(1)
		select {
		case <-timer.C:
			t.blocked.Add(-1)
		case <-ctx.Done():
			t.blocked.Add(-1)
			return ctx.Err()
		}
	}
	return t.Checkpoint(ctx)
}

// DelayUntil sleeps until the Pacer's next period boundary.
func (t *Task) DelayUntil(ctx context.Context, p *Pacer) error {
	return t.Sleep(ctx, p.Next())
}

// Notify increments the Task's notification count and wakes it if it is in TakeNotify.
func (t *Task) Notify() {
	t.notes.Add(1)
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// TakeNotify waits, as a suspension point, for the notification count to be non-zero,
// decrements it and returns the count it saw.
func (t *Task) TakeNotify(ctx context.Context) (uint32, error) {
	for {
		if err := t.Checkpoint(ctx); err != nil {
			return 0, err
		}
		if n := t.notes.Load(); n > 0 {
			if t.notes.CompareAndSwap(n, n-1) {
				return n, nil
			}
			continue
		}
		if err := t.Wait(ctx, t.wake); err != nil {
			return 0, err
		}
	}
}

// run executes the body. A suspended Task parks before its first instruction.
func (t *Task) run(ctx context.Context) error {
	defer close(t.exited)
	t.started.Store(true)
	err := t.Checkpoint(ctx)
	if err == nil {
		err = t.fn(ctx, t)
	}
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("task %s: %w", t.id, err)
	}
	return nil
}
