package rtstate

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskSuspendResume(t *testing.T) {
	var n atomic.Int64
	task := newTask("counter", Loop(func(ctx context.Context, task *Task) error {
		n.Add(1)
		return task.Sleep(ctx, time.Millisecond)
	}), false)
	start(t, task)

	require.Eventually(t, func() bool { return n.Load() > 3 }, timeout, time.Millisecond)

	task.Suspend()
	task.Suspend() // idempotent
	assert.Equal(t, Suspended, task.State())
	require.Eventually(t, parked(task), timeout, time.Millisecond)
	frozen := n.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, frozen, n.Load(), "suspended task kept running")

	task.Resume()
	task.Resume()
	require.Eventually(t, func() bool { return n.Load() > frozen }, timeout, time.Millisecond)
}

func TestStartSuspendedParksBeforeBody(t *testing.T) {
	ran := make(chan struct{})
	task := newTask("late", func(ctx context.Context, task *Task) error {
		close(ran)
		<-ctx.Done()
		return nil
	}, true)
	start(t, task)

	if _, ok := tryRecv(ran, 20*time.Millisecond); ok {
		t.Fatal("task created suspended ran its body")
	}
	task.Resume()
	if _, ok := tryRecv(ran, timeout); !ok {
		t.Fatalf("task did not run %v after Resume", timeout)
	}
}

func TestSuspendedTaskDoesNotConsumePermit(t *testing.T) {
	latch := NewLatch()
	var n atomic.Int64
	task := newTask("waiter", Loop(func(ctx context.Context, task *Task) error {
		if err := task.Acquire(ctx, latch); err != nil {
			return err
		}
		n.Add(1)
		return nil
	}), false)
	start(t, task)

	require.Eventually(t, func() bool { return task.State() == Blocked }, timeout, time.Millisecond)
	task.Suspend()
	require.Eventually(t, parked(task), timeout, time.Millisecond)

	latch.Release()
	time.Sleep(20 * time.Millisecond)
	assert.True(t, latch.Pending(), "suspended task took the permit")
	assert.Zero(t, n.Load())

	// the pending permit is caught up on straight after resumption
	task.Resume()
	require.Eventually(t, func() bool { return n.Load() == 1 }, timeout, time.Millisecond)
	assert.False(t, latch.Pending())
}

func TestHeldLockDefersSuspension(t *testing.T) {
	lock := NewMutex()
	entered := make(chan struct{})
	proceed := make(chan struct{})
	inner := make(chan error, 1)
	task := newTask("holder", Loop(func(ctx context.Context, task *Task) error {
		return task.Do(ctx, lock, func() {
			entered <- struct{}{}
			<-proceed
			inner <- task.Checkpoint(ctx)
		})
	}), false)
	start(t, task)

	_, ok := tryRecv(entered, timeout)
	require.True(t, ok)
	task.Suspend()
	require.True(t, trySend(proceed, struct{}{}, timeout))

	// the checkpoint inside the critical section does not park
	err, ok := tryRecv(inner, timeout)
	require.True(t, ok, "task parked while holding the lock")
	assert.NoError(t, *err)

	// the suspension lands at the next suspension point, after the lock is released
	require.Eventually(t, parked(task), timeout, time.Millisecond)
	assert.True(t, lock.Pending(), "task parked holding the lock")
}

func TestTaskStateBlocked(t *testing.T) {
	never := make(chan struct{})
	task := newTask("blocked", func(ctx context.Context, task *Task) error {
		return task.Wait(ctx, never)
	}, false)
	start(t, task)

	require.Eventually(t, func() bool { return task.State() == Blocked }, timeout, time.Millisecond)
	task.Suspend()
	assert.Equal(t, Suspended, task.State())
	task.Resume()
	require.Eventually(t, func() bool { return task.State() == Blocked }, timeout, time.Millisecond)
}

func TestNotify(t *testing.T) {
	task := newTask("notified", nil, false)
	ctx := context.Background()

	task.Notify()
	task.Notify()
	n, err := task.TakeNotify(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	n, err = task.TakeNotify(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got := make(chan uint32)
	go func() {
		n, err := task.TakeNotify(ctx)
		if err == nil {
			got <- n
		}
	}()
	if _, ok := tryRecv(got, 20*time.Millisecond); ok {
		t.Fatal("TakeNotify returned without a notification")
	}
	task.Notify()
	v, ok := tryRecv(got, timeout)
	require.True(t, ok)
	assert.EqualValues(t, 1, *v)
}

func TestSuspendSelf(t *testing.T) {
	var n atomic.Int64
	task := newTask("self", Loop(func(ctx context.Context, task *Task) error {
		n.Add(1)
		return task.SuspendSelf(ctx)
	}), false)
	start(t, task)

	require.Eventually(t, parked(task), timeout, time.Millisecond)
	assert.EqualValues(t, 1, n.Load())
	task.Resume()
	require.Eventually(t, func() bool { return n.Load() == 2 && task.parked.Load() }, timeout, time.Millisecond)
}

func TestRunWrapsError(t *testing.T) {
	boom := errors.New("boom")
	task := newTask("failing", func(context.Context, *Task) error { return boom }, false)
	err := task.run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "task failing")
}

func TestRunCancelledIsNil(t *testing.T) {
	task := newTask("cancelled", func(ctx context.Context, task *Task) error {
		return task.Sleep(ctx, time.Hour)
	}, false)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- task.run(ctx) }()
	cancel()
	err, ok := tryRecv(errc, timeout)
	require.True(t, ok)
	assert.NoError(t, *err)
}
