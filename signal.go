package rtstate

import (
	"context"
	"time"
)

// Signal is a one-token semaphore. It is used in one of two ways.
//
// As a mutex (NewMutex) the token starts out available: Acquire takes it, Release puts it
// back. Every Acquire must be paired with exactly one Release; use Do to get that on every
// exit path. A Signal is not re-entrant: acquiring it twice from the same goroutine
// deadlocks.
//
// As an event latch (NewLatch) the token starts out missing: Release records that the event
// happened, Acquire waits for it and consumes it. At most one occurrence is pending; releasing
// a latch that already holds a permit does nothing.
type Signal struct {
	c chan struct{}
}

// NewMutex makes a Signal whose token is available.
func NewMutex() *Signal {
	s := NewLatch()
	s.c <- struct{}{}
	return s
}

// NewLatch makes a Signal with no pending permit.
func NewLatch() *Signal {
	return &Signal{c: make(chan struct{}, 1)}
}

// Acquire blocks until the token is available and takes it. A ctx deadline turns into
// ErrTimeout.
func (s *Signal) Acquire(ctx context.Context) error {
	select {
	case <-s.c:
		return nil
	default:
	}
	select {
	case <-s.c:
		return nil
	case <-ctx.Done():
		return waitErr(ctx)
	}
}

// AcquireTimeout is Acquire bounded by d.
func (s *Signal) AcquireTimeout(d time.Duration) error {
	if d <= 0 {
		if s.TryAcquire() {
			return nil
		}
		return ErrTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return s.Acquire(ctx)
}

// TryAcquire takes the token if it is available right now. False means "not currently
// available", not an error.
func (s *Signal) TryAcquire() bool {
	select {
	case <-s.c:
		return true
	default:
		return false
	}
}

// Release makes the token available. It never blocks.
func (s *Signal) Release() {
	select {
	case s.c <- struct{}{}:
	default: // already pending
	}
}

// Do runs f while holding the token and releases it afterwards, even if f panics.
func (s *Signal) Do(ctx context.Context, f func()) error {
	if err := s.Acquire(ctx); err != nil {
		return err
	}
	defer s.Release()
	f()
	return nil
}

// Pending reports whether the token is currently available. The answer may be stale by the
// time the caller looks at it.
func (s *Signal) Pending() bool {
	return len(s.c) == 1
}
