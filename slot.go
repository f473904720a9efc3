package rtstate

import (
	"context"
	"sync"
	"time"
)

// Slot is a concurrent single-value cell with overwrite semantics.
//
// A producer publishes with Overwrite, which replaces whatever the Slot held and never waits
// for a consumer. Any number of consumers read the stored value with Peek or TryPeek; reading
// does not remove it. Peek blocks until the first value is published.
//
// Only the latest value is kept. A slow reader may miss values overwritten between two of its
// reads.
type Slot[T any] struct {
	mu    sync.RWMutex
	val   T
	set   bool
	ready chan struct{} // closed by the first Overwrite
}

// NewSlot makes an empty Slot.
func NewSlot[T any]() *Slot[T] {
	return &Slot[T]{ready: make(chan struct{})}
}

// NewSlotOf makes a Slot that already holds v.
func NewSlotOf[T any](v T) *Slot[T] {
	s := NewSlot[T]()
	s.Overwrite(v)
	return s
}

// Overwrite replaces the stored value with v.
func (s *Slot[T]) Overwrite(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.val = v
	if !s.set {
		s.set = true
		close(s.ready)
	}
}

// Peek returns the stored value, waiting for the first publish if the Slot is empty.
// It returns ErrTimeout if ctx expires first.
func (s *Slot[T]) Peek(ctx context.Context) (T, error) {
	select {
	case <-s.ready:
	default:
		select {
		case <-s.ready:
		case <-ctx.Done():
			var zero T
			return zero, waitErr(ctx)
		}
	}
	v, _ := s.TryPeek()
	return v, nil
}

// PeekTimeout is Peek bounded by d.
func (s *Slot[T]) PeekTimeout(d time.Duration) (T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return s.Peek(ctx)
}

// TryPeek returns the stored value without waiting. The second result is false if nothing
// has been published yet.
func (s *Slot[T]) TryPeek() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.val, s.set
}

// Ready returns a channel that is closed once the Slot holds a value.
func (s *Slot[T]) Ready() <-chan struct{} {
	return s.ready
}

// peekAs is Peek performed as a suspension point of t: while t is suspended it does not
// return, even if a value is available.
func peekAs[T any](ctx context.Context, t *Task, s *Slot[T]) (T, error) {
	if err := t.Wait(ctx, s.Ready()); err != nil {
		var zero T
		return zero, err
	}
	v, _ := s.TryPeek()
	return v, nil
}
