package demo

import (
	"context"

	"github.com/faiface/rtstate"
)

// Counter selects one of the counters of the counters state.
type Counter int

const (
	N3 Counter = iota
	N4
	N5
)

// Counters holds the counters of the counters state, guarded by a mutex-mode Signal.
//
// Lock order: the counters lock is taken before the screen lock, never after it.
type Counters struct {
	lock *rtstate.Signal
	n    [3]int
}

// NewCounters makes zeroed Counters.
func NewCounters() *Counters {
	return &Counters{lock: rtstate.NewMutex()}
}

// Inc increments c from Task t and returns its new value.
func (cs *Counters) Inc(ctx context.Context, t *rtstate.Task, c Counter) (int, error) {
	var v int
	err := t.Do(ctx, cs.lock, func() {
		cs.n[c]++
		v = cs.n[c]
	})
	return v, err
}

// Get returns the value of c, read from Task t.
func (cs *Counters) Get(ctx context.Context, t *rtstate.Task, c Counter) (int, error) {
	var v int
	err := t.Do(ctx, cs.lock, func() { v = cs.n[c] })
	return v, err
}

// Reset zeroes n3 and n4 and then runs f, if not nil, with the new values while still
// holding the counters lock.
func (cs *Counters) Reset(ctx context.Context, f func(n [3]int)) error {
	return cs.lock.Do(ctx, func() {
		cs.n[N3] = 0
		cs.n[N4] = 0
		if f != nil {
			f(cs.n)
		}
	})
}

// Snapshot returns all counters.
func (cs *Counters) Snapshot(ctx context.Context) ([3]int, error) {
	var n [3]int
	err := cs.lock.Do(ctx, func() { n = cs.n })
	return n, err
}
