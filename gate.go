package rtstate

import "sync"

// gate records whether a Task may run.
//
// Exactly one of open and halt is closed at any time: open while the Task is runnable, halt
// while it is suspended. Waiters select on the one that is still open to learn about the
// next transition; every transition replaces the channel it closes.
type gate struct {
	mu        sync.Mutex
	suspended bool
	open      chan struct{}
	halt      chan struct{}
}

func newGate(suspended bool) *gate {
	g := &gate{
		suspended: suspended,
		open:      make(chan struct{}),
		halt:      make(chan struct{}),
	}
	if suspended {
		close(g.halt)
	} else {
		close(g.open)
	}
	return g
}

// suspend reports whether the gate changed.
func (g *gate) suspend() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.suspended {
		return false
	}
	g.suspended = true
	g.open = make(chan struct{})
	close(g.halt)
	return true
}

// resume reports whether the gate changed.
func (g *gate) resume() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.suspended {
		return false
	}
	g.suspended = false
	g.halt = make(chan struct{})
	close(g.open)
	return true
}

func (g *gate) channels() (open, halt <-chan struct{}) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open, g.halt
}

func (g *gate) isSuspended() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.suspended
}
