package rtstate

import "github.com/rs/zerolog"

// Unwinder records how to tear down resources as they are created, so that a failed
// start-up can release everything it built in strict reverse order.
type Unwinder struct {
	log   zerolog.Logger
	steps []unwindStep
}

type unwindStep struct {
	name string
	undo func()
}

// NewUnwinder makes an empty Unwinder.
func NewUnwinder(log zerolog.Logger) *Unwinder {
	return &Unwinder{log: log}
}

// Push records undo as the teardown of the resource just created.
func (u *Unwinder) Push(name string, undo func()) {
	u.steps = append(u.steps, unwindStep{name, undo})
}

// Len returns the number of recorded steps.
func (u *Unwinder) Len() int { return len(u.steps) }

// Unwind runs every recorded teardown, last first, and forgets them.
func (u *Unwinder) Unwind() {
	for i := len(u.steps) - 1; i >= 0; i-- {
		s := u.steps[i]
		u.log.Debug().Str("resource", s.name).Msg("releasing")
		s.undo()
	}
	u.steps = nil
}
