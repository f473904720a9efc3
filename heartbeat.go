package rtstate

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// DefaultFramePeriod is the Heartbeat period used when none is configured.
const DefaultFramePeriod = 20 * time.Millisecond

// Heartbeat is the periodic buffer-swap activity. Once per Period it takes the screen Lock,
// presents the screen, polls input, releases one draw-ready permit and releases the Lock.
// Periods are counted from the start time, so a late frame does not shift the ones after
// it.
type Heartbeat struct {
	Period time.Duration

	// Lock is the screen lock (a mutex-mode Signal).
	Lock *Signal
	// Ready is the draw-ready latch worker Tasks wait on.
	Ready *Signal

	// Present pushes the finished frame out. Failures are logged; the loop keeps going.
	Present func() error
	// Poll fetches pending input, if the backend needs it done under the screen lock.
	Poll func()

	Clock Clock
	Log   zerolog.Logger

	frames atomic.Uint64
}

// Frames returns the number of completed periods.
func (h *Heartbeat) Frames() uint64 {
	return h.frames.Load()
}

// Run is the Heartbeat's TaskFunc.
func (h *Heartbeat) Run(ctx context.Context, t *Task) error {
	period := h.Period
	if period <= 0 {
		period = DefaultFramePeriod
	}
	pacer := NewPacer(h.Clock, period, 0)
	for {
		err := t.Do(ctx, h.Lock, func() {
			if h.Present != nil {
				if err := h.Present(); err != nil {
					h.Log.Error().Err(err).Uint64("frame", h.frames.Load()).Msg("present failed")
				}
			}
			if h.Poll != nil {
				h.Poll()
			}
			h.Ready.Release()
		})
		if err != nil {
			return err
		}
		h.frames.Add(1)
		if err := t.DelayUntil(ctx, pacer); err != nil {
			return err
		}
	}
}
