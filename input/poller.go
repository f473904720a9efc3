package input

import (
	"context"
	"slices"
	"time"

	"github.com/faiface/rtstate"
	"github.com/rs/zerolog"
)

// DefaultPollInterval is the Poller's default period.
const DefaultPollInterval = time.Millisecond

// Poller is the input-polling task. Every Interval it moves pending Events from Source into
// Buttons and dispatches the Action bound to every key pressed since the previous poll.
type Poller struct {
	Source   Source
	Buttons  *Buttons
	Bindings Bindings
	Dispatch func(Action)
	Interval time.Duration
	Log      zerolog.Logger

	// QuitOnClose makes the Poller dispatch ActionQuit once the Source is exhausted.
	QuitOnClose bool

	pending []Event
	closed  bool
}

// Poll runs one polling round.
func (p *Poller) Poll() {
	if !p.closed {
	drain:
		for {
			select {
			case e, ok := <-p.Source.Events():
				if !ok {
					p.closed = true
					p.Log.Debug().Msg("input source closed")
					break drain
				}
				p.pending = append(p.pending, e)
			default:
				break drain
			}
		}
	}
	if len(p.pending) > 0 && p.Buttons.Update(p.pending) {
		p.pending = p.pending[:0]
	}

	keys := make([]Key, 0, len(p.Bindings))
	for k := range p.Bindings {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if p.Buttons.Consume(k) {
			a := p.Bindings[k]
			p.Log.Debug().Stringer("key", k).Stringer("action", a).Msg("input")
			p.dispatch(a)
		}
	}
}

func (p *Poller) dispatch(a Action) {
	if p.Dispatch != nil {
		p.Dispatch(a)
	}
}

// Run is the Poller's TaskFunc.
func (p *Poller) Run(ctx context.Context, t *rtstate.Task) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	quit := false
	for {
		p.Poll()
		if p.QuitOnClose && p.closed && !quit && len(p.pending) == 0 {
			quit = true
			p.dispatch(ActionQuit)
		}
		if err := t.Sleep(ctx, interval); err != nil {
			return err
		}
	}
}
