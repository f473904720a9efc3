package rtstate

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Timer is a software timer serviced by its own goroutine. Once started it calls its callback
// every period until stopped (auto-reload). Callbacks run one at a time on the service
// goroutine, so a slow callback delays the next one rather than overlapping it.
//
// The callback's context is cancelled when the Timer is killed, so a callback blocked on a
// lock does not hold up shutdown.
type Timer struct {
	name     string
	period   time.Duration
	callback func(ctx context.Context)
	log      zerolog.Logger

	reset chan struct{}
	stop  chan struct{}
	done  chan struct{}

	kill chan bool
	dead chan bool
}

// NewTimer makes a stopped Timer and starts its service goroutine.
func NewTimer(name string, period time.Duration, callback func(ctx context.Context), log zerolog.Logger) *Timer {
	t := &Timer{
		name:     name,
		period:   period,
		callback: callback,
		log:      log,
		reset:    make(chan struct{}),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		kill:     make(chan bool),
		dead:     make(chan bool),
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		defer close(t.done)
		t.serve(ctx)
	}()

	go func() {
		defer func() {
			t.dead <- true
			close(t.dead)
		}()
		defer close(t.kill)
		<-t.kill
		cancel()
		<-t.done
	}()

	return t
}

func (t *Timer) serve(ctx context.Context) {
	var ticker *time.Ticker
	var tick <-chan time.Time
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		select {
		case <-t.reset:
			if ticker == nil {
				ticker = time.NewTicker(t.period)
			} else {
				ticker.Reset(t.period)
			}
			tick = ticker.C
		case <-t.stop:
			if ticker != nil {
				ticker.Stop()
				ticker = nil
			}
			tick = nil
		case <-tick:
			t.log.Debug().Str("timer", t.name).Msg("timer expired")
			t.callback(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Reset starts the Timer, or restarts its current period if it is running. It returns
// ErrClosed once the Timer is dead.
func (t *Timer) Reset() error {
	select {
	case t.reset <- struct{}{}:
		return nil
	case <-t.done:
		return ErrClosed
	}
}

// Stop stops the Timer. A stopped Timer can be started again with Reset.
func (t *Timer) Stop() error {
	select {
	case t.stop <- struct{}{}:
		return nil
	case <-t.done:
		return ErrClosed
	}
}

func (t *Timer) Kill() chan<- bool { return t.kill }

func (t *Timer) Dead() <-chan bool { return t.dead }
