package demo

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/faiface/rtstate"
	"github.com/faiface/rtstate/input"
	"github.com/fogleman/gg"
)

// Every worker follows the same pattern: take a draw-ready permit, then draw holding the
// screen lock. Workers that also touch the counters release the counters lock before
// taking the screen lock.

func (a *App) enterAnimation(ctx context.Context) error {
	if err := a.ready.Acquire(ctx); err != nil {
		return err
	}
	return a.lock.Do(ctx, func() {
		a.draw("enter animation", func(dc *gg.Context) {
			dc.SetColor(color.White)
			dc.Clear()
			drawStatic(dc, "animation")
		})
	})
}

func (a *App) enterCounters(ctx context.Context) error {
	if err := a.ready.Acquire(ctx); err != nil {
		return err
	}
	n, err := a.counters.Snapshot(ctx)
	if err != nil {
		return err
	}
	return a.lock.Do(ctx, func() {
		a.draw("enter counters", func(dc *gg.Context) {
			dc.SetColor(color.White)
			dc.Clear()
			drawStatic(dc, "counters")
			drawCounters(dc, n)
		})
	})
}

var countedKeys = []input.Key{input.KeyA, input.KeyB, input.KeyC, input.KeyD}

func (a *App) animation(ctx context.Context, t *rtstate.Task) error {
	sc := newScene()
	var fps fpsMeter
	start := a.clock.Now()
	presses := "A: 0 | B: 0 | C: 0 | D: 0"
	for {
		err := rtstate.Frame(ctx, t, a.ready, a.lock, func() {
			if n, ok := a.buttons.Presses(countedKeys...); ok {
				presses = fmt.Sprintf("A: %d | B: %d | C: %d | D: %d", n[0], n[1], n[2], n[3])
			}
			now := a.clock.Now()
			a.draw("animation", func(dc *gg.Context) {
				dc.SetColor(color.White)
				dc.Clear()
				drawStatic(dc, "animation")
				sc.draw(dc, now.Sub(start).Seconds(), presses, fps.tick(now))
			})
		})
		if err != nil {
			return err
		}
	}
}

// blink alternates a circle at (x, y) between col and white every half period. If the Task
// falls more than a second behind it restarts its schedule.
func (a *App) blink(x, y float64, col color.Color, half time.Duration) rtstate.TaskFunc {
	pacer := rtstate.NewPacer(a.clock, half, time.Second)
	colors := [2]color.Color{col, color.White}
	i := 0
	return rtstate.Loop(func(ctx context.Context, t *rtstate.Task) error {
		c := colors[i]
		err := rtstate.Frame(ctx, t, a.ready, a.lock, func() {
			a.draw("blink", func(dc *gg.Context) { drawCircle(dc, x, y, c) })
		})
		if err != nil {
			return err
		}
		i = 1 - i
		return t.DelayUntil(ctx, pacer)
	})
}

// bump increments c unless the previous increment was less than the debounce delay ago,
// and returns the value to show.
func (a *App) bump(ctx context.Context, t *rtstate.Task, c Counter, last *time.Time) (int, error) {
	now := a.clock.Now()
	if now.Sub(*last) > a.debounce {
		*last = now
		return a.counters.Inc(ctx, t, c)
	}
	return a.counters.Get(ctx, t, c)
}

func (a *App) showCounter(ctx context.Context, t *rtstate.Task, c Counter, v int) error {
	return t.Do(ctx, a.lock, func() {
		a.draw("counter", func(dc *gg.Context) { drawCounter(dc, c, v) })
	})
}

// counter3 counts sub-action-1 presses, delivered through the sub1 latch.
func (a *App) counter3() rtstate.TaskFunc {
	last := a.clock.Now()
	return rtstate.Loop(func(ctx context.Context, t *rtstate.Task) error {
		if err := t.Acquire(ctx, a.ready); err != nil {
			return err
		}
		if err := t.Acquire(ctx, a.sub1); err != nil {
			return err
		}
		v, err := a.bump(ctx, t, N3, &last)
		if err != nil {
			return err
		}
		return a.showCounter(ctx, t, N3, v)
	})
}

// counter4 counts sub-action-2 presses, delivered as Task notifications.
func (a *App) counter4() rtstate.TaskFunc {
	last := a.clock.Now()
	return rtstate.Loop(func(ctx context.Context, t *rtstate.Task) error {
		if err := t.Acquire(ctx, a.ready); err != nil {
			return err
		}
		if _, err := t.TakeNotify(ctx); err != nil {
			return err
		}
		v, err := a.bump(ctx, t, N4, &last)
		if err != nil {
			return err
		}
		return a.showCounter(ctx, t, N4, v)
	})
}

// counter5 counts seconds while enabled.
func (a *App) counter5() rtstate.TaskFunc {
	pacer := rtstate.NewPacer(a.clock, time.Second, time.Second)
	return rtstate.Loop(func(ctx context.Context, t *rtstate.Task) error {
		if err := t.Acquire(ctx, a.ready); err != nil {
			return err
		}
		if err := t.DelayUntil(ctx, pacer); err != nil {
			return err
		}
		v, err := a.counters.Inc(ctx, t, N5)
		if err != nil {
			return err
		}
		return a.showCounter(ctx, t, N5, v)
	})
}

// reseter restarts the reset timer each time the counters state is entered.
func (a *App) reseter() rtstate.TaskFunc {
	return rtstate.Loop(func(ctx context.Context, t *rtstate.Task) error {
		if err := a.timer.Reset(); err != nil {
			return err
		}
		a.log.Debug().Msg("reset timer restarted")
		return t.SuspendSelf(ctx)
	})
}

// resetCounters is the reset timer's callback. It zeroes n3 and n4 and, if the counters
// state is current, redraws the counters. The state is read under the screen lock, but a
// transition may already be committed and not yet applied; its Enter hook takes the screen
// lock after this and redraws the whole screen, so a stale redraw never stays visible.
func (a *App) resetCounters(ctx context.Context) {
	err := a.counters.Reset(ctx, func(n [3]int) {
		err := a.lock.Do(ctx, func() {
			if !a.inState(StateCounters) {
				return
			}
			a.draw("reset", func(dc *gg.Context) { drawCounters(dc, n) })
		})
		if err != nil {
			a.log.Debug().Err(err).Msg("reset redraw skipped")
		}
	})
	if err != nil {
		a.log.Debug().Err(err).Msg("reset skipped")
		return
	}
	a.log.Info().Msg("counters reset")
}
