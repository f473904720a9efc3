// Package demo is the two-state demonstration application: an animation state and a counters
// state, switched by the keyboard, sharing one screen.
package demo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/faiface/rtstate"
	"github.com/faiface/rtstate/input"
	"github.com/faiface/rtstate/screen"
	"github.com/fogleman/gg"
	"github.com/rs/zerolog"
)

// The States of the application.
const (
	StateAnimation rtstate.State = iota
	StateCounters
)

// Task identifiers.
const (
	TaskHeartbeat  rtstate.TaskID = "heartbeat"
	TaskPoller     rtstate.TaskID = "poller"
	TaskController rtstate.TaskID = "controller"
	TaskAnimation  rtstate.TaskID = "animation"
	TaskBlink1     rtstate.TaskID = "blink1"
	TaskBlink2     rtstate.TaskID = "blink2"
	TaskCounter3   rtstate.TaskID = "counter3"
	TaskCounter4   rtstate.TaskID = "counter4"
	TaskCounter5   rtstate.TaskID = "counter5"
	TaskReseter    rtstate.TaskID = "reseter"
)

// DefaultResetPeriod is the period of the timer that zeroes n3 and n4.
const DefaultResetPeriod = 15 * time.Second

// Options configures an App. Zero durations select the package defaults.
type Options struct {
	Width, Height int

	FramePeriod  time.Duration
	PollInterval time.Duration
	Debounce     time.Duration
	ResetPeriod  time.Duration

	// Presenter receives every finished frame. Defaults to screen.Discard.
	Presenter screen.Presenter
	// Source delivers key events. Required.
	Source input.Source
	// QuitOnClose quits the App once Source is exhausted.
	QuitOnClose bool

	Clock rtstate.Clock
	Log   zerolog.Logger
}

// App owns every object of the application.
type App struct {
	log      zerolog.Logger
	clock    rtstate.Clock
	debounce time.Duration

	canvas *screen.Canvas
	check  *screen.Checker

	lock  *rtstate.Signal // screen lock
	ready *rtstate.Signal // draw-ready latch
	sub1  *rtstate.Signal // sub-action-1 latch

	counters *Counters
	toggle5  *rtstate.Slot[bool]
	buttons  *input.Buttons

	registry   *rtstate.Registry
	controller *rtstate.Controller
	heartbeat  *rtstate.Heartbeat
	poller     *input.Poller
	timer      *rtstate.Timer

	unwind *rtstate.Unwinder

	mu   sync.Mutex
	quit context.CancelFunc
}

// New builds an App. If any step fails, everything built so far is released in reverse
// order and the error is returned.
func New(opts Options) (_ *App, err error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("demo: no input source")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 640, 480
	}
	if opts.ResetPeriod <= 0 {
		opts.ResetPeriod = DefaultResetPeriod
	}
	debounce := opts.Debounce
	switch {
	case debounce == 0:
		debounce = rtstate.DefaultDebounce
	case debounce < 0:
		debounce = 0
	}
	clock := opts.Clock
	if clock == nil {
		clock = rtstate.SystemClock
	}

	a := &App{
		log:      opts.Log,
		clock:    clock,
		debounce: debounce,
		check:    screen.NewChecker(opts.Log),
		lock:     rtstate.NewMutex(),
		ready:    rtstate.NewLatch(),
		sub1:     rtstate.NewLatch(),
		counters: NewCounters(),
		toggle5:  rtstate.NewSlot[bool](),
		buttons:  input.NewButtons(),
		unwind:   rtstate.NewUnwinder(opts.Log),
	}
	defer func() {
		if err != nil {
			a.log.Error().Err(err).Msg("start-up failed, unwinding")
			a.unwind.Unwind()
		}
	}()

	face, err := screen.LoadFace(screen.DefaultFontSize)
	if err != nil {
		return nil, err
	}
	a.canvas = screen.NewCanvas(opts.Width, opts.Height, opts.Presenter, face)
	a.unwind.Push("canvas", a.canvas.Close)

	a.timer = rtstate.NewTimer("reset", opts.ResetPeriod, a.resetCounters, opts.Log)
	a.unwind.Push("reset timer", func() { rtstate.Kill(a.timer) })

	a.registry = rtstate.NewRegistry(opts.Log)

	a.heartbeat = &rtstate.Heartbeat{
		Period:  opts.FramePeriod,
		Lock:    a.lock,
		Ready:   a.ready,
		Present: a.canvas.Present,
		Clock:   clock,
		Log:     opts.Log,
	}
	a.poller = &input.Poller{
		Source:      opts.Source,
		Buttons:     a.buttons,
		Bindings:    input.DefaultBindings(),
		Dispatch:    a.Dispatch,
		Interval:    opts.PollInterval,
		Log:         opts.Log,
		QuitOnClose: opts.QuitOnClose,
	}

	table, err := rtstate.NewTable(
		rtstate.Entry{
			Name:   "animation",
			Resume: []rtstate.TaskID{TaskAnimation},
			Enter:  a.enterAnimation,
		},
		rtstate.Entry{
			Name:   "counters",
			Resume: []rtstate.TaskID{TaskReseter, TaskBlink1, TaskBlink2, TaskCounter3, TaskCounter4},
			Optional: []rtstate.Optional{
				{Task: TaskCounter5, Toggle: a.toggle5, Default: true},
			},
			Enter: a.enterCounters,
		},
	)
	if err != nil {
		return nil, err
	}
	a.controller, err = rtstate.NewController(rtstate.ControllerConfig{
		Table:    table,
		Registry: a.registry,
		Initial:  StateAnimation,
		Debounce: opts.Debounce,
		Clock:    clock,
		Log:      opts.Log,
	})
	if err != nil {
		return nil, err
	}

	w := float64(opts.Width)
	h := float64(opts.Height)
	tasks := []struct {
		id        rtstate.TaskID
		fn        rtstate.TaskFunc
		suspended bool
	}{
		{TaskHeartbeat, a.heartbeat.Run, false},
		{TaskPoller, a.poller.Run, false},
		{TaskController, a.controller.Run, false},
		{TaskAnimation, a.animation, true},
		{TaskBlink1, a.blink(w/4, h/2, red, 500*time.Millisecond), true},
		{TaskBlink2, a.blink(w*3/4, h/2, green, 250*time.Millisecond), true},
		{TaskCounter3, a.counter3(), true},
		{TaskCounter4, a.counter4(), true},
		{TaskCounter5, a.counter5(), true},
		{TaskReseter, a.reseter(), true},
	}
	for _, t := range tasks {
		var spawn []rtstate.SpawnOption
		if t.suspended {
			spawn = append(spawn, rtstate.StartSuspended())
		}
		if _, err := a.registry.Spawn(t.id, t.fn, spawn...); err != nil {
			return nil, err
		}
		a.unwind.Push(string(t.id), func() { a.registry.Remove(t.id) })
	}

	if err := table.Verify(a.registry); err != nil {
		return nil, err
	}
	return a, nil
}

// Run runs every Task until ctx is cancelled, a Task fails, or the quit key is pressed.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.mu.Lock()
	a.quit = cancel
	a.mu.Unlock()

	a.log.Info().Int("tasks", len(a.registry.IDs())).Msg("running")
	err := a.registry.Run(ctx)
	if err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	return nil
}

// Close releases everything New built, in reverse order.
func (a *App) Close() {
	a.unwind.Unwind()
}

// Quit makes Run return.
func (a *App) Quit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.quit != nil {
		a.quit()
	}
}

// Dispatch performs a logical input action.
func (a *App) Dispatch(act input.Action) {
	switch act {
	case input.ActionNext:
		a.controller.Request(rtstate.Next)
	case input.ActionPrevious:
		a.controller.Request(rtstate.Previous)
	case input.ActionSub1:
		if a.inState(StateCounters) {
			a.sub1.Release()
		}
	case input.ActionSub2:
		if a.inState(StateCounters) {
			if t, ok := a.registry.Lookup(TaskCounter4); ok {
				t.Notify()
			}
		}
	case input.ActionToggle:
		a.controller.Toggle(TaskCounter5)
	case input.ActionQuit:
		a.Quit()
	}
}

func (a *App) inState(s rtstate.State) bool {
	cur, ok := a.controller.Current().TryPeek()
	return ok && cur == s
}

// Registry returns the App's Tasks.
func (a *App) Registry() *rtstate.Registry { return a.registry }

// Controller returns the App's state machine.
func (a *App) Controller() *rtstate.Controller { return a.controller }

// Heartbeat returns the App's frame task.
func (a *App) Heartbeat() *rtstate.Heartbeat { return a.heartbeat }

// Canvas returns the App's screen.
func (a *App) Canvas() *screen.Canvas { return a.canvas }

// Counters returns the counters of the counters state.
func (a *App) Counters() *Counters { return a.counters }

// Buttons returns the key buffer.
func (a *App) Buttons() *input.Buttons { return a.buttons }

// draw runs f on the canvas and reports failures under site. The caller holds the screen
// lock.
func (a *App) draw(site string, f func(dc *gg.Context)) {
	a.check.Check(site, a.canvas.Draw(func(dc *gg.Context) error {
		f(dc)
		return nil
	}))
}
