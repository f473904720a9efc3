package demo

import (
	"context"
	"testing"
	"time"

	"github.com/faiface/rtstate"
	"github.com/faiface/rtstate/input"
	"github.com/faiface/rtstate/screen"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const timeout = 2 * time.Second

type harness struct {
	app    *App
	script *input.Script
	frames *screen.Counter
	done   chan error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		script: input.NewScript(),
		frames: new(screen.Counter),
		done:   make(chan error, 1),
	}
	app, err := New(Options{
		Width:        320,
		Height:       240,
		FramePeriod:  2 * time.Millisecond,
		PollInterval: time.Millisecond,
		Debounce:     -1,
		Presenter:    h.frames,
		Source:       h.script,
		Log:          zerolog.Nop(),
	})
	require.NoError(t, err)
	h.app = app

	ctx, cancel := context.WithCancel(context.Background())
	go func() { h.done <- app.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-h.done:
		case <-time.After(timeout):
			t.Errorf("app did not stop after %v", timeout)
		}
		app.Close()
	})
	return h
}

func (h *harness) state() rtstate.State {
	s, _ := h.app.Controller().Current().TryPeek()
	return s
}

func (h *harness) running(ids ...rtstate.TaskID) func() bool {
	return func() bool {
		for _, id := range ids {
			t, ok := h.app.Registry().Lookup(id)
			if !ok || t.Suspended() {
				return false
			}
		}
		return true
	}
}

func (h *harness) suspended(ids ...rtstate.TaskID) func() bool {
	return func() bool {
		for _, id := range ids {
			t, ok := h.app.Registry().Lookup(id)
			if !ok || !t.Suspended() {
				return false
			}
		}
		return true
	}
}

func (h *harness) counter(c Counter) func() int {
	return func() int {
		n, err := h.app.Counters().Snapshot(context.Background())
		if err != nil {
			return -1
		}
		return n[c]
	}
}

var countersTasks = []rtstate.TaskID{TaskBlink1, TaskBlink2, TaskCounter3, TaskCounter4}

func TestStartsInAnimation(t *testing.T) {
	h := newHarness(t)
	require.Eventually(t, func() bool { return h.app.Controller().Applied() == 1 }, timeout, time.Millisecond)
	assert.Equal(t, StateAnimation, h.state())
	assert.True(t, h.running(TaskAnimation, TaskHeartbeat, TaskPoller, TaskController)())
	assert.True(t, h.suspended(append(countersTasks, TaskCounter5, TaskReseter)...)())
	require.Eventually(t, func() bool { return h.frames.Frames() > 3 }, timeout, time.Millisecond)
}

func TestSwitchStates(t *testing.T) {
	h := newHarness(t)
	require.Eventually(t, func() bool { return h.app.Controller().Applied() == 1 }, timeout, time.Millisecond)

	h.script.Press(input.KeyE)
	require.Eventually(t, func() bool {
		return h.state() == StateCounters && h.app.Controller().Applied() == 2
	}, timeout, time.Millisecond)
	assert.True(t, h.running(append(countersTasks, TaskCounter5)...)())
	assert.True(t, h.suspended(TaskAnimation)())

	h.script.Press(input.KeyW)
	require.Eventually(t, func() bool {
		return h.state() == StateAnimation && h.app.Controller().Applied() == 3
	}, timeout, time.Millisecond)
	assert.True(t, h.running(TaskAnimation)())
	assert.True(t, h.suspended(append(countersTasks, TaskCounter5)...)())
}

func TestSubActions(t *testing.T) {
	h := newHarness(t)
	require.Eventually(t, func() bool { return h.app.Controller().Applied() == 1 }, timeout, time.Millisecond)

	// ignored outside the counters state
	h.script.Press(input.Key3, input.Key4)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, h.counter(N3)())
	assert.Equal(t, 0, h.counter(N4)())

	h.script.Press(input.KeyE)
	require.Eventually(t, func() bool { return h.app.Controller().Applied() == 2 }, timeout, time.Millisecond)

	h.script.Press(input.Key3)
	require.Eventually(t, func() bool { return h.counter(N3)() == 1 }, timeout, time.Millisecond)
	h.script.Press(input.Key4)
	require.Eventually(t, func() bool { return h.counter(N4)() == 1 }, timeout, time.Millisecond)
}

func TestToggleCounter5(t *testing.T) {
	h := newHarness(t)
	h.script.Press(input.KeyE)
	require.Eventually(t, func() bool { return h.app.Controller().Applied() == 2 }, timeout, time.Millisecond)
	require.Eventually(t, h.running(TaskCounter5), timeout, time.Millisecond)

	h.script.Press(input.Key5)
	require.Eventually(t, h.suspended(TaskCounter5), timeout, time.Millisecond)
	assert.Equal(t, rtstate.Disabled, h.app.Controller().Lifecycle(TaskCounter5))

	h.script.Press(input.Key5)
	require.Eventually(t, h.running(TaskCounter5), timeout, time.Millisecond)
}

func TestQuit(t *testing.T) {
	h := newHarness(t)
	h.script.Press(input.KeyQ)
	select {
	case err := <-h.done:
		assert.NoError(t, err)
		h.done <- err
	case <-time.After(timeout):
		t.Fatalf("app still running %v after quit", timeout)
	}
}

func TestResetCounters(t *testing.T) {
	h := newHarness(t)
	h.script.Press(input.KeyE)
	require.Eventually(t, func() bool { return h.app.Controller().Applied() == 2 }, timeout, time.Millisecond)

	require.NoError(t, h.app.Counters().lock.Do(context.Background(), func() {
		h.app.Counters().n = [3]int{4, 5, 6}
	}))
	h.app.resetCounters(context.Background())
	n, err := h.app.Counters().Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n[N3])
	assert.Equal(t, 0, n[N4])
	assert.GreaterOrEqual(t, n[N5], 6)
}

func TestNewNeedsSource(t *testing.T) {
	_, err := New(Options{Log: zerolog.Nop()})
	assert.Error(t, err)
}

func TestFPSMeter(t *testing.T) {
	var m fpsMeter
	now := time.Now()
	assert.Zero(t, m.tick(now))
	for i := 0; i < 10; i++ {
		now = now.Add(20 * time.Millisecond)
		assert.Equal(t, 50, m.tick(now))
	}
}
