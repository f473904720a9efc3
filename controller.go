package rtstate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultDebounce is the minimum time between two committed transitions.
const DefaultDebounce = 300 * time.Millisecond

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	Table    *Table
	Registry *Registry

	// Initial is the State applied at start.
	Initial State

	// Debounce is the minimum time between two committed transitions. Directions arriving
	// sooner are dropped. Zero means DefaultDebounce; use a negative value to disable.
	Debounce time.Duration

	// Clock defaults to SystemClock.
	Clock Clock

	Log zerolog.Logger
}

// Controller is the state machine that decides which Tasks run.
//
// It waits for Directions, debounces them, publishes the committed State to the Current
// Slot and then applies it: every managed Task is suspended, the State's Enter hook runs, and
// the State's Tasks are resumed. Because the State is published before any Task is resumed,
// a freshly resumed Task that peeks Current always sees the State it was resumed for.
type Controller struct {
	table    *Table
	registry *Registry
	debounce time.Duration
	clock    Clock
	log      zerolog.Logger

	requests chan Direction
	current  *Slot[State]

	// mu serialises applying a State with Toggle.
	mu         sync.Mutex
	state      State
	changed    bool
	lastChange time.Time
	lifecycles map[TaskID]Lifecycle
	applied    uint64
}

// NewController makes a Controller that will apply cfg.Initial when it starts.
func NewController(cfg ControllerConfig) (*Controller, error) {
	if cfg.Table == nil {
		return nil, ErrEmptyTable
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("rtstate: controller needs a registry")
	}
	if int(cfg.Initial) >= cfg.Table.Count() {
		return nil, fmt.Errorf("rtstate: initial state %d out of range [0, %d)", cfg.Initial, cfg.Table.Count())
	}
	debounce := cfg.Debounce
	switch {
	case debounce == 0:
		debounce = DefaultDebounce
	case debounce < 0:
		debounce = 0
	}
	clock := clockOr(cfg.Clock)

	c := &Controller{
		table:      cfg.Table,
		registry:   cfg.Registry,
		debounce:   debounce,
		clock:      clock,
		log:        cfg.Log,
		requests:   make(chan Direction, 1),
		current:    NewSlotOf(cfg.Initial),
		state:      cfg.Initial,
		changed:    true,
		lastChange: clock.Now(),
		lifecycles: make(map[TaskID]Lifecycle),
	}
	for i := 0; i < cfg.Table.Count(); i++ {
		for _, o := range cfg.Table.Entry(State(i)).Optional {
			if _, ok := o.Toggle.TryPeek(); !ok {
				o.Toggle.Overwrite(o.Default)
			}
		}
	}
	return c, nil
}

// Current returns the Slot the committed State is published to.
func (c *Controller) Current() *Slot[State] { return c.current }

// Table returns the activation table.
func (c *Controller) Table() *Table { return c.table }

// Request queues d without blocking. The queue holds one Direction; when it is full d is
// dropped and Request returns false.
func (c *Controller) Request(d Direction) bool {
	select {
	case c.requests <- d:
		return true
	default:
		return false
	}
}

// Handle commits d if the debounce window since the last commit has passed, publishing the
// new State. It reports whether d was committed. Invalid directions are ignored.
func (c *Controller) Handle(d Direction) bool {
	if !d.Valid() {
		c.log.Debug().Stringer("direction", d).Msg("ignoring invalid direction")
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if now.Sub(c.lastChange) <= c.debounce {
		c.log.Debug().Stringer("direction", d).Dur("since", now.Sub(c.lastChange)).Msg("debounced")
		return false
	}
	c.state = Step(c.state, d, c.table.Count())
	c.current.Overwrite(c.state)
	c.changed = true
	c.lastChange = now
	return true
}

// Pending reports whether a committed State is waiting to be applied.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.changed
}

// Apply applies the committed State if it has not been applied yet: it suspends every
// managed Task, runs the Enter hook, then resumes the State's Tasks and those of its
// optional Tasks whose toggle is enabled.
func (c *Controller) Apply(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.changed {
		return nil
	}
	s := c.state
	e := c.table.Entry(s)

	for _, id := range c.table.Managed() {
		c.registry.Suspend(id)
		c.lifecycles[id] = Inactive
	}

	if e.Enter != nil {
		if err := e.Enter(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Error().Err(err).Uint8("state", uint8(s)).Str("name", e.Name).Msg("enter failed")
		}
	}

	for _, id := range e.Resume {
		c.registry.Resume(id)
		c.lifecycles[id] = Active
	}
	for _, o := range e.Optional {
		enabled, ok := o.Toggle.TryPeek()
		if !ok {
			enabled = o.Default
		}
		if enabled {
			c.registry.Resume(o.Task)
			c.lifecycles[o.Task] = Active
		} else {
			c.lifecycles[o.Task] = Disabled
		}
	}

	c.changed = false
	c.applied++
	c.log.Info().Uint8("state", uint8(s)).Str("name", e.Name).Msg("state applied")
	return nil
}

// Applied returns how many times a State has been applied.
func (c *Controller) Applied() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applied
}

// Toggle flips the toggle of an optional Task of the committed State and, if that State has
// been applied, suspends or resumes the Task to match. While a committed State is waiting to
// be applied only the toggle changes; Apply acts on it. The first result is the new toggle
// value; the second is false if the committed State has no such optional Task.
func (c *Controller) Toggle(id TaskID) (enabled, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	o, ok := c.table.Optional(c.state, id)
	if !ok {
		return false, false
	}
	was, set := o.Toggle.TryPeek()
	if !set {
		was = o.Default
	}
	enabled = !was
	o.Toggle.Overwrite(enabled)
	c.log.Info().Str("task", string(id)).Bool("enabled", enabled).Bool("deferred", c.changed).Msg("optional task toggled")
	if c.changed {
		return enabled, true
	}
	if enabled {
		c.registry.Resume(id)
		c.lifecycles[id] = Active
	} else {
		c.registry.Suspend(id)
		c.lifecycles[id] = Disabled
	}
	return enabled, true
}

// Lifecycle returns what the Controller last decided about id. Tasks it has never touched
// are Inactive.
func (c *Controller) Lifecycle(id TaskID) Lifecycle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lifecycles[id]
}

// Run is the Controller's TaskFunc. It applies the initial State straight away, then loops:
// wait for a Direction, commit it if allowed, apply.
func (c *Controller) Run(ctx context.Context, t *Task) error {
	for {
		if err := t.Checkpoint(ctx); err != nil {
			return err
		}
		if !c.Pending() {
			select {
			case d := <-c.requests:
				c.Handle(d)
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := c.Apply(ctx); err != nil {
			return err
		}
	}
}
