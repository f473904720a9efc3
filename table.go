package rtstate

import (
	"context"
	"fmt"
	"slices"
)

// Optional is a Task a State runs only while its toggle reads true. The toggle outlives the
// State: it keeps the user's choice while the State is inactive.
type Optional struct {
	Task    TaskID
	Toggle  *Slot[bool]
	Default bool
}

// Entry describes one State.
type Entry struct {
	// Name is used in logs.
	Name string

	// Resume lists the Tasks that run while the State is current.
	Resume []TaskID

	// Optional lists Tasks that additionally run while the State is current and their
	// toggle is enabled.
	Optional []Optional

	// Enter, if set, runs on every entry to the State after all managed Tasks have been
	// suspended and before any of the State's Tasks are resumed.
	Enter func(ctx context.Context) error
}

// Table is the static activation table of a Controller: for each State, which Tasks to
// resume. Every Task named anywhere in the Table is managed: it is suspended on every
// transition, and only the new State's Tasks are resumed.
type Table struct {
	entries []Entry
	managed []TaskID
}

// NewTable builds a Table with one State per entry, numbered in order.
func NewTable(entries ...Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTable
	}
	if len(entries) > 256 {
		return nil, fmt.Errorf("rtstate: %d states do not fit in a State", len(entries))
	}
	t := &Table{entries: append([]Entry(nil), entries...)}
	for i, e := range t.entries {
		for _, o := range e.Optional {
			if o.Toggle == nil {
				return nil, fmt.Errorf("rtstate: state %d (%s): optional task %s has no toggle", i, e.Name, o.Task)
			}
			if slices.Contains(e.Resume, o.Task) {
				return nil, fmt.Errorf("rtstate: state %d (%s): task %s is both resumed and optional", i, e.Name, o.Task)
			}
		}
		for _, id := range e.tasks() {
			if !slices.Contains(t.managed, id) {
				t.managed = append(t.managed, id)
			}
		}
	}
	return t, nil
}

func (e Entry) tasks() []TaskID {
	ids := append([]TaskID(nil), e.Resume...)
	for _, o := range e.Optional {
		ids = append(ids, o.Task)
	}
	return ids
}

// Count returns the number of States.
func (t *Table) Count() int { return len(t.entries) }

// Entry returns the description of s.
func (t *Table) Entry(s State) Entry { return t.entries[int(s)%len(t.entries)] }

// Managed returns every Task named in the Table.
func (t *Table) Managed() []TaskID { return append([]TaskID(nil), t.managed...) }

// SuspendSet returns the managed Tasks that do not belong to s.
func (t *Table) SuspendSet(s State) []TaskID {
	own := t.Entry(s).tasks()
	var ids []TaskID
	for _, id := range t.managed {
		if !slices.Contains(own, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Optional returns the Optional entry of s for id.
func (t *Table) Optional(s State, id TaskID) (Optional, bool) {
	for _, o := range t.Entry(s).Optional {
		if o.Task == id {
			return o, true
		}
	}
	return Optional{}, false
}

// Lifecycle is what the Controller last decided about a managed Task.
type Lifecycle int

const (
	// Inactive Tasks belong to another State and are suspended.
	Inactive Lifecycle = iota
	// Active Tasks belong to the current State and are resumed.
	Active
	// Disabled Tasks are optional Tasks of the current State whose toggle is off.
	Disabled
)

func (l Lifecycle) String() string {
	switch l {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case Disabled:
		return "disabled"
	default:
		return fmt.Sprintf("Lifecycle(%d)", int(l))
	}
}

// Verify checks that every managed Task is registered in r.
func (t *Table) Verify(r *Registry) error {
	for _, id := range t.managed {
		if _, ok := r.Lookup(id); !ok {
			return fmt.Errorf("verify table: %s: %w", id, ErrUnknownTask)
		}
	}
	return nil
}
