package rtstate

import "fmt"

// State is one mode of operation of a Controller, an index into its Table.
type State uint8

// Direction asks a Controller to move to a neighbouring State.
type Direction uint8

const (
	// Next moves forward, wrapping from the last State to the first.
	Next Direction = iota
	// Previous moves backward, wrapping from the first State to the last.
	Previous
)

func (d Direction) String() string {
	switch d {
	case Next:
		return "next"
	case Previous:
		return "previous"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Valid reports whether d is Next or Previous.
func (d Direction) Valid() bool {
	return d == Next || d == Previous
}

// Step returns the State one step from s in direction d, in a ring of count States. Unknown
// directions and empty rings leave s unchanged.
func Step(s State, d Direction, count int) State {
	if count <= 0 {
		return s
	}
	n := int(s) % count
	switch d {
	case Next:
		n = (n + 1) % count
	case Previous:
		n = (n - 1 + count) % count
	}
	return State(n)
}
