package input

import (
	"fmt"
	"unicode"
)

// Key identifies a keyboard key by the character printed on it.
type Key rune

const (
	KeyA Key = 'a'
	KeyB Key = 'b'
	KeyC Key = 'c'
	KeyD Key = 'd'
	KeyE Key = 'e'
	KeyQ Key = 'q'
	KeyW Key = 'w'
	Key3 Key = '3'
	Key4 Key = '4'
	Key5 Key = '5'
)

// KeyOf returns the Key for a character, folding letters to lower case.
func KeyOf(r rune) Key {
	return Key(unicode.ToLower(r))
}

func (k Key) String() string {
	if unicode.IsPrint(rune(k)) {
		return string(unicode.ToUpper(rune(k)))
	}
	return fmt.Sprintf("Key(%d)", rune(k))
}

// Event is a key going down or up.
type Event struct {
	Key  Key
	Down bool
}

func (e Event) String() string {
	if e.Down {
		return "kb/down/" + e.Key.String()
	}
	return "kb/up/" + e.Key.String()
}

// Action is a logical input the application reacts to.
type Action int

const (
	ActionNone Action = iota
	ActionNext
	ActionPrevious
	ActionSub1
	ActionSub2
	ActionToggle
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionNext:
		return "next-state"
	case ActionPrevious:
		return "previous-state"
	case ActionSub1:
		return "sub-action-1"
	case ActionSub2:
		return "sub-action-2"
	case ActionToggle:
		return "toggle-optional-task"
	case ActionQuit:
		return "quit"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Bindings maps keys to the Action a press dispatches.
type Bindings map[Key]Action

// DefaultBindings returns E/W for next/previous state, 3 and 4 for the sub-actions, 5 to
// toggle the optional task and Q to quit.
func DefaultBindings() Bindings {
	return Bindings{
		KeyE: ActionNext,
		KeyW: ActionPrevious,
		Key3: ActionSub1,
		Key4: ActionSub2,
		Key5: ActionToggle,
		KeyQ: ActionQuit,
	}
}
