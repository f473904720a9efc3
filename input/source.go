package input

import (
	"bufio"
	"io"
	"unicode"

	"git.samanthony.xyz/share"
)

// Source produces key Events. The channel must be unlimited in capacity (use share.Queue)
// and is closed when the Source has nothing more to deliver.
type Source interface {
	Events() <-chan Event
}

// Script is a Source fed programmatically.
type Script struct {
	events share.Queue[Event]
}

// NewScript makes an open Script.
func NewScript() *Script {
	return &Script{events: share.NewQueue[Event]()}
}

func (s *Script) Events() <-chan Event { return s.events.Dequeue }

// Send queues e.
func (s *Script) Send(e Event) { s.events.Enqueue <- e }

// Press queues a key-down followed by a key-up of each key.
func (s *Script) Press(keys ...Key) {
	for _, k := range keys {
		s.events.Enqueue <- Event{Key: k, Down: true}
		s.events.Enqueue <- Event{Key: k, Down: false}
	}
}

// Close ends the Script. Send and Press must not be called afterwards.
func (s *Script) Close() { close(s.events.Enqueue) }

// LineSource reads key presses from text: every printable character of every line is one
// press of the corresponding key. The Source closes when r is exhausted.
type LineSource struct {
	events share.Queue[Event]
}

// NewLineSource starts reading r.
func NewLineSource(r io.Reader) *LineSource {
	ls := &LineSource{events: share.NewQueue[Event]()}
	go func() {
		defer close(ls.events.Enqueue)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			for _, c := range sc.Text() {
				if !unicode.IsPrint(c) || unicode.IsSpace(c) {
					continue
				}
				k := KeyOf(c)
				ls.events.Enqueue <- Event{Key: k, Down: true}
				ls.events.Enqueue <- Event{Key: k, Down: false}
			}
		}
	}()
	return ls
}

func (ls *LineSource) Events() <-chan Event { return ls.events.Dequeue }
