package screen

import (
	"image"
	"sync/atomic"
)

// Presenter pushes a finished frame to wherever it is shown. The frame belongs to the
// Presenter once passed in.
type Presenter interface {
	Present(frame *image.RGBA) error
}

// PresenterFunc adapts a function to a Presenter.
type PresenterFunc func(frame *image.RGBA) error

func (f PresenterFunc) Present(frame *image.RGBA) error { return f(frame) }

// Discard drops every frame.
var Discard Presenter = PresenterFunc(func(*image.RGBA) error { return nil })

// Counter counts presented frames and otherwise drops them.
type Counter struct {
	n atomic.Uint64
}

func (c *Counter) Present(*image.RGBA) error {
	c.n.Add(1)
	return nil
}

// Frames returns the number of frames presented so far.
func (c *Counter) Frames() uint64 { return c.n.Load() }
