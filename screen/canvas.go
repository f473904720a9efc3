package screen

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"git.samanthony.xyz/share"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// ErrClosed is returned by a Canvas after Close.
var ErrClosed = errors.New("screen: canvas closed")

// Canvas is an off-screen frame buffer. Draw and Present are not synchronised: callers hold
// the screen lock around them, which is what makes the lock the only thing standing between
// concurrent drawers.
type Canvas struct {
	frame     *image.RGBA
	dc        *gg.Context
	presenter Presenter
	last      share.Val[*image.RGBA]
	closed    bool
}

// NewCanvas makes a white width×height Canvas presenting to p. face, if not nil, becomes the
// default font.
func NewCanvas(width, height int, p Presenter, face font.Face) *Canvas {
	frame := image.NewRGBA(image.Rect(0, 0, width, height))
	dc := gg.NewContextForRGBA(frame)
	if face != nil {
		dc.SetFontFace(face)
	}
	if p == nil {
		p = Discard
	}
	c := &Canvas{
		frame:     frame,
		dc:        dc,
		presenter: p,
		last:      share.NewVal[*image.RGBA](),
	}
	c.Clear(color.White)
	c.last.Set <- cloneRGBA(frame)
	return c
}

// Bounds returns the drawing area.
func (c *Canvas) Bounds() image.Rectangle {
	return c.frame.Bounds()
}

// Draw runs f on the Canvas's drawing context.
func (c *Canvas) Draw(f func(dc *gg.Context) error) error {
	if c.closed {
		return ErrClosed
	}
	c.dc.Push()
	defer c.dc.Pop()
	return f(c.dc)
}

// Clear fills the whole Canvas with col.
func (c *Canvas) Clear(col color.Color) {
	draw.Draw(c.frame, c.frame.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// Present copies the current frame, records it as the last presented frame and hands it
// to the Presenter.
func (c *Canvas) Present() error {
	if c.closed {
		return ErrClosed
	}
	snap := cloneRGBA(c.frame)
	c.last.Set <- snap
	return c.presenter.Present(snap)
}

// Snapshot returns the last presented frame. It is safe to call without the screen lock.
func (c *Canvas) Snapshot() *image.RGBA {
	return c.last.Get()
}

// Close releases the Canvas. Snapshot must not be called afterwards.
func (c *Canvas) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.last.Close()
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
