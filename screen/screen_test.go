package screen

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/fogleman/gg"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvasStartsWhite(t *testing.T) {
	c := NewCanvas(40, 30, nil, nil)
	defer c.Close()
	assert.Equal(t, image.Rect(0, 0, 40, 30), c.Bounds())
	snap := c.Snapshot()
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, snap.RGBAAt(20, 15))
}

func TestCanvasPresent(t *testing.T) {
	var got []*image.RGBA
	p := PresenterFunc(func(frame *image.RGBA) error {
		got = append(got, frame)
		return nil
	})
	c := NewCanvas(40, 30, p, nil)
	defer c.Close()

	red := color.RGBA{0xff, 0, 0, 0xff}
	require.NoError(t, c.Draw(func(dc *gg.Context) error {
		dc.SetColor(red)
		dc.DrawRectangle(0, 0, 20, 30)
		dc.Fill()
		return nil
	}))
	// drawing alone shows nothing
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, c.Snapshot().RGBAAt(5, 5))

	require.NoError(t, c.Present())
	require.Len(t, got, 1)
	assert.Equal(t, red, got[0].RGBAAt(5, 5))
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, got[0].RGBAAt(35, 5))
	assert.Equal(t, red, c.Snapshot().RGBAAt(5, 5))

	// the presented frame is a copy
	c.Clear(color.Black)
	assert.Equal(t, red, got[0].RGBAAt(5, 5))
}

func TestCanvasDrawError(t *testing.T) {
	c := NewCanvas(10, 10, nil, nil)
	boom := errors.New("boom")
	assert.ErrorIs(t, c.Draw(func(*gg.Context) error { return boom }), boom)

	c.Close()
	assert.ErrorIs(t, c.Draw(func(*gg.Context) error { return nil }), ErrClosed)
	assert.ErrorIs(t, c.Present(), ErrClosed)
}

func TestCounter(t *testing.T) {
	var n Counter
	c := NewCanvas(10, 10, &n, nil)
	defer c.Close()
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Present())
	}
	assert.EqualValues(t, 3, n.Frames())
}

func TestLoadFace(t *testing.T) {
	face, err := LoadFace(DefaultFontSize)
	require.NoError(t, err)
	c := NewCanvas(200, 50, nil, face)
	defer c.Close()
	require.NoError(t, c.Draw(func(dc *gg.Context) error {
		w, h := dc.MeasureString("0123")
		assert.Greater(t, w, 0.0)
		assert.Greater(t, h, 0.0)
		return nil
	}))
}

func TestChecker(t *testing.T) {
	c := NewChecker(zerolog.Nop())
	assert.False(t, c.Check("site", nil))
	for i := 0; i < 5; i++ {
		assert.True(t, c.Check("site", errors.New("boom")))
	}
}

func TestFitScales(t *testing.T) {
	red := color.RGBA{0xff, 0, 0, 0xff}
	blue := color.RGBA{0, 0, 0xff, 0xff}
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, red)
	src.SetRGBA(1, 1, blue)

	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	Fit(dst, src)
	for _, p := range []image.Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		assert.Equal(t, red, dst.RGBAAt(p.X, p.Y), "pixel %v", p)
	}
	for _, p := range []image.Point{{2, 2}, {3, 2}, {2, 3}, {3, 3}} {
		assert.Equal(t, blue, dst.RGBAAt(p.X, p.Y), "pixel %v", p)
	}

	// same size is a plain copy
	same := image.NewRGBA(image.Rect(0, 0, 2, 2))
	Fit(same, src)
	assert.Equal(t, src.Pix, same.Pix)
}
