package demo

import (
	"image/color"
	"math"
	"strconv"

	"github.com/fogleman/gg"
)

// Radius of the shapes.
const Radius = 40

var (
	red   = color.RGBA{0xff, 0x00, 0x00, 0xff}
	green = color.RGBA{0x00, 0xa0, 0x00, 0xff}
	blue  = color.RGBA{0x00, 0x65, 0xbd, 0xff}
)

func drawStatic(dc *gg.Context, name string) {
	w, h := float64(dc.Width()), float64(dc.Height())
	dc.SetColor(color.Black)
	dc.DrawStringAnchored("[Q]uit  [E] next  [W] previous", 10, h-10, 0, 0)
	dc.DrawStringAnchored(name, w-10, h-10, 1, 0)
}

// counterPos returns where counter c is drawn.
func counterPos(dc *gg.Context, c Counter) (x, y float64) {
	w, h := float64(dc.Width()), float64(dc.Height())
	switch c {
	case N3:
		return w / 2, h / 4
	case N4:
		return w / 2, h * 3 / 4
	default:
		return w / 2, h / 2
	}
}

// drawCounter blanks the area of counter c and prints v there.
func drawCounter(dc *gg.Context, c Counter, v int) {
	x, y := counterPos(dc, c)
	s := strconv.Itoa(v)
	tw, th := dc.MeasureString(s)
	// room for a few more digits than currently shown
	bw := math.Max(tw, th) * 3
	dc.SetColor(color.White)
	dc.DrawRectangle(x-bw/2, y-th, bw, 2*th)
	dc.Fill()
	dc.SetColor(color.Black)
	dc.DrawStringAnchored(s, x, y, 0.5, 0.5)
}

func drawCounters(dc *gg.Context, n [3]int) {
	for c, v := range n {
		drawCounter(dc, Counter(c), v)
	}
}

func drawCircle(dc *gg.Context, x, y float64, col color.Color) {
	dc.SetColor(col)
	dc.DrawCircle(x, y, Radius)
	dc.Fill()
}

// scene is the animated picture of the animation state.
type scene struct {
	captionOffset float64
	captionStep   float64
}

func newScene() *scene {
	return &scene{captionStep: 10}
}

// draw renders the scene at time t seconds, with a press count line for the buttons.
func (s *scene) draw(dc *gg.Context, t float64, presses string, fps int) {
	w, h := float64(dc.Width()), float64(dc.Height())
	const freq = 0.5
	phase := 2 * math.Pi * freq * t

	dc.SetColor(red)
	dc.DrawCircle(w/2-w/4*math.Cos(phase), h/2-h/4*math.Sin(phase), Radius)
	dc.Fill()

	dc.SetColor(blue)
	dc.DrawRectangle(w/2-Radius+w/4*math.Cos(phase), h/2-Radius+h/4*math.Sin(phase), 2*Radius, 2*Radius)
	dc.Fill()

	dc.SetColor(green)
	dc.MoveTo(w/2-Radius, h/2+Radius)
	dc.LineTo(w/2, h/2-Radius)
	dc.LineTo(w/2+Radius, h/2+Radius)
	dc.ClosePath()
	dc.Fill()

	dc.SetColor(color.Black)
	const caption = "Round and round"
	cw, ch := dc.MeasureString(caption)
	beg := w/2 - cw/2 + s.captionOffset
	if beg+cw >= w || beg <= 0 {
		s.captionStep = -s.captionStep
	}
	s.captionOffset += s.captionStep
	dc.DrawString(caption, beg, ch*3.5)

	dc.DrawString(presses, 10, ch*1.5)
	dc.DrawStringAnchored("FPS: "+strconv.Itoa(fps), w-10, h-10-ch*1.5, 1, 0)
}
