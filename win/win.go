// Package win shows frames in an OS window and reads its keyboard.
//
// A Win must be created inside mainthread.Run.
package win

import (
	"errors"
	"image"
	"runtime"
	"sync"
	"unsafe"

	"git.samanthony.xyz/share"
	"github.com/faiface/mainthread"
	"github.com/faiface/rtstate/input"
	"github.com/faiface/rtstate/screen"
	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.2/glfw"
)

// ErrClosed is returned by Present after the window has been killed.
var ErrClosed = errors.New("win: window closed")

// Option is a functional option to the window constructor.
type Option func(*options)

type options struct {
	title         string
	width, height int
}

// Title option sets the title (caption) of the window.
func Title(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

// Size option sets the width and height of the window.
func Size(width, height int) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// Win is a fixed-size window. It is a screen.Presenter: presented frames are copied to the
// window by a dedicated OpenGL thread. It is an input.Source: key presses arrive as
// input.Events, and closing the window reads as a press of input.KeyQ.
type Win struct {
	events share.Queue[input.Event]
	frames chan *image.RGBA
	done   chan struct{}

	w     *glfw.Window
	img   share.Val[*image.RGBA]
	ratio int

	kill chan bool
	dead chan bool

	threads *sync.WaitGroup
}

// New creates a new window with all the supplied options.
//
// The default title is empty and the default size is 640x480.
func New(opts ...Option) (*Win, error) {
	o := options{
		title:  "",
		width:  640,
		height: 480,
	}
	for _, opt := range opts {
		opt(&o)
	}

	w := &Win{
		events:  share.NewQueue[input.Event](),
		frames:  make(chan *image.RGBA, 1),
		done:    make(chan struct{}),
		img:     share.NewVal[*image.RGBA](),
		kill:    make(chan bool),
		dead:    make(chan bool),
		threads: new(sync.WaitGroup),
	}

	var err error
	mainthread.Call(func() {
		w.w, err = makeGLFWWin(&o)
	})
	if err != nil {
		return nil, err
	}

	mainthread.Call(func() {
		// hiDPI hack
		width, _ := w.w.GetFramebufferSize()
		w.ratio = width / o.width
		if w.ratio < 1 {
			w.ratio = 1
		}
		if w.ratio != 1 {
			o.width /= w.ratio
			o.height /= w.ratio
		}
		w.w.Destroy()
		w.w, err = makeGLFWWin(&o)
	})
	if err != nil {
		return nil, err
	}

	bounds := image.Rect(0, 0, o.width*w.ratio, o.height*w.ratio)
	w.img.Set <- image.NewRGBA(bounds)

	w.threads.Add(1)
	go func() {
		runtime.LockOSThread()
		w.openGLThread()
	}()

	mainthread.CallNonBlock(w.eventThread)

	return w, nil
}

func makeGLFWWin(o *options) (*glfw.Window, error) {
	err := glfw.Init()
	if err != nil {
		return nil, err
	}
	glfw.WindowHint(glfw.DoubleBuffer, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	return glfw.CreateWindow(o.width, o.height, o.title, nil, nil)
}

// Events returns the key events of the window.
func (w *Win) Events() <-chan input.Event { return w.events.Dequeue }

// Present queues frame for display, replacing a frame that has not been shown yet.
func (w *Win) Present(frame *image.RGBA) error {
	select {
	case <-w.done:
		return ErrClosed
	default:
	}
	select {
	case <-w.frames: // superseded
	default:
	}
	select {
	case w.frames <- frame:
		return nil
	case <-w.done:
		return ErrClosed
	}
}

func (w *Win) Kill() chan<- bool { return w.kill }

func (w *Win) Dead() <-chan bool { return w.dead }

var keys = map[glfw.Key]input.Key{
	glfw.KeyA: input.KeyA,
	glfw.KeyB: input.KeyB,
	glfw.KeyC: input.KeyC,
	glfw.KeyD: input.KeyD,
	glfw.KeyE: input.KeyE,
	glfw.KeyQ: input.KeyQ,
	glfw.KeyW: input.KeyW,
	glfw.Key3: input.Key3,
	glfw.Key4: input.Key4,
	glfw.Key5: input.Key5,
}

func (w *Win) eventThread() {
	w.w.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		k, ok := keys[key]
		if !ok {
			return
		}
		switch action {
		case glfw.Press:
			w.events.Enqueue <- input.Event{Key: k, Down: true}
		case glfw.Release:
			w.events.Enqueue <- input.Event{Key: k, Down: false}
		}
	})

	w.w.SetCloseCallback(func(_ *glfw.Window) {
		w.events.Enqueue <- input.Event{Key: input.KeyQ, Down: true}
		w.events.Enqueue <- input.Event{Key: input.KeyQ, Down: false}
	})

	for {
		select {
		case <-w.kill:
			close(w.done)
			close(w.kill)
			close(w.events.Enqueue)
			w.threads.Wait()
			w.w.Destroy()
			w.img.Close()

			w.dead <- true
			close(w.dead)

			return
		default:
			glfw.WaitEventsTimeout(1.0 / 30)
		}
	}
}

func (w *Win) openGLThread() {
	defer w.threads.Done()

	w.w.MakeContextCurrent()
	gl.Init()

	w.openGLFlush(w.img.Get())

	for {
		select {
		case <-w.done:
			return
		case frame := <-w.frames:
			img := w.img.Get()
			screen.Fit(img, frame)
			w.openGLFlush(img)
		}
	}
}

func (w *Win) openGLFlush(img *image.RGBA) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return
	}

	gl.DrawBuffer(gl.FRONT)
	gl.Viewport(
		int32(bounds.Min.X),
		int32(bounds.Min.Y),
		int32(bounds.Dx()),
		int32(bounds.Dy()),
	)
	gl.RasterPos2d(-1, +1)
	gl.PixelZoom(1, -1)
	gl.DrawPixels(
		int32(bounds.Dx()),
		int32(bounds.Dy()),
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		unsafe.Pointer(&img.Pix[0]),
	)
	gl.Flush()
}
