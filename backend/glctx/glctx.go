// Package glctx implements display.GraphicsContext over a GLFW window with a
// legacy OpenGL 2.1 context. Projections are loaded with the fixed-function
// matrix stack, so sprites can draw with immediate-mode GL calls.
//
// GLFW must be driven from the main OS thread. Importing this package locks
// the main goroutine to it; create the context and run the frame loop from
// main.
package glctx

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/phanxgames/display"
	"github.com/phanxgames/display/log"
)

func init() {
	runtime.LockOSThread()
}

var logger = log.New("glctx")

// Context is a GLFW window and its GL context.
type Context struct {
	window *glfw.Window
	bounds display.Rect
	vsync  bool

	// OnClose is called from SwapBuffers when the user asks to close the
	// window. Wire it to Display.Stop.
	OnClose func()

	mu     sync.Mutex
	cursor [2]int
	closed bool
}

// Options configure the window beyond what display.SurfaceOptions carries.
type Options struct {
	VSync bool // sync swaps to the monitor refresh
}

// New initialises GLFW. The window is created by Create.
func New(opts Options) (*Context, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}
	return &Context{vsync: opts.VSync}, nil
}

// MaxSize returns the video mode of the primary monitor.
func (c *Context) MaxSize() (int, int) {
	mon := glfw.GetPrimaryMonitor()
	if mon == nil {
		return 0, 0
	}
	mode := mon.GetVideoMode()
	if mode == nil {
		return 0, 0
	}
	return mode.Width, mode.Height
}

func (c *Context) Create(b display.Rect, opts display.SurfaceOptions) error {
	if c.window != nil {
		return errors.New("glctx: window already created")
	}

	bits := 8
	switch opts.Depth {
	case 16:
		bits = 5
	case 8:
		bits = 3
	}
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.RedBits, bits)
	glfw.WindowHint(glfw.GreenBits, bits)
	glfw.WindowHint(glfw.BlueBits, bits)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Visible, glfw.False)
	if opts.Titled {
		glfw.WindowHint(glfw.Decorated, glfw.True)
	} else {
		glfw.WindowHint(glfw.Decorated, glfw.False)
	}

	window, err := glfw.CreateWindow(b.Width, b.Height, opts.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("could not create opengl window: %w", err)
	}
	window.SetPos(b.X, b.Y)
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		window.Destroy()
		return fmt.Errorf("could not init opengl: %w", err)
	}
	if c.vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Hint(gl.PERSPECTIVE_CORRECTION_HINT, gl.NICEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Viewport(0, 0, int32(b.Width), int32(b.Height))

	window.SetCursorPosCallback(c.onCursorPos)
	window.Show()

	c.window = window
	c.bounds = b
	logger.Debugf("window %dx%d at (%d, %d), %d bits per channel", b.Width, b.Height, b.X, b.Y, bits)
	return nil
}

func (c *Context) Resize(b display.Rect) error {
	if c.window == nil {
		return errors.New("glctx: window not created")
	}
	c.window.SetPos(b.X, b.Y)
	c.window.SetSize(b.Width, b.Height)
	gl.Viewport(0, 0, int32(b.Width), int32(b.Height))
	c.bounds = b
	return nil
}

func (c *Context) SetProjection(p display.Projection) {
	if c.window == nil {
		return
	}
	m := p.Matrix()
	gl.MatrixMode(gl.PROJECTION)
	gl.LoadMatrixf(&m[0])
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadIdentity()
	if p.Is3D {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

// SetBackground sets the clear colour. A translucent background disables
// alpha writes so the window is not composited through.
func (c *Context) SetBackground(col display.Color) {
	if c.window == nil {
		return
	}
	gl.ClearColor(float32(col.R), float32(col.G), float32(col.B), float32(col.A))
	gl.ColorMask(true, true, true, col.A >= 1)
}

func (c *Context) Clear() {
	if c.window == nil {
		return
	}
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SwapBuffers presents the frame and pumps window events.
func (c *Context) SwapBuffers() {
	if c.window == nil {
		return
	}
	c.window.SwapBuffers()
	glfw.PollEvents()
	if c.window.ShouldClose() && c.OnClose != nil {
		c.OnClose()
	}
}

// Position returns the last cursor position inside the window.
func (c *Context) Position() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor[0], c.cursor[1]
}

func (c *Context) onCursorPos(_ *glfw.Window, x, y float64) {
	c.mu.Lock()
	c.cursor = [2]int{int(x), int(y)}
	c.mu.Unlock()
}

// Destroy closes the window and terminates GLFW.
func (c *Context) Destroy() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if c.window != nil {
		c.window.Destroy()
		c.window = nil
	}
	glfw.Terminate()
	return nil
}
