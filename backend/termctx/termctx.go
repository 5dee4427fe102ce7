// Package termctx implements display.GraphicsContext over a tcell terminal
// screen. Each cell is one pixel of the surface; the surface is a rectangle
// of the terminal whose origin is the bounds' top-left cell.
package termctx

import (
	"errors"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/display"
	"github.com/phanxgames/display/log"
)

var logger = log.New("termctx")

// Context draws on a tcell screen.
type Context struct {
	screen tcell.Screen

	// OnClose is called from the event goroutine when Esc or Ctrl-C is
	// pressed. Wire it to Display.Stop.
	OnClose func()

	mu      sync.Mutex
	bounds  display.Rect
	bg      tcell.Style
	mouse   [2]int
	created bool

	fini sync.Once
	done chan struct{}
}

// New initialises screen, or the terminal when screen is nil.
func New(screen tcell.Screen) (*Context, error) {
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		screen = s
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return &Context{
		screen: screen,
		bg:     tcell.StyleDefault.Background(tcell.ColorBlack),
		mouse:  [2]int{-1, -1},
		done:   make(chan struct{}),
	}, nil
}

// Bounds returns the surface rectangle in terminal cells.
func (c *Context) Bounds() display.Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bounds
}

// Screen returns the underlying tcell screen.
func (c *Context) Screen() tcell.Screen { return c.screen }

// MaxSize returns the terminal size in cells.
func (c *Context) MaxSize() (int, int) {
	return c.screen.Size()
}

func (c *Context) Create(b display.Rect, opts display.SurfaceOptions) error {
	if b.Empty() {
		return errors.New("termctx: empty surface")
	}
	c.mu.Lock()
	if c.created {
		c.mu.Unlock()
		return errors.New("termctx: surface already created")
	}
	c.created = true
	c.bounds = b
	c.mu.Unlock()

	if opts.Titled {
		c.screen.SetTitle(opts.Title)
	}
	c.screen.EnableMouse()
	c.screen.HideCursor()
	c.screen.Clear()
	go c.events()

	logger.Debugf("surface %dx%d cells at (%d, %d)", b.Width, b.Height, b.X, b.Y)
	return nil
}

func (c *Context) Resize(b display.Rect) error {
	if b.Empty() {
		return errors.New("termctx: empty surface")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.created {
		return errors.New("termctx: surface not created")
	}
	c.bounds = b
	c.screen.Clear()
	return nil
}

// SetProjection is a no-op: cells are addressed directly.
func (c *Context) SetProjection(display.Projection) {}

func (c *Context) SetBackground(col display.Color) {
	c.mu.Lock()
	c.bg = tcell.StyleDefault.Background(tcellColor(col))
	c.mu.Unlock()
}

// Clear fills the surface with the background colour.
func (c *Context) Clear() {
	c.mu.Lock()
	b, style := c.bounds, c.bg
	c.mu.Unlock()
	for y := b.Y; y < b.Bottom(); y++ {
		for x := b.X; x < b.Right(); x++ {
			c.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// SwapBuffers shows the cells set since the last frame.
func (c *Context) SwapBuffers() {
	c.screen.Show()
}

// Set draws r at surface cell (x, y). Cells outside the surface are ignored.
func (c *Context) Set(x, y int, r rune, fg, bg display.Color) {
	c.SetStyled(x, y, r, tcell.StyleDefault.Foreground(tcellColor(fg)).Background(tcellColor(bg)))
}

// SetStyled draws r at surface cell (x, y) with a tcell style.
func (c *Context) SetStyled(x, y int, r rune, style tcell.Style) {
	c.mu.Lock()
	b := c.bounds
	c.mu.Unlock()
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	c.screen.SetContent(b.X+x, b.Y+y, r, nil, style)
}

// Position returns the last mouse cell relative to the surface, or (-1, -1)
// before the first mouse event.
func (c *Context) Position() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mouse[0] < 0 {
		return -1, -1
	}
	return c.mouse[0] - c.bounds.X, c.mouse[1] - c.bounds.Y
}

func (c *Context) events() {
	defer close(c.done)
	for {
		ev := c.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventMouse:
			x, y := ev.Position()
			c.mu.Lock()
			c.mouse = [2]int{x, y}
			c.mu.Unlock()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				if c.OnClose != nil {
					c.OnClose()
				}
			}
		case *tcell.EventResize:
			c.screen.Sync()
		}
	}
}

// Destroy restores the terminal. Calling it again is a no-op.
func (c *Context) Destroy() error {
	c.fini.Do(func() {
		c.screen.Fini()
		c.mu.Lock()
		created := c.created
		c.mu.Unlock()
		if created {
			<-c.done
		}
	})
	return nil
}

func tcellColor(col display.Color) tcell.Color {
	rgba := col.RGBA()
	return tcell.NewRGBColor(int32(rgba.R), int32(rgba.G), int32(rgba.B))
}
