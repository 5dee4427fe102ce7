// Package ebitenctx implements display.GraphicsContext over Ebitengine.
//
// Sprites draw on Back, an offscreen image the size of the surface. Clear
// fills it with the background colour and SwapBuffers copies it to the front
// image that Game.Draw presents, so a frame is only shown once every sprite
// has repainted. Ebitengine owns the main loop: see Run and Game.
package ebitenctx

import (
	"errors"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/display"
	"github.com/phanxgames/display/log"
)

var logger = log.New("ebitenctx")

var errNotCreated = errors.New("ebitenctx: surface not created")

// Options configure a Context.
type Options struct {
	// ScreenWidth and ScreenHeight override the monitor size used to resolve
	// full-screen bounds.
	ScreenWidth, ScreenHeight int

	// Window applies the surface geometry, title and decoration to the
	// Ebitengine window.
	Window bool

	// ScreenshotDir is where Screenshot writes PNG files.
	// Defaults to "screenshots".
	ScreenshotDir string
}

// Context is a pair of offscreen Ebitengine images.
type Context struct {
	opts Options

	mu         sync.Mutex
	back       *ebiten.Image
	front      *ebiten.Image
	bounds     display.Rect
	projection display.Projection
	background color.NRGBA
	shots      []string
}

// New returns a context. The images are allocated by Create.
func New(opts Options) *Context {
	if opts.ScreenshotDir == "" {
		opts.ScreenshotDir = "screenshots"
	}
	return &Context{opts: opts, background: color.NRGBA{A: 255}}
}

func (c *Context) MaxSize() (int, int) {
	if c.opts.ScreenWidth > 0 && c.opts.ScreenHeight > 0 {
		return c.opts.ScreenWidth, c.opts.ScreenHeight
	}
	if m := ebiten.Monitor(); m != nil {
		return m.Size()
	}
	return 0, 0
}

func (c *Context) Create(b display.Rect, opts display.SurfaceOptions) error {
	if b.Empty() {
		return errors.New("ebitenctx: empty surface")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.back != nil {
		return errors.New("ebitenctx: surface already created")
	}
	c.allocate(b)
	if c.opts.Window {
		ebiten.SetWindowTitle(opts.Title)
		ebiten.SetWindowDecorated(opts.Titled)
		ebiten.SetWindowSize(b.Width, b.Height)
		ebiten.SetWindowPosition(b.X, b.Y)
	}
	logger.Debugf("surface %dx%d at (%d, %d)", b.Width, b.Height, b.X, b.Y)
	return nil
}

// allocate replaces the images with ones of the new size. mu must be held.
func (c *Context) allocate(b display.Rect) {
	if c.back != nil {
		c.back.Dispose()
		c.front.Dispose()
	}
	c.back = ebiten.NewImage(b.Width, b.Height)
	c.front = ebiten.NewImage(b.Width, b.Height)
	c.bounds = b
}

func (c *Context) Resize(b display.Rect) error {
	if b.Empty() {
		return errors.New("ebitenctx: empty surface")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.back == nil {
		return errNotCreated
	}
	if b.Width != c.bounds.Width || b.Height != c.bounds.Height {
		c.allocate(b)
	}
	c.bounds = b
	if c.opts.Window {
		ebiten.SetWindowSize(b.Width, b.Height)
		ebiten.SetWindowPosition(b.X, b.Y)
	}
	return nil
}

func (c *Context) SetProjection(p display.Projection) {
	c.mu.Lock()
	c.projection = p
	c.mu.Unlock()
}

func (c *Context) SetBackground(col display.Color) {
	c.mu.Lock()
	c.background = col.RGBA()
	c.mu.Unlock()
}

func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.back != nil {
		c.back.Fill(c.background)
	}
}

// SwapBuffers copies the back image to the front image.
func (c *Context) SwapBuffers() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.back == nil {
		return
	}
	c.front.Clear()
	c.front.DrawImage(c.back, nil)
}

func (c *Context) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.back != nil {
		c.back.Dispose()
		c.front.Dispose()
		c.back, c.front = nil, nil
	}
	c.shots = nil
	return nil
}

// Back returns the image sprites draw on, or nil before Create.
func (c *Context) Back() *ebiten.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.back
}

// Bounds returns the surface geometry.
func (c *Context) Bounds() display.Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bounds
}

// Projection returns the last projection set by the display.
func (c *Context) Projection() display.Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

// Position returns the cursor position reported by Ebitengine.
func (c *Context) Position() (int, int) {
	return ebiten.CursorPosition()
}

// draw presents the front image on screen and writes queued screenshots.
func (c *Context) draw(screen *ebiten.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.front == nil {
		return
	}
	screen.DrawImage(c.front, nil)
	c.flushScreenshots(screen)
}
