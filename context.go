package display

import (
	"errors"
	"sync"
)

// GraphicsContext owns the native rendering surface. All methods are called
// from the render goroutine.
type GraphicsContext interface {
	// MaxSize returns the largest surface the platform can provide, usually
	// the screen size. Non-positive requested dimensions resolve against it.
	MaxSize() (width, height int)

	// Create allocates the surface. It is called once per context.
	Create(bounds Rect, opts SurfaceOptions) error

	// Resize re-applies geometry to an existing surface. Redundant calls
	// must be safe.
	Resize(bounds Rect) error

	// SetProjection loads the projection matrix for subsequent drawing.
	SetProjection(p Projection)

	// SetBackground sets the colour used by Clear.
	SetBackground(c Color)

	// Clear clears the back buffer.
	Clear()

	// SwapBuffers presents the completed frame. It may block on vertical sync.
	SwapBuffers()

	// Destroy releases the surface. Calling it twice, or before Create, is a
	// no-op.
	Destroy() error
}

// SurfaceOptions carries the creation parameters that do not affect geometry.
type SurfaceOptions struct {
	Depth  int // colour depth in bits: 8, 16 or 24
	Is3D   bool
	Title  string
	Titled bool // decorated window with a title bar
}

// Pointer reports the current pointer position in surface coordinates.
type Pointer interface {
	Position() (x, y int)
}

// errNotCreated is returned by HeadlessContext.Resize before Create.
var errNotCreated = errors.New("display: surface not created")

// HeadlessContext is a GraphicsContext without a native surface. It keeps
// the frame loop, pacing and sprite lifecycle fully functional for
// simulations, servers and tests; sprites that need pixels should use one of
// the backend packages instead.
type HeadlessContext struct {
	mu         sync.Mutex
	maxW, maxH int
	bounds     Rect
	projection Projection
	background Color
	created    bool
	frames     uint64
}

// NewHeadless returns a headless context whose screen is maxW x maxH.
func NewHeadless(maxW, maxH int) *HeadlessContext {
	return &HeadlessContext{maxW: maxW, maxH: maxH}
}

func (c *HeadlessContext) MaxSize() (int, int) { return c.maxW, c.maxH }

func (c *HeadlessContext) Create(bounds Rect, _ SurfaceOptions) error {
	if bounds.Empty() {
		return errors.New("display: empty surface")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bounds = bounds
	c.created = true
	return nil
}

func (c *HeadlessContext) Resize(bounds Rect) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.created {
		return errNotCreated
	}
	c.bounds = bounds
	return nil
}

func (c *HeadlessContext) SetProjection(p Projection) {
	c.mu.Lock()
	c.projection = p
	c.mu.Unlock()
}

func (c *HeadlessContext) SetBackground(col Color) {
	c.mu.Lock()
	c.background = col
	c.mu.Unlock()
}

func (c *HeadlessContext) Clear() {}

func (c *HeadlessContext) SwapBuffers() {
	c.mu.Lock()
	c.frames++
	c.mu.Unlock()
}

func (c *HeadlessContext) Destroy() error {
	c.mu.Lock()
	c.created = false
	c.mu.Unlock()
	return nil
}

// Bounds returns the current surface geometry.
func (c *HeadlessContext) Bounds() Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bounds
}

// Projection returns the last projection set.
func (c *HeadlessContext) Projection() Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

// Frames returns the number of presented frames.
func (c *HeadlessContext) Frames() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}
