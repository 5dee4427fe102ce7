package display

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/phanxgames/display/log"
)

// Version is reported in the startup notice.
const Version = "2.7"

// LoopMode records which entry point drives a Display.
type LoopMode uint8

const (
	LoopNone     LoopMode = iota // not started
	LoopExternal                 // the caller polls Advance
	LoopInternal                 // Run owns the loop
)

func (m LoopMode) String() string {
	switch m {
	case LoopExternal:
		return "external"
	case LoopInternal:
		return "internal"
	default:
		return "none"
	}
}

// State is the lifecycle state of a Display.
type State uint8

const (
	StateStopped   State = iota // constructed, loop not started
	StateRunning                // a loop entry point has started
	StateDestroyed              // terminal
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateDestroyed:
		return "destroyed"
	default:
		return "stopped"
	}
}

// Display is the central control object: it owns the graphics context, runs
// the frame loop and schedules sprite hooks.
//
// Advance, Run, Resize, SetBackground, Clear and Destroy must be called from
// the render goroutine. AddSprites, RemoveSprites, Stop, Stats and the
// geometry accessors are safe from any goroutine.
type Display struct {
	id  string
	tag string
	log log.Logger

	ctx     GraphicsContext
	window  io.Closer
	pointer Pointer

	geomMu     sync.Mutex
	bounds     Rect
	clip       ClipPlanes
	aspect     float64
	is3D       bool
	background Color

	maxW, maxH int

	sprites *spriteRegistry
	pacer   *framePacer
	policy  FaultPolicy
	debug   bool
	stats   frameStats

	running   atomic.Bool
	destroyed atomic.Bool

	// render goroutine only
	mode      LoopMode
	frameOpen bool
}

var logger = log.New("display")

// New creates a Display on ctx and makes it the current display. If the
// surface cannot be created New returns a *ContextCreationError and the
// caller keeps ownership of cfg.Window and cfg.Pointer.
func New(ctx GraphicsContext, cfg Config) (*Display, error) {
	if ctx == nil {
		return nil, errors.New("display: nil graphics context")
	}
	depth, err := cfg.depth()
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	d := &Display{
		id:      id,
		tag:     id[:8],
		log:     logger,
		ctx:     ctx,
		window:  cfg.Window,
		pointer: cfg.Pointer,
		clip:    cfg.clip(),
		aspect:  cfg.aspect(),
		is3D:    !cfg.Is2D,
		sprites: newSpriteRegistry(),
		pacer:   newFramePacer(cfg.FPS),
		policy:  cfg.FaultPolicy,
		debug:   cfg.Debug,
	}
	d.running.Store(true)

	d.maxW, d.maxH = ctx.MaxSize()
	d.bounds = resolveBounds(cfg.Bounds, d.maxW, d.maxH)
	d.log.Debugf("[%s] display size is w=%d, h=%d", d.tag, d.bounds.Width, d.bounds.Height)

	opts := SurfaceOptions{Depth: depth, Is3D: d.is3D, Title: cfg.Title, Titled: cfg.Titled}
	if err := ctx.Create(d.bounds, opts); err != nil {
		d.destroyed.Store(true)
		return nil, &ContextCreationError{Bounds: d.bounds, Err: err}
	}

	if prev := register(d); prev != nil {
		if allowMultiple.Load() {
			d.log.Infof("[%s] created while display %s is live", d.tag, prev.tag)
		} else {
			d.log.Warningf("[%s] a second display was created while %s is live", d.tag, prev.tag)
		}
	}

	ctx.SetProjection(d.Projection())
	if cfg.Background != nil {
		d.SetBackground(*cfg.Background)
	}

	mode := "3D"
	if !d.is3D {
		mode = "2D"
	}
	d.log.Noticef("[%s] display %s %dx%d at (%d, %d), fps=%g, version %s",
		d.tag, mode, d.bounds.Width, d.bounds.Height, d.bounds.X, d.bounds.Y, cfg.FPS, Version)
	return d, nil
}

// ID returns the display's unique instance id.
func (d *Display) ID() string { return d.id }

// Context returns the graphics context owned by the display.
func (d *Display) Context() GraphicsContext { return d.ctx }

// Bounds returns the current surface geometry.
func (d *Display) Bounds() Rect {
	d.geomMu.Lock()
	defer d.geomMu.Unlock()
	return d.bounds
}

// MaxSize returns the screen size reported by the context at construction.
func (d *Display) MaxSize() (int, int) { return d.maxW, d.maxH }

// Clip returns the near and far planes.
func (d *Display) Clip() ClipPlanes { return d.clip }

// Projection returns the projection for the current geometry.
func (d *Display) Projection() Projection {
	b := d.Bounds()
	return Projection{
		Is3D:   d.is3D,
		Near:   d.clip.Near,
		Far:    d.clip.Far,
		Aspect: d.aspect,
		Width:  b.Width,
		Height: b.Height,
	}
}

// Mode returns the loop mode. Render goroutine only.
func (d *Display) Mode() LoopMode { return d.mode }

// State returns the lifecycle state. Render goroutine only.
func (d *Display) State() State {
	switch {
	case d.destroyed.Load():
		return StateDestroyed
	case d.mode == LoopNone:
		return StateStopped
	default:
		return StateRunning
	}
}

// Running reports whether the loop has not been asked to stop.
func (d *Display) Running() bool { return d.running.Load() }

// AddSprites queues sprites to join the frame loop. They are loaded at the
// next begin-phase and never appear in a frame that is already in progress.
func (d *Display) AddSprites(sprites ...Sprite) {
	d.sprites.addSprites(sprites...)
}

// RemoveSprites queues sprites to leave the frame loop. A removed sprite is
// repainted once more in the next end-phase, then unloaded.
func (d *Display) RemoveSprites(sprites ...Sprite) {
	d.sprites.removeSprites(sprites...)
}

// Sprites returns a copy of the active draw sequence. Render goroutine only.
func (d *Display) Sprites() []Sprite { return d.sprites.snapshot() }

// Resize moves and resizes the surface and re-applies the projection.
// Non-positive w or h keep the current width or height. Context failures are
// logged, not returned, so a resize never aborts a running loop.
func (d *Display) Resize(x, y, w, h int) {
	if d.destroyed.Load() {
		return
	}
	d.geomMu.Lock()
	if w <= 0 {
		w = d.bounds.Width
	}
	if h <= 0 {
		h = d.bounds.Height
	}
	d.bounds = Rect{X: x, Y: y, Width: w, Height: h}
	b := d.bounds
	d.geomMu.Unlock()

	if err := d.ctx.Resize(b); err != nil {
		d.log.Warningf("[%s] resize to %dx%d at (%d, %d): %v", d.tag, b.Width, b.Height, b.X, b.Y, err)
		return
	}
	d.ctx.SetProjection(d.Projection())
}

// SetBackground sets the clear colour.
func (d *Display) SetBackground(c Color) {
	d.geomMu.Lock()
	d.background = c
	d.geomMu.Unlock()
	d.ctx.SetBackground(c)
}

// Background returns the clear colour.
func (d *Display) Background() Color {
	d.geomMu.Lock()
	defer d.geomMu.Unlock()
	return d.background
}

// Clear clears the back buffer.
func (d *Display) Clear() {
	d.ctx.Clear()
}

// Stop asks the loop to finish. It does not interrupt a frame in progress;
// the next Advance, or the next iteration of Run, flushes and destroys.
func (d *Display) Stop() {
	d.running.Store(false)
}

// MousePosition returns the pointer position, or (-1, -1) without a pointer.
//
// Deprecated: read input from the windowing layer instead.
func (d *Display) MousePosition() (x, y int) {
	if d.pointer != nil {
		return d.pointer.Position()
	}
	if p, ok := d.ctx.(Pointer); ok {
		return p.Position()
	}
	return -1, -1
}

// Destroy stops the loop, unloads any remaining sprites and releases the
// graphics context, the pointer and the window. Every release is attempted
// even if an earlier one fails; failures are logged. Calling Destroy again is
// a no-op.
func (d *Display) Destroy() {
	if !d.destroyed.CompareAndSwap(false, true) {
		return
	}
	d.Stop()

	var errs []error
	for _, sp := range d.sprites.drain() {
		if f := callHook(hookUnload, sp, sp.Unload); f != nil {
			errs = append(errs, f)
		}
	}
	if err := release("graphics context", d.ctx.Destroy); err != nil {
		errs = append(errs, err)
	}
	if c, ok := d.pointer.(io.Closer); ok {
		if err := release("pointer", c.Close); err != nil {
			errs = append(errs, err)
		}
	}
	if d.window != nil {
		if err := release("window", d.window.Close); err != nil {
			errs = append(errs, err)
		}
	}
	unregister(d)

	for _, err := range errs {
		d.log.Errorf("[%s] teardown: %v", d.tag, err)
	}
	d.log.Infof("[%s] display destroyed", d.tag)
}

// release runs one teardown step, converting a panic into an error.
func release(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("release %s: panic: %v", name, r)
		}
	}()
	if err := fn(); err != nil {
		return fmt.Errorf("release %s: %w", name, err)
	}
	return nil
}
