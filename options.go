package display

import "io"

// Config holds the construction parameters of a Display. The zero value
// describes a full-screen 3D display with default clipping, a 60 degree field
// of view, 24-bit colour and a free-running loop.
type Config struct {
	// Is2D selects an orthographic projection instead of a perspective one.
	Is2D bool

	// Bounds is the surface geometry. Nil, or a non-positive width or
	// height, fills the screen minus a margin of X (or Y) on each side.
	Bounds *Rect

	// Clip overrides the near and far planes. Nil uses DefaultClip3D or
	// DefaultClip2D.
	Clip *ClipPlanes

	// Aspect is the vertical field of view in degrees (3D only).
	Aspect float64

	// Depth is the colour depth in bits: 8, 16 or 24.
	Depth int

	// Background is the clear colour. Nil leaves the context default.
	Background *Color

	// Title and Titled configure the window decoration when the context
	// creates a window.
	Title  string
	Titled bool

	// FPS caps the frame rate. Zero or negative runs free.
	FPS float64

	// FaultPolicy overrides the process-wide sprite fault policy.
	FaultPolicy FaultPolicy

	// Window is released on Destroy after the graphics context.
	Window io.Closer

	// Pointer backs MousePosition. It is closed on Destroy if it
	// implements io.Closer.
	Pointer Pointer

	// Debug logs per-frame timings at debug level.
	Debug bool
}

func (c Config) clip() ClipPlanes {
	if c.Clip != nil {
		return *c.Clip
	}
	if c.Is2D {
		return DefaultClip2D
	}
	return DefaultClip3D
}

func (c Config) aspect() float64 {
	if c.Aspect <= 0 {
		return DefaultAspect
	}
	return c.Aspect
}

func (c Config) depth() (int, error) {
	switch c.Depth {
	case 0:
		return DefaultDepth, nil
	case 8, 16, 24:
		return c.Depth, nil
	default:
		return 0, ErrInvalidDepth
	}
}

// resolveBounds applies the screen-filling defaults for non-positive sizes.
func resolveBounds(b *Rect, maxW, maxH int) Rect {
	var r Rect
	if b != nil {
		r = *b
	}
	if r.Width <= 0 {
		r.Width = maxW - 2*r.X
		if r.Width <= 0 {
			r.Width = maxW
		}
	}
	if r.Height <= 0 {
		r.Height = maxH - 2*r.Y
		if r.Height <= 0 {
			r.Height = maxH
		}
	}
	return r
}
