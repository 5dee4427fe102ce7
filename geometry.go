package display

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorBlack is opaque black.
var ColorBlack = Color{0, 0, 0, 1}

// RGBA converts c to an 8-bit straight-alpha color, clamping each component.
func (c Color) RGBA() color.NRGBA {
	return color.NRGBA{R: unit8(c.R), G: unit8(c.G), B: unit8(c.B), A: unit8(c.A)}
}

func unit8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

// Rect is an integer screen rectangle. The origin is the top-left corner of
// the screen with Y increasing downward.
type Rect struct {
	X, Y, Width, Height int
}

// Right returns X + Width.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns Y + Height.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// ClipPlanes are the near and far clipping distances of the projection.
type ClipPlanes struct {
	Near, Far float64
}

// Default clip planes and field of view.
const (
	DefaultAspect = 60.0
	DefaultDepth  = 24
)

var (
	DefaultClip3D = ClipPlanes{Near: 0.5, Far: 800}
	DefaultClip2D = ClipPlanes{Near: -1, Far: 500}
)
