package display

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Projection describes the projection matrix applied to a surface: a
// perspective frustum for 3D displays or an orthographic box for 2D ones.
type Projection struct {
	Is3D   bool
	Near   float64
	Far    float64
	Aspect float64 // vertical field of view in degrees, 3D only
	Width  int
	Height int
}

// Matrix returns the column-major projection matrix.
//
// The 3D frustum has a half height of near*tan(aspect/2) and a half width
// scaled by the surface's width/height ratio. The 2D box maps (0, 0) to the
// bottom-left corner and (Width, Height) to the top-right one.
func (p Projection) Matrix() mgl32.Mat4 {
	near, far := float32(p.Near), float32(p.Far)
	w, h := float32(p.Width), float32(p.Height)
	if !p.Is3D {
		return mgl32.Ortho(0, w, 0, h, near, far)
	}
	if h <= 0 {
		h = 1
	}
	hht := near * float32(math.Tan(float64(mgl32.DegToRad(float32(p.Aspect)/2))))
	hwd := hht * w / h
	return mgl32.Frustum(-hwd, hwd, -hht, hht, near, far)
}
