package cli

import (
	"image/color"
	"time"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/display"
	"github.com/phanxgames/display/backend/ebitenctx"
	"github.com/phanxgames/display/backend/termctx"
)

// painter draws a square at (x, y), both in [0, 1] of the surface.
type painter func(x, y float64, c display.Color)

func nopPainter(float64, float64, display.Color) {}

func termPainter(c *termctx.Context) painter {
	return func(x, y float64, col display.Color) {
		b := c.Bounds()
		c.Set(int(x*float64(b.Width-1)), int(y*float64(b.Height-1)), '●', col, display.ColorBlack)
	}
}

func ebitenPainter(c *ebitenctx.Context) painter {
	const size = 16
	var square *ebiten.Image
	return func(x, y float64, col display.Color) {
		back := c.Back()
		if back == nil {
			return
		}
		if square == nil {
			square = ebiten.NewImage(size, size)
			square.Fill(color.White)
		}
		b := back.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(x*float64(b.Dx()-size), y*float64(b.Dy()-size))
		op.ColorScale.ScaleWithColor(col.RGBA())
		back.DrawImage(square, op)
	}
}

// glPainter draws with the fixed-function pipeline. 2D surfaces use the
// ortho box in pixels; 3D ones draw on a plane in front of the camera.
func glPainter(is2D bool) painter {
	return func(x, y float64, col display.Color) {
		gl.Color4f(float32(col.R), float32(col.G), float32(col.B), float32(col.A))
		gl.Begin(gl.QUADS)
		if is2D {
			var vp [4]int32
			gl.GetIntegerv(gl.VIEWPORT, &vp[0])
			px, py := float32(x)*float32(vp[2]-16), float32(y)*float32(vp[3]-16)
			gl.Vertex2f(px, py)
			gl.Vertex2f(px+16, py)
			gl.Vertex2f(px+16, py+16)
			gl.Vertex2f(px, py+16)
		} else {
			px, py := float32(x)*8-4, float32(y)*6-3
			gl.Vertex3f(px, py, -10)
			gl.Vertex3f(px+0.3, py, -10)
			gl.Vertex3f(px+0.3, py+0.3, -10)
			gl.Vertex3f(px, py+0.3, -10)
		}
		gl.End()
	}
}

// ball bounces horizontally across the surface.
type ball struct {
	x, y    float64
	color   display.Color
	period  time.Duration
	paint   painter
	tween   *display.TweenGroup
	forward bool
}

var palette = []display.Color{
	{R: 0.9, G: 0.3, B: 0.3, A: 1},
	{R: 0.3, G: 0.9, B: 0.4, A: 1},
	{R: 0.3, G: 0.5, B: 1, A: 1},
	{R: 1, G: 0.8, B: 0.2, A: 1},
}

func newBall(i, n int, paint painter) *ball {
	return &ball{
		y:      (float64(i) + 0.5) / float64(max(n, 1)),
		color:  palette[i%len(palette)],
		period: time.Duration(800+300*i) * time.Millisecond,
		paint:  paint,
	}
}

func (b *ball) turn() {
	to := 1.0
	if b.forward {
		to = 0
	}
	b.forward = !b.forward
	b.tween = display.NewTween(&b.x, to, b.period, ease.InOutQuad)
}

func (b *ball) Load() error {
	b.turn()
	return b.tween.Load()
}

func (b *ball) Repaint(now time.Time) error {
	if err := b.tween.Repaint(now); err != nil {
		return err
	}
	if b.tween.Done() {
		b.turn()
		_ = b.tween.Repaint(now)
	}
	b.paint(b.x, b.y, b.color)
	return nil
}

func (b *ball) Unload() error { return nil }
