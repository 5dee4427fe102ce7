package display

import (
	"sync"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup is a Sprite that animates up to 4 float64 fields together. Add
// it to a Display and every Repaint advances the tweens by the wall time
// since the previous frame and writes the values back. The first Repaint after
// Load only records the clock.
//
// When every tween has finished, OnDone runs once on the render goroutine.
type TweenGroup struct {
	mu     sync.Mutex
	tweens [4]*gween.Tween
	fields [4]*float64
	count  int
	last   time.Time
	done   bool

	// OnDone is called once, after the repaint that finished the animation.
	OnDone func()
}

// NewTween animates *field from its current value to `to`.
func NewTween(field *float64, to float64, duration time.Duration, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(field, to, duration, fn)
	return g
}

// TweenColor animates all four components of *c to the target colour.
func TweenColor(c *Color, to Color, duration time.Duration, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&c.R, to.R, duration, fn)
	g.add(&c.G, to.G, duration, fn)
	g.add(&c.B, to.B, duration, fn)
	g.add(&c.A, to.A, duration, fn)
	return g
}

// TweenPoint animates *x and *y to the target coordinates.
func TweenPoint(x, y *float64, toX, toY float64, duration time.Duration, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(x, toX, duration, fn)
	g.add(y, toY, duration, fn)
	return g
}

func (g *TweenGroup) add(field *float64, to float64, duration time.Duration, fn ease.TweenFunc) {
	if fn == nil {
		fn = ease.Linear
	}
	g.tweens[g.count] = gween.New(float32(*field), float32(to), float32(duration.Seconds()), fn)
	g.fields[g.count] = field
	g.count++
}

// Done reports whether every tween has reached its end value.
func (g *TweenGroup) Done() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.done
}

// Load rewinds the animation so a group can be added again after removal.
func (g *TweenGroup) Load() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := 0; i < g.count; i++ {
		g.tweens[i].Reset()
	}
	g.last = time.Time{}
	g.done = false
	return nil
}

// Repaint advances the tweens to now.
func (g *TweenGroup) Repaint(now time.Time) error {
	g.mu.Lock()
	if g.done {
		g.mu.Unlock()
		return nil
	}
	if g.last.IsZero() {
		g.last = now
		g.mu.Unlock()
		return nil
	}
	dt := float32(now.Sub(g.last).Seconds())
	g.last = now

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.done = allDone
	onDone := g.OnDone
	g.mu.Unlock()

	if allDone && onDone != nil {
		onDone()
	}
	return nil
}

// Unload is a no-op; the animated fields keep their last values.
func (g *TweenGroup) Unload() error { return nil }
