package ebitenctx

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/display"
)

// Game adapts a Display to ebiten.Game. Every Update advances the display by
// one frame; Draw presents the last swapped frame.
//
// The display should be created with FPS 0 so that Ebitengine's tick rate is
// the only pacing.
type Game struct {
	d *display.Display
	c *Context
}

// NewGame returns a game that drives d, whose context must be c.
func NewGame(d *display.Display, c *Context) *Game {
	return &Game{d: d, c: c}
}

// Update advances the display. It returns ebiten.Termination once the display
// has stopped, and the sprite fault if one propagated.
func (g *Game) Update() error {
	ok, err := g.d.Advance()
	if err != nil {
		return err
	}
	if !ok {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.c.draw(screen)
}

func (g *Game) Layout(_, _ int) (int, int) {
	b := g.c.Bounds()
	return b.Width, b.Height
}

// Run runs d under Ebitengine at tps ticks per second until the display stops
// or the window is closed, then destroys the display. A non-positive tps
// syncs ticks with the refresh rate.
func Run(d *display.Display, c *Context, tps int) error {
	if tps > 0 {
		ebiten.SetTPS(tps)
	} else {
		ebiten.SetTPS(ebiten.SyncWithFPS)
	}
	defer d.Destroy()
	return ebiten.RunGame(NewGame(d, c))
}
