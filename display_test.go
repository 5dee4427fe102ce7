package display

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/display/log"
)

func advance(t *testing.T, d *Display) {
	t.Helper()
	ok, err := d.Advance()
	require.NoError(t, err)
	require.True(t, ok)
}

// --- Construction ---

func TestNewDefaults(t *testing.T) {
	d, ctx, _ := newTestDisplay(t, Config{})

	assert.Equal(t, Rect{Width: 1920, Height: 1080}, d.Bounds())
	assert.Equal(t, DefaultClip3D, d.Clip())
	assert.Equal(t, StateStopped, d.State())
	assert.Equal(t, LoopNone, d.Mode())
	assert.Len(t, d.ID(), 36)

	p := ctx.Projection()
	assert.True(t, p.Is3D)
	assert.Equal(t, DefaultAspect, p.Aspect)
	assert.Equal(t, 1920, p.Width)
}

func TestNew2DUsesOrthographicClip(t *testing.T) {
	d, ctx, _ := newTestDisplay(t, Config{Is2D: true})

	assert.Equal(t, DefaultClip2D, d.Clip())
	assert.False(t, ctx.Projection().Is3D)
}

func TestNewBoundsMargins(t *testing.T) {
	tests := []struct {
		name string
		in   *Rect
		want Rect
	}{
		{"nil fills screen", nil, Rect{Width: 1920, Height: 1080}},
		{"margin", &Rect{X: 10, Y: 20}, Rect{X: 10, Y: 20, Width: 1900, Height: 1040}},
		{"explicit", &Rect{X: 5, Y: 5, Width: 640, Height: 480}, Rect{X: 5, Y: 5, Width: 640, Height: 480}},
		{"margin too large", &Rect{X: 2000, Y: 600, Width: 0, Height: 0}, Rect{X: 2000, Y: 600, Width: 1920, Height: 1080}},
		{"only width", &Rect{Width: 320}, Rect{Width: 320, Height: 1080}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ctx, _ := newTestDisplay(t, Config{Bounds: tt.in})
			assert.Equal(t, tt.want, d.Bounds())
			assert.Equal(t, tt.want, ctx.Bounds())
		})
	}
}

func TestNewInvalidDepth(t *testing.T) {
	rec := &recorder{}
	_, err := New(newFakeContext(rec), Config{Depth: 32})
	assert.ErrorIs(t, err, ErrInvalidDepth)
	assert.Empty(t, rec.list(), "context must not be touched")
}

func TestNewContextCreationError(t *testing.T) {
	rec := &recorder{}
	ctx := newFakeContext(rec)
	ctx.createErr = errBoom
	window := &closer{name: "window", rec: rec}

	d, err := New(ctx, Config{Window: window})
	require.Error(t, err)
	assert.Nil(t, d)

	var cce *ContextCreationError
	require.True(t, errors.As(err, &cce))
	assert.Equal(t, Rect{Width: 1920, Height: 1080}, cce.Bounds)
	assert.ErrorIs(t, err, errBoom)

	assert.Equal(t, 0, rec.count("window-close"), "caller keeps the window")
	_, ok := Current()
	assert.False(t, ok)
}

func TestNewFailureKeepsCurrentDisplay(t *testing.T) {
	buf := captureLog(t)
	first, _, _ := newTestDisplay(t, Config{})

	rec := &recorder{}
	ctx := newFakeContext(rec)
	ctx.createErr = errBoom
	_, err := New(ctx, Config{})
	require.Error(t, err)

	cur, ok := Current()
	require.True(t, ok)
	assert.Same(t, first, cur)
	assert.NotContains(t, buf.String(), "a second display")
}

func TestNewBackground(t *testing.T) {
	bg := Color{R: 0.2, G: 0.4, B: 0.6, A: 1}
	d, ctx, _ := newTestDisplay(t, Config{Background: &bg})

	assert.Equal(t, bg, d.Background())
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	assert.Equal(t, bg, ctx.background)
}

// --- Current display ---

func TestSecondDisplayWarns(t *testing.T) {
	buf := captureLog(t)

	first, _, _ := newTestDisplay(t, Config{})
	second, _, _ := newTestDisplay(t, Config{})

	assert.Contains(t, buf.String(), "WARNING")
	assert.Contains(t, buf.String(), "a second display was created")

	cur, ok := Current()
	require.True(t, ok)
	assert.Same(t, second, cur)

	first.Destroy()
	cur, ok = Current()
	require.True(t, ok)
	assert.Same(t, second, cur, "destroying a non-current display keeps current")

	second.Destroy()
	_, ok = Current()
	assert.False(t, ok)
}

func TestAllowMultipleDisplaysLogsInfo(t *testing.T) {
	buf := captureLog(t)
	log.SetLevel(log.Info)
	AllowMultipleDisplays(true)
	t.Cleanup(func() {
		AllowMultipleDisplays(false)
		log.SetLevel(log.Notice)
	})

	newTestDisplay(t, Config{})
	newTestDisplay(t, Config{})

	assert.NotContains(t, buf.String(), "WARNING")
	assert.Contains(t, buf.String(), "created while display")
}

// --- Frame lifecycle ---

func TestLoadBeforeFirstRepaint(t *testing.T) {
	d, _, rec := newTestDisplay(t, Config{})
	a := newRecSprite("a", rec)

	d.AddSprites(a)
	advance(t, d)
	assert.Equal(t, []string{"clear", "a:load"}, rec.list())
	assert.Equal(t, 0, a.repaintCount())

	advance(t, d)
	assert.Equal(t, []string{"clear", "a:load", "a:repaint", "swap", "clear"}, rec.list())
	assert.Equal(t, StateRunning, d.State())
	assert.Equal(t, LoopExternal, d.Mode())
}

func TestAddDuringFrameJoinsNextFrame(t *testing.T) {
	d, _, rec := newTestDisplay(t, Config{})
	advance(t, d)

	b := newRecSprite("b", rec)
	d.AddSprites(b)
	rec.reset()

	advance(t, d)
	assert.Equal(t, []string{"swap", "clear", "b:load"}, rec.list())

	rec.reset()
	advance(t, d)
	assert.Equal(t, []string{"b:repaint", "swap", "clear"}, rec.list())
}

func TestAddSpritesIsIdempotent(t *testing.T) {
	d, _, rec := newTestDisplay(t, Config{})
	a := newRecSprite("a", rec)

	d.AddSprites(a, a)
	d.AddSprites(a)
	advance(t, d)
	d.AddSprites(a)
	advance(t, d)
	advance(t, d)

	assert.Equal(t, 1, rec.count("a:load"))
	assert.Equal(t, 2, rec.count("a:repaint"))
	assert.Equal(t, []Sprite{a}, d.Sprites())
}

func TestRemovedSpriteGetsFinalRepaintThenUnload(t *testing.T) {
	d, _, rec := newTestDisplay(t, Config{})
	a := newRecSprite("a", rec)
	b := newRecSprite("b", rec)
	d.AddSprites(a, b)
	advance(t, d)
	advance(t, d)

	d.RemoveSprites(a)
	rec.reset()
	advance(t, d)
	assert.Equal(t, []string{"a:repaint", "b:repaint", "swap", "a:unload", "clear"}, rec.list())

	rec.reset()
	advance(t, d)
	assert.Equal(t, []string{"b:repaint", "swap", "clear"}, rec.list())
	assert.Equal(t, []Sprite{b}, d.Sprites())
}

func TestRemoveBeforeLoadCancels(t *testing.T) {
	d, _, rec := newTestDisplay(t, Config{})
	a := newRecSprite("a", rec)

	d.AddSprites(a)
	d.RemoveSprites(a)
	advance(t, d)
	advance(t, d)

	assert.Equal(t, 0, rec.count("a:load"))
	assert.Equal(t, 0, rec.count("a:unload"))
	assert.Empty(t, d.Sprites())
}

func TestReAddCancelsPendingRemoval(t *testing.T) {
	d, _, rec := newTestDisplay(t, Config{})
	a := newRecSprite("a", rec)
	d.AddSprites(a)
	advance(t, d)

	d.RemoveSprites(a)
	d.AddSprites(a)
	advance(t, d)
	advance(t, d)

	assert.Equal(t, 1, rec.count("a:load"))
	assert.Equal(t, 0, rec.count("a:unload"))
	assert.Equal(t, 2, rec.count("a:repaint"))
}

func TestRemoveUnknownSpriteIsNoop(t *testing.T) {
	d, _, rec := newTestDisplay(t, Config{})
	d.RemoveSprites(newRecSprite("ghost", rec), nil)
	advance(t, d)
	advance(t, d)
	assert.Equal(t, 0, rec.count("ghost:unload"))
}

func TestRepaintTimeSharedWithinFrame(t *testing.T) {
	d, _, rec := newTestDisplay(t, Config{})
	a := newRecSprite("a", rec)
	b := newRecSprite("b", rec)
	d.AddSprites(a, b)
	advance(t, d)
	advance(t, d)
	advance(t, d)

	require.Len(t, a.repaints, 2)
	require.Len(t, b.repaints, 2)
	assert.Equal(t, a.repaints[0], b.repaints[0])
	assert.False(t, a.repaints[1].Before(a.repaints[0]))
}

// --- Stop and destroy ---

func TestStopFlushesAndDestroys(t *testing.T) {
	rec := &recorder{}
	window := &closer{name: "window", rec: rec}
	ctx := newFakeContext(rec)
	d, err := New(ctx, Config{Window: window})
	require.NoError(t, err)

	a := newRecSprite("a", rec)
	d.AddSprites(a)
	advance(t, d)
	advance(t, d)
	rec.reset()

	d.Stop()
	ok, err := d.Advance()
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a:repaint", "swap", "a:unload", "ctx-destroy", "window-close"}, rec.list())
	assert.Equal(t, StateDestroyed, d.State())

	ok, err = d.Advance()
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrUseAfterDestroy)
}

func TestStopBeforeFirstAdvance(t *testing.T) {
	d, ctx, rec := newTestDisplay(t, Config{})
	d.Stop()

	ok, err := d.Advance()
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 1, ctx.destroyed)
	assert.Equal(t, 0, rec.count("swap"))
}

func TestDestroyTwiceIsNoop(t *testing.T) {
	rec := &recorder{}
	ctx := newFakeContext(rec)
	window := &closer{name: "window", rec: rec}
	d, err := New(ctx, Config{Window: window})
	require.NoError(t, err)

	d.Destroy()
	d.Destroy()

	assert.Equal(t, 1, ctx.destroyed)
	assert.Equal(t, 1, rec.count("window-close"))
	assert.False(t, d.Running())
}

func TestDestroyUnloadsActiveSprites(t *testing.T) {
	d, _, rec := newTestDisplay(t, Config{})
	a := newRecSprite("a", rec)
	b := newRecSprite("b", rec)
	d.AddSprites(a, b)
	advance(t, d)

	d.Destroy()
	assert.Equal(t, 1, rec.count("a:unload"))
	assert.Equal(t, 1, rec.count("b:unload"))
	assert.Less(t, rec.index("b:unload"), rec.index("ctx-destroy"))
}

type closingPointer struct {
	fixedPointer
	*closer
}

func TestDestroyReleasesEverythingDespiteFailures(t *testing.T) {
	buf := captureLog(t)
	rec := &recorder{}
	ctx := newFakeContext(rec)
	ctx.destroyErr = errors.New("context lost")
	pointer := closingPointer{fixedPointer{1, 2}, &closer{name: "pointer", rec: rec, err: errors.New("pointer stuck")}}
	window := &closer{name: "window", rec: rec, err: errors.New("window gone")}

	d, err := New(ctx, Config{Window: window, Pointer: pointer})
	require.NoError(t, err)
	a := newRecSprite("a", rec)
	a.panicOn = hookUnload
	d.AddSprites(a)
	advance(t, d)

	assert.NotPanics(t, d.Destroy)
	assert.Equal(t, []int{1, 1, 1}, []int{ctx.destroyed, rec.count("pointer-close"), rec.count("window-close")})
	assert.Less(t, rec.index("ctx-destroy"), rec.index("pointer-close"))
	assert.Less(t, rec.index("pointer-close"), rec.index("window-close"))

	out := buf.String()
	for _, want := range []string{"context lost", "pointer stuck", "window gone", "a exploded"} {
		assert.Contains(t, out, want)
	}
	_, ok := Current()
	assert.False(t, ok)
}

func TestDestroyRecoversReleasePanic(t *testing.T) {
	rec := &recorder{}
	d, err := New(newFakeContext(rec), Config{Window: panicCloser{}})
	require.NoError(t, err)
	assert.NotPanics(t, d.Destroy)
}

type panicCloser struct{}

func (panicCloser) Close() error { panic("window already freed") }

// --- Loop modes ---

func TestRunStopsFromSprite(t *testing.T) {
	d, ctx, rec := newTestDisplay(t, Config{})
	a := newRecSprite("a", rec)
	stopper := &SpriteFuncs{OnRepaint: func(time.Time) error {
		if a.repaintCount() >= 3 {
			d.Stop()
		}
		return nil
	}}
	d.AddSprites(a, stopper)

	require.NoError(t, d.Run(context.Background()))
	assert.Equal(t, 3, a.repaintCount())
	assert.Equal(t, 1, rec.count("a:unload"))
	assert.Equal(t, 1, ctx.destroyed)
	assert.Equal(t, StateDestroyed, d.State())
}

func TestRunStopsOnCancel(t *testing.T) {
	d, ctx, rec := newTestDisplay(t, Config{FPS: 200})
	a := newRecSprite("a", rec)
	d.AddSprites(a)

	c, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, d.Run(c))

	assert.Greater(t, a.repaintCount(), 0)
	assert.Equal(t, 1, ctx.destroyed)
	assert.Equal(t, LoopInternal, d.Mode())
}

func TestAdvanceInsideRunIsRejected(t *testing.T) {
	d, _, _ := newTestDisplay(t, Config{})
	var inner error
	d.AddSprites(&SpriteFuncs{OnRepaint: func(time.Time) error {
		_, inner = d.Advance()
		d.Stop()
		return nil
	}})

	require.NoError(t, d.Run(context.Background()))
	assert.ErrorIs(t, inner, ErrInvalidLoopMode)
}

func TestRunAfterAdvanceIsRejected(t *testing.T) {
	d, _, _ := newTestDisplay(t, Config{})
	advance(t, d)

	assert.ErrorIs(t, d.Run(context.Background()), ErrInvalidLoopMode)
	assert.Equal(t, StateRunning, d.State(), "rejected Run leaves the display usable")
	advance(t, d)
}

func TestRunAfterDestroy(t *testing.T) {
	d, _, _ := newTestDisplay(t, Config{})
	d.Destroy()
	assert.ErrorIs(t, d.Run(context.Background()), ErrUseAfterDestroy)
}

// --- Pacing ---

func TestAdvancePacesToTargetFPS(t *testing.T) {
	if testing.Short() {
		t.Skip("wall clock")
	}
	d, _, rec := newTestDisplay(t, Config{FPS: 30})
	d.AddSprites(newRecSprite("a", rec), newRecSprite("b", rec), newRecSprite("c", rec))

	start := time.Now()
	for i := 0; i < 5; i++ {
		advance(t, d)
	}
	elapsed := time.Since(start)

	want := 4 * time.Second / 30
	assert.GreaterOrEqual(t, elapsed, want-10*time.Millisecond)
	assert.Less(t, elapsed, want+150*time.Millisecond)
	assert.Equal(t, 12, rec.count("a:repaint")+rec.count("b:repaint")+rec.count("c:repaint"))
	for _, name := range []string{"a", "b", "c"} {
		assert.Equal(t, 1, rec.count(name+":load"), "sprite %s", name)
	}
}

// --- Geometry and misc ---

func TestResizeKeepsSizeForNonPositive(t *testing.T) {
	d, ctx, _ := newTestDisplay(t, Config{Bounds: &Rect{Width: 640, Height: 480}})

	d.Resize(10, 20, 0, -1)
	assert.Equal(t, Rect{X: 10, Y: 20, Width: 640, Height: 480}, d.Bounds())

	d.Resize(0, 0, 800, 600)
	assert.Equal(t, Rect{Width: 800, Height: 600}, ctx.Bounds())
	assert.Equal(t, 800, ctx.Projection().Width)
	assert.Equal(t, 600, ctx.Projection().Height)
}

func TestResizeFailureIsLogged(t *testing.T) {
	buf := captureLog(t)
	d, ctx, _ := newTestDisplay(t, Config{Bounds: &Rect{Width: 640, Height: 480}})
	ctx.resizeErr = errBoom

	d.Resize(0, 0, 320, 200)
	assert.Contains(t, buf.String(), "boom")
	assert.Equal(t, 640, ctx.Projection().Width, "projection unchanged")
}

func TestMousePosition(t *testing.T) {
	d, _, _ := newTestDisplay(t, Config{Pointer: fixedPointer{12, 34}})
	x, y := d.MousePosition()
	assert.Equal(t, []int{12, 34}, []int{x, y})

	d2, _, _ := newTestDisplay(t, Config{})
	x, y = d2.MousePosition()
	assert.Equal(t, []int{-1, -1}, []int{x, y})
}

func TestStatsCountFrames(t *testing.T) {
	d, _, rec := newTestDisplay(t, Config{})
	d.AddSprites(newRecSprite("a", rec), newRecSprite("b", rec))
	for i := 0; i < 4; i++ {
		advance(t, d)
	}
	d.AddSprites(newRecSprite("c", rec))

	s := d.Stats()
	assert.Equal(t, uint64(3), s.Frames)
	assert.Equal(t, 2, s.Sprites)
	assert.Zero(t, s.Overruns)

	advance(t, d)
	s = d.Stats()
	assert.Equal(t, uint64(4), s.Frames)
	assert.Equal(t, 1, s.PendingLoads, "c is loaded by the begin-phase after this frame")
}

func TestDebugLogsFrameTimings(t *testing.T) {
	buf := captureLog(t)
	log.SetLevel(log.Debug)
	t.Cleanup(func() { log.SetLevel(log.Notice) })

	d, _, _ := newTestDisplay(t, Config{Debug: true})
	advance(t, d)
	advance(t, d)

	assert.Contains(t, buf.String(), "repaint:")
	assert.Contains(t, buf.String(), "sprites: 0")
}

func TestLoopModeAndStateStrings(t *testing.T) {
	assert.Equal(t, "external", LoopExternal.String())
	assert.Equal(t, "internal", LoopInternal.String())
	assert.Equal(t, "none", LoopNone.String())
	assert.Equal(t, "destroyed", StateDestroyed.String())
	assert.Equal(t, "swallow", FaultSwallow.String())
}
