package display

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Sprite is anything that takes part in the frame loop. The Display calls the
// hooks from the render goroutine only; sprites never call them on themselves.
//
// Sprites are identified by interface equality, so the dynamic type must be
// comparable. Pointer receivers are the usual choice.
type Sprite interface {
	// Load is called once, in the begin-phase after the sprite was added and
	// before its first Repaint. The sprite joins the draw sequence only if
	// Load succeeds; when load faults are swallowed, a sprite whose Load
	// failed is dropped and must be added again to retry.
	Load() error
	// Repaint draws the sprite for the frame that is being presented. now is
	// the same for every sprite in one frame.
	Repaint(now time.Time) error
	// Unload is called once after the final Repaint following removal.
	Unload() error
}

// SpriteFuncs adapts plain functions to the Sprite interface. Nil functions
// are no-ops. Always pass a *SpriteFuncs; the struct itself is not comparable.
type SpriteFuncs struct {
	OnLoad    func() error
	OnRepaint func(now time.Time) error
	OnUnload  func() error
}

func (s *SpriteFuncs) Load() error {
	if s.OnLoad == nil {
		return nil
	}
	return s.OnLoad()
}

func (s *SpriteFuncs) Repaint(now time.Time) error {
	if s.OnRepaint == nil {
		return nil
	}
	return s.OnRepaint(now)
}

func (s *SpriteFuncs) Unload() error {
	if s.OnUnload == nil {
		return nil
	}
	return s.OnUnload()
}

const (
	hookLoad    = "load"
	hookRepaint = "repaint"
	hookUnload  = "unload"
)

// callHook runs one sprite hook, turning a returned error or a panic into a
// *SpriteHookFault. It returns nil when the hook succeeded.
func callHook(hook string, s Sprite, fn func() error) (fault *SpriteHookFault) {
	defer func() {
		if r := recover(); r != nil {
			fault = &SpriteHookFault{
				Hook:   hook,
				Sprite: s,
				Err:    fmt.Errorf("panic: %v\n%s", r, debug.Stack()),
			}
		}
	}()
	if err := fn(); err != nil {
		return &SpriteHookFault{Hook: hook, Sprite: s, Err: err}
	}
	return nil
}
