// Package display is a frame-loop and display lifecycle controller for
// real-time graphics programs.
//
// A [Display] owns one drawing surface, provided by a [GraphicsContext], and
// drives the per-frame cycle: clear, load newly added sprites, repaint every
// active sprite, present the frame, unload removed sprites and sleep to hold a
// target frame rate.
//
// # Quick start
//
// The simplest way to get started is the internal loop, which blocks until
// Stop is called or the context is cancelled:
//
//	d, err := display.New(display.NewHeadless(800, 600), display.Config{FPS: 60})
//	if err != nil {
//		return err
//	}
//	d.AddSprites(hero, hud)
//	return d.Run(ctx)
//
// For full control, poll [Display.Advance] from your own loop. Each call
// finishes the previous frame and opens the next one:
//
//	for {
//		ok, err := d.Advance()
//		if err != nil || !ok {
//			break
//		}
//		// per-frame logic
//	}
//
// A display uses one of the two styles for its whole life; mixing them is
// [ErrInvalidLoopMode].
//
// # Sprites
//
// Anything implementing [Sprite] takes part in the loop. [Display.AddSprites]
// and [Display.RemoveSprites] are safe from any goroutine; the changes take
// effect at the next frame boundary. Load is always called before the first
// Repaint, and a removed sprite is repainted once more before Unload.
//
// A hook that returns an error or panics produces a [SpriteHookFault]. By
// default the fault aborts the phase and is returned from Advance or Run; see
// [SetSpriteFaultPolicy] to log and continue instead.
//
// # Backends
//
// [HeadlessContext] has no native surface. Real surfaces live in the backend
// packages: backend/glctx (GLFW and legacy OpenGL), backend/ebitenctx
// (Ebitengine) and backend/termctx (a tcell terminal).
package display
