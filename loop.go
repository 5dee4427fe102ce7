package display

import (
	"context"
	"errors"
	"time"
)

// Advance drives one frame from an external loop:
//
//	for {
//		ok, err := d.Advance()
//		if err != nil || !ok {
//			break
//		}
//		// per-frame game logic
//	}
//
// Each call finishes the frame opened by the previous call (repaint, swap,
// unload removed sprites, pace) and opens the next one (clear, load added
// sprites). It returns false once Stop has been called, after flushing and
// destroying the display. A propagated sprite fault is returned with false;
// the display stays live and the caller decides whether to Destroy it.
// After a propagated repaint fault the frame stays open, and the next call
// repaints every sprite in it again before presenting.
func (d *Display) Advance() (bool, error) {
	if d.destroyed.Load() {
		return false, ErrUseAfterDestroy
	}
	if d.mode == LoopInternal {
		return false, ErrInvalidLoopMode
	}

	if !d.running.Load() {
		var err error
		if d.frameOpen {
			err = d.endFrame()
		}
		d.Destroy()
		return false, err
	}

	if d.frameOpen {
		if err := d.endFrame(); err != nil {
			return false, err
		}
	} else if d.mode == LoopNone {
		d.mode = LoopExternal
		d.pacer.start(d.pacer.now())
		d.log.Debugf("[%s] external loop started", d.tag)
	}

	d.frameOpen = true
	if err := d.beginFrame(); err != nil {
		return false, err
	}
	return true, nil
}

// Run owns the loop until Stop is called or ctx is done, then destroys the
// display. It returns the first propagated sprite fault, or nil.
func (d *Display) Run(ctx context.Context) error {
	if d.destroyed.Load() {
		return ErrUseAfterDestroy
	}
	if d.mode != LoopNone {
		return ErrInvalidLoopMode
	}
	d.mode = LoopInternal
	d.pacer.start(d.pacer.now())
	d.log.Debugf("[%s] internal loop started", d.tag)
	defer d.Destroy()

	for d.running.Load() && ctx.Err() == nil {
		if err := d.beginFrame(); err != nil {
			return err
		}
		if err := d.endFrame(); err != nil {
			return err
		}
	}
	return nil
}

// faultPolicy resolves the display's policy against the process-wide one.
func (d *Display) faultPolicy() FaultPolicy {
	if d.policy != FaultDefault {
		return d.policy
	}
	return FaultPolicy(faultPolicy.Load())
}

// fault logs f and applies the fault policy. It returns f when the phase
// must abort.
func (d *Display) fault(f *SpriteHookFault) error {
	if f == nil {
		return nil
	}
	d.log.Errorf("[%s] %v", d.tag, f)
	if d.faultPolicy() == FaultSwallow {
		return nil
	}
	return f
}

// beginFrame clears the surface and loads the sprites added since the last
// begin-phase. A sprite whose Load fails never becomes active.
func (d *Display) beginFrame() error {
	d.ctx.Clear()

	loads := d.sprites.takeLoads()
	defer d.sprites.finishLoads()
	for i, sp := range loads {
		if f := callHook(hookLoad, sp, sp.Load); f != nil {
			if err := d.fault(f); err != nil {
				d.sprites.requeueLoads(loads[i+1:])
				return err
			}
			continue
		}
		d.sprites.activate(sp)
	}
	return nil
}

// endFrame repaints every active sprite, presents the frame, unloads the
// sprites removed before this phase started and sleeps to the next deadline.
// A removed sprite is repainted once more before its Unload. A repaint fault
// leaves the frame open so the next Advance repaints it again.
func (d *Display) endFrame() error {
	removed := d.sprites.takeUnloads()
	frame := d.sprites.snapshot()

	start := d.pacer.now()
	for _, sp := range frame {
		if f := callHook(hookRepaint, sp, func() error { return sp.Repaint(start) }); f != nil {
			if err := d.fault(f); err != nil {
				d.sprites.requeueUnloads(removed)
				return err
			}
		}
	}
	painted := d.pacer.now()

	d.ctx.SwapBuffers()
	d.frameOpen = false
	swapped := d.pacer.now()

	var errs []error
	for _, sp := range d.sprites.prune(removed) {
		if f := callHook(hookUnload, sp, sp.Unload); f != nil {
			if err := d.fault(f); err != nil {
				errs = append(errs, err)
			}
		}
	}

	overrun := d.pacer.wait()
	end := d.pacer.now()

	t := frameTimings{
		repaint: painted.Sub(start),
		swap:    swapped.Sub(painted),
		frame:   end.Sub(start),
		sprites: len(frame),
		removed: len(removed),
		overrun: overrun,
	}
	d.stats.record(end, t, d.sprites)
	d.debugLog(t)

	return errors.Join(errs...)
}

// frameTimings is the measurement of one end-phase.
type frameTimings struct {
	repaint time.Duration
	swap    time.Duration
	frame   time.Duration
	sprites int
	removed int
	overrun bool
}
