package display

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLoopMode is returned when Advance and Run are mixed on one Display.
	ErrInvalidLoopMode = errors.New("display: Advance and Run cannot be used on the same display")

	// ErrUseAfterDestroy is returned by loop operations on a destroyed Display.
	ErrUseAfterDestroy = errors.New("display: use after destroy")

	// ErrInvalidDepth is returned by New for a colour depth other than 8, 16 or 24.
	ErrInvalidDepth = errors.New("display: colour depth must be 8, 16 or 24")
)

// ContextCreationError reports that the graphics context could not allocate a
// surface with the requested geometry.
type ContextCreationError struct {
	Bounds Rect
	Err    error
}

func (e *ContextCreationError) Error() string {
	return fmt.Sprintf("display: create %dx%d surface at (%d, %d): %v",
		e.Bounds.Width, e.Bounds.Height, e.Bounds.X, e.Bounds.Y, e.Err)
}

func (e *ContextCreationError) Unwrap() error { return e.Err }

// SpriteHookFault wraps an error returned, or a panic raised, by a sprite
// lifecycle hook.
type SpriteHookFault struct {
	Hook   string // "load", "repaint" or "unload"
	Sprite Sprite
	Err    error
}

func (e *SpriteHookFault) Error() string {
	return fmt.Sprintf("display: %s hook of %T: %v", e.Hook, e.Sprite, e.Err)
}

func (e *SpriteHookFault) Unwrap() error { return e.Err }

// FaultPolicy selects what happens when a sprite hook fails.
type FaultPolicy uint8

const (
	FaultDefault   FaultPolicy = iota // use the process-wide policy
	FaultPropagate                    // abort the phase and return the fault
	FaultSwallow                      // log the fault and continue with the next sprite
)

func (p FaultPolicy) String() string {
	switch p {
	case FaultPropagate:
		return "propagate"
	case FaultSwallow:
		return "swallow"
	default:
		return "default"
	}
}
