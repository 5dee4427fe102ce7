package display

import (
	"sync"
	"sync/atomic"
)

// current tracks the most recently constructed live Display. It is written
// only by New and Destroy.
var current struct {
	sync.Mutex
	d *Display
}

var (
	allowMultiple atomic.Bool
	faultPolicy   atomic.Uint32
)

func init() {
	faultPolicy.Store(uint32(FaultPropagate))
}

// Current returns the most recently constructed Display that has not been
// destroyed.
func Current() (*Display, bool) {
	current.Lock()
	defer current.Unlock()
	return current.d, current.d != nil
}

// AllowMultipleDisplays declares that more than one live Display is
// intended. Without it, constructing a second one logs a warning.
func AllowMultipleDisplays(allow bool) {
	allowMultiple.Store(allow)
}

// SetSpriteFaultPolicy sets the process-wide sprite fault policy used by
// displays whose Config.FaultPolicy is FaultDefault. FaultDefault restores
// FaultPropagate.
func SetSpriteFaultPolicy(p FaultPolicy) {
	if p == FaultDefault {
		p = FaultPropagate
	}
	faultPolicy.Store(uint32(p))
}

// register makes d current and returns the display it replaced.
func register(d *Display) (previous *Display) {
	current.Lock()
	defer current.Unlock()
	previous = current.d
	current.d = d
	return previous
}

// unregister clears the current display if it is d.
func unregister(d *Display) {
	current.Lock()
	defer current.Unlock()
	if current.d == d {
		current.d = nil
	}
}
