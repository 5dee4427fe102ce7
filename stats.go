package display

import (
	"sync"
	"time"
)

// fpsWindow is how long frames are counted before the FPS figure refreshes.
const fpsWindow = 500 * time.Millisecond

// Stats is a snapshot of the frame loop counters.
type Stats struct {
	Frames         uint64        // completed end-phases
	Overruns       uint64        // frames that missed their deadline
	Sprites        int           // active sprites in the last frame
	PendingLoads   int           // sprites waiting for the next begin-phase
	PendingUnloads int           // sprites waiting for the next end-phase
	RepaintTime    time.Duration // repaint time of the last frame
	SwapTime       time.Duration // buffer swap time of the last frame
	FrameTime      time.Duration // whole end-phase of the last frame, pacing included
	FPS            float64       // presented frames per second, refreshed every half second
}

type frameStats struct {
	mu    sync.Mutex
	s     Stats
	since time.Time
	count int
}

func (fs *frameStats) record(now time.Time, t frameTimings, r *spriteRegistry) {
	loads, unloads := r.pending()

	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.s.Frames++
	if t.overrun {
		fs.s.Overruns++
	}
	fs.s.Sprites = t.sprites
	fs.s.PendingLoads = loads
	fs.s.PendingUnloads = unloads
	fs.s.RepaintTime = t.repaint
	fs.s.SwapTime = t.swap
	fs.s.FrameTime = t.frame

	if fs.since.IsZero() {
		fs.since = now
		return
	}
	fs.count++
	if elapsed := now.Sub(fs.since); elapsed >= fpsWindow {
		fs.s.FPS = float64(fs.count) / elapsed.Seconds()
		fs.since = now
		fs.count = 0
	}
}

func (fs *frameStats) snapshot() Stats {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.s
}

// Stats returns the current frame loop counters. Safe from any goroutine.
func (d *Display) Stats() Stats {
	return d.stats.snapshot()
}
