package display

import "time"

// framePacer converts a target frame rate into sleeps against an integrated
// deadline. Each frame advances the deadline by one interval, so the cost of
// repainting is absorbed instead of accumulating as drift. Overrun frames do
// not sleep and are not skipped.
type framePacer struct {
	interval time.Duration
	deadline time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

func newFramePacer(fps float64) *framePacer {
	p := &framePacer{now: time.Now, sleep: time.Sleep}
	if fps > 0 {
		p.interval = time.Duration(float64(time.Second) / fps)
	}
	return p
}

// start resets the deadline to t, the loop start time.
func (p *framePacer) start(t time.Time) {
	p.deadline = t
}

// wait blocks until the next deadline. It reports whether the frame overran.
func (p *framePacer) wait() (overrun bool) {
	if p.interval <= 0 {
		return false
	}
	p.deadline = p.deadline.Add(p.interval)
	delta := p.deadline.Sub(p.now())
	if delta <= 0 {
		return true
	}
	p.sleep(delta)
	return false
}
