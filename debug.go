package display

// debugMaxSprites is the active sprite count above which debug mode warns
// once per frame.
const debugMaxSprites = 1000

// debugLog logs per-frame timings at debug level when Config.Debug is set.
func (d *Display) debugLog(t frameTimings) {
	if !d.debug {
		return
	}
	d.log.Debugf("[%s] repaint: %v | swap: %v | frame: %v | overrun: %t",
		d.tag, t.repaint, t.swap, t.frame, t.overrun)
	d.log.Debugf("[%s] sprites: %d | unloaded: %d", d.tag, t.sprites, t.removed)
	if t.sprites > debugMaxSprites {
		d.log.Warningf("[%s] %d active sprites exceeds %d", d.tag, t.sprites, debugMaxSprites)
	}
}
