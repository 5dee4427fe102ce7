package display

import "sync"

// spriteSet is an insertion-ordered set of sprites.
type spriteSet struct {
	order []Sprite
	index map[Sprite]int
}

func (s *spriteSet) add(sp Sprite) bool {
	if s.index == nil {
		s.index = make(map[Sprite]int)
	}
	if _, ok := s.index[sp]; ok {
		return false
	}
	s.index[sp] = len(s.order)
	s.order = append(s.order, sp)
	return true
}

func (s *spriteSet) has(sp Sprite) bool {
	_, ok := s.index[sp]
	return ok
}

func (s *spriteSet) remove(sp Sprite) bool {
	i, ok := s.index[sp]
	if !ok {
		return false
	}
	copy(s.order[i:], s.order[i+1:])
	s.order[len(s.order)-1] = nil
	s.order = s.order[:len(s.order)-1]
	delete(s.index, sp)
	for j := i; j < len(s.order); j++ {
		s.index[s.order[j]] = j
	}
	return true
}

func (s *spriteSet) len() int { return len(s.order) }

// spriteRegistry holds the pending-load and pending-unload queues and the
// active draw sequence.
//
// addSprites and removeSprites may be called from any goroutine. Everything
// else is called from the render goroutine only, which is the sole writer of
// active. mu guards the pending sets and the members index and is never held
// while a sprite hook runs.
type spriteRegistry struct {
	mu            sync.Mutex
	pendingLoad   spriteSet
	pendingUnload spriteSet
	members       map[Sprite]struct{}
	loading       map[Sprite]struct{} // swapped out by takeLoads, not yet activated
	unloading     map[Sprite]struct{} // swapped out by takeUnloads, not yet pruned

	active []Sprite
}

func newSpriteRegistry() *spriteRegistry {
	return &spriteRegistry{members: make(map[Sprite]struct{})}
}

// addSprites queues sprites for loading at the next begin-phase. Re-adding a
// sprite that is pending removal cancels the removal; adding an active sprite
// is a no-op. A sprite already being unloaded by the current end-phase is
// loaded again at the following begin-phase.
func (r *spriteRegistry) addSprites(sprites ...Sprite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sp := range sprites {
		if sp == nil {
			continue
		}
		if _, ok := r.unloading[sp]; ok {
			r.pendingLoad.add(sp)
			continue
		}
		if r.committed(sp) {
			r.pendingUnload.remove(sp)
			continue
		}
		r.pendingLoad.add(sp)
	}
}

// removeSprites queues active sprites, and sprites being loaded right now,
// for unloading at the next end-phase commit. Removing a sprite that is still
// waiting for its load cancels the load.
func (r *spriteRegistry) removeSprites(sprites ...Sprite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sp := range sprites {
		if sp == nil {
			continue
		}
		if r.pendingLoad.remove(sp) {
			continue
		}
		if r.committed(sp) {
			r.pendingUnload.add(sp)
		}
	}
}

// committed reports whether sp is active or being loaded. mu must be held.
func (r *spriteRegistry) committed(sp Sprite) bool {
	if _, ok := r.members[sp]; ok {
		return true
	}
	_, ok := r.loading[sp]
	return ok
}

// takeLoads swaps out the pending-load set.
func (r *spriteRegistry) takeLoads() []Sprite {
	r.mu.Lock()
	defer r.mu.Unlock()
	taken := r.pendingLoad.order
	r.pendingLoad = spriteSet{}
	if len(taken) > 0 {
		r.loading = make(map[Sprite]struct{}, len(taken))
		for _, sp := range taken {
			r.loading[sp] = struct{}{}
		}
	}
	return taken
}

// finishLoads ends the load commit started by takeLoads.
func (r *spriteRegistry) finishLoads() {
	r.mu.Lock()
	r.loading = nil
	r.mu.Unlock()
}

// activate appends a loaded sprite to the draw sequence.
func (r *spriteRegistry) activate(sp Sprite) {
	r.mu.Lock()
	r.members[sp] = struct{}{}
	r.mu.Unlock()
	r.active = append(r.active, sp)
}

// requeueLoads puts sprites whose load was never attempted back in front of
// the pending-load queue, unless they were removed in the meantime.
func (r *spriteRegistry) requeueLoads(sprites []Sprite) {
	if len(sprites) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var merged spriteSet
	for _, sp := range sprites {
		if r.pendingUnload.remove(sp) {
			continue
		}
		merged.add(sp)
	}
	for _, sp := range r.pendingLoad.order {
		merged.add(sp)
	}
	r.pendingLoad = merged
}

// takeUnloads swaps out the pending-unload set.
func (r *spriteRegistry) takeUnloads() []Sprite {
	r.mu.Lock()
	defer r.mu.Unlock()
	taken := r.pendingUnload.order
	r.pendingUnload = spriteSet{}
	if len(taken) > 0 {
		r.unloading = make(map[Sprite]struct{}, len(taken))
		for _, sp := range taken {
			r.unloading[sp] = struct{}{}
		}
	}
	return taken
}

// requeueUnloads returns swapped-out removals to the pending-unload set after
// an aborted end-phase.
func (r *spriteRegistry) requeueUnloads(sprites []Sprite) {
	if len(sprites) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sp := range sprites {
		if _, ok := r.members[sp]; !ok {
			continue
		}
		// a re-add queued during the aborted phase cancels the removal
		if !r.pendingLoad.remove(sp) {
			r.pendingUnload.add(sp)
		}
	}
	r.unloading = nil
}

// prune drops the given sprites from the draw sequence, preserving the order
// of the rest, and returns the sprites that were actually active.
func (r *spriteRegistry) prune(removed []Sprite) []Sprite {
	if len(removed) == 0 {
		return nil
	}
	defer func() {
		r.mu.Lock()
		r.unloading = nil
		r.mu.Unlock()
	}()
	drop := make(map[Sprite]struct{}, len(removed))
	for _, sp := range removed {
		drop[sp] = struct{}{}
	}

	var gone []Sprite
	kept := r.active[:0]
	for _, sp := range r.active {
		if _, ok := drop[sp]; ok {
			gone = append(gone, sp)
			continue
		}
		kept = append(kept, sp)
	}
	for i := len(kept); i < len(r.active); i++ {
		r.active[i] = nil
	}
	r.active = kept

	r.mu.Lock()
	for _, sp := range gone {
		delete(r.members, sp)
	}
	r.mu.Unlock()
	return gone
}

// snapshot copies the draw sequence so repaint can iterate it while other
// goroutines queue changes.
func (r *spriteRegistry) snapshot() []Sprite {
	out := make([]Sprite, len(r.active))
	copy(out, r.active)
	return out
}

// drain empties the draw sequence and both pending queues, returning the
// sprites that were active.
func (r *spriteRegistry) drain() []Sprite {
	active := r.active
	r.active = nil
	r.mu.Lock()
	r.pendingLoad = spriteSet{}
	r.pendingUnload = spriteSet{}
	r.members = make(map[Sprite]struct{})
	r.loading = nil
	r.unloading = nil
	r.mu.Unlock()
	return active
}

// pending reports the queue lengths.
func (r *spriteRegistry) pending() (loads, unloads int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pendingLoad.len(), r.pendingUnload.len()
}
