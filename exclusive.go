package btevict

import "runtime"

// EvictSession is the evictor-side scratch state for one eviction
// attempt: the hazard slab to snapshot against and the reusable
// snapshot buffer spec.md section 4.6 calls out as per-session scratch
// to avoid allocation on the hot retry path.
type EvictSession struct {
	hazards *HazardSlab
	snap    snapshot
}

// NewEvictSession creates a session that checks hazards against h.
func NewEvictSession(h *HazardSlab) *EvictSession {
	return &EvictSession{hazards: h}
}

// exclusive implements hazard_exclusive(ref, force) from spec.md
// section 4.2. It is the single serialization point (invariant 2): the
// store of StateLocked races the reader's hazard-publish/re-check, and
// the hazard snapshot taken immediately after races the reader's
// store-then-reload in the other direction. At least one side observes
// the other, so a reader mid-dereference is always caught by either
// the snapshot or its own re-check.
func (s *EvictSession) exclusive(ref *Ref, force bool) error {
	for {
		ref.state.Store(uint32(StateLocked))
		s.snap.build(s.hazards)
		if !s.snap.contains(ref.page.Load()) {
			return nil
		}
		if !force {
			ref.restoreMem()
			return contentionErr()
		}
		runtime.Gosched()
	}
}

// lockRef acquires exclusivity on ref per spec.md's "if not SINGLE"
// guard threaded through review and excl: SINGLE mode skips hazard
// coordination entirely (the caller already holds tree-wide
// exclusivity, so no reader can race the transition) and just stamps
// the state directly; otherwise it runs the full protocol above with
// force set by the caller's EvictWait flag.
func lockRef(ref *Ref, flags EvictFlags, sess *EvictSession) error {
	if flags.Has(EvictSingle) {
		ref.lockUnconditional()
		return nil
	}
	return sess.exclusive(ref, flags.Has(EvictWait))
}
