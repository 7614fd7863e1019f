package btevict

// unlock releases locks acquired by review/excl, walking the same
// depth-first, child-index-ascending order used to acquire them
// (spec.md section 4.5, invariant 4). It restores root's own edge to
// StateMem, then recurses into LOCKED children until upto is reached,
// at which point the whole walk stops — upto may be an interior node
// of a subtree review only partially explored before aborting, so
// siblings past it were never locked and must not be touched.
//
// A child observed in StateMem or StateReading at this point is a
// protocol violation: the acquisition walk only ever leaves children
// in DISK (skipped) or LOCKED (acquired) once it has passed them, and
// nothing else can legally flip that state while this evictor holds
// the parent locked. unlock panics in that case rather than returning
// an error, since spec.md section 7 classifies it as a bug, not a
// recoverable condition.
func unlock(root, upto *Page, sess *EvictSession) bool {
	root.parentRef.restoreMem()
	if root == upto {
		return true
	}
	if !root.Type.IsInternal() {
		return false
	}
	for i := range root.Children {
		ref := &root.Children[i]
		switch ref.State() {
		case StateDisk:
			continue
		case StateLocked:
			child := ref.page.Load()
			if unlock(child, upto, sess) {
				return true
			}
		default:
			panic(illegalErr(ErrProtocolViolation))
		}
	}
	return false
}
