package btevict

// review walks page's subtree acquiring locks on any descendants that
// will be merged into it, per spec.md section 4.3. It returns the
// furthest page it successfully locked (last_page), which the caller
// uses as the unlock boundary on failure and when a parent-case EMPTY
// commit releases the subtree.
func review(page *Page, flags EvictFlags, sess *EvictSession) (*Page, error) {
	last := page
	if err := lockRef(page.parentRef, flags, sess); err != nil {
		return last, err
	}
	if !page.Type.IsInternal() {
		return last, nil
	}
	reached, err := excl(page, flags, sess)
	if reached != nil {
		last = reached
	}
	if err != nil {
		if !flags.Has(EvictSingle) {
			unlock(page, last, sess)
		}
		return last, err
	}
	return last, nil
}

// excl is the depth-first lock walk over parent's children (component
// C-inner, spec.md section 4.4). It returns as soon as any child fails
// its cheap or careful mergeability test, or is found contended.
func excl(parent *Page, flags EvictFlags, sess *EvictSession) (*Page, error) {
	last := parent
	for i := range parent.Children {
		ref := &parent.Children[i]
		switch ref.State() {
		case StateDisk:
			continue
		case StateReading, StateLocked:
			return last, contentionErr()
		case StateMem:
			child := ref.page.Load()
			if !mergeableCheap(child) {
				return last, unmergeableErr()
			}
			if err := lockRef(ref, flags, sess); err != nil {
				return last, err
			}
			// last_page tracks the furthest page this walk actually
			// locked, independent of whether the careful test below
			// passes: unlock's release boundary must cover child
			// even when it turns out not to be mergeable after all.
			last = child
			if !mergeableCareful(child) {
				return last, unmergeableErr()
			}
			if child.Type.IsInternal() {
				reached, err := excl(child, flags, sess)
				if reached != nil {
					last = reached
				}
				if err != nil {
					return last, err
				}
			}
		default:
			return last, illegalErr(ErrProtocolViolation)
		}
	}
	return last, nil
}

// mergeableCheap is the lock-free pre-check in spec.md section 4.4
// step 1: without it, a page with no mergeability flag at all is never
// worth locking.
func mergeableCheap(c *Page) bool {
	switch c.Rec {
	case RecEmpty, RecSplit, RecSplitMerge:
		return true
	default:
		return false
	}
}

// mergeableCareful is the re-check performed once the child is locked
// (spec.md section 4.4 step 3): a split-merge page is always
// mergeable; a split or empty page is mergeable only if it is clean.
func mergeableCareful(c *Page) bool {
	switch c.Rec {
	case RecSplitMerge:
		return true
	case RecSplit, RecEmpty:
		return !c.Dirty()
	default:
		return false
	}
}
