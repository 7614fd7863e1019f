package btevict

// commitClean splices page's parent edge to DISK and discards the
// page. It is the same operation whether page is the root or not: a
// clean page's edge already carries the correct addr (spec.md section
// 4.1, "Clean-commit"), so committing it is just the state transition
// plus freeing the in-memory copy. discard also sweeps up any
// descendants excl locked for merging (a clean internal page may have
// locked split-merge children); see discard's own note.
func commitClean(page *Page, hooks Hooks) error {
	ref := page.parentRef
	ref.page.Store(nil)
	ref.state.Store(uint32(StateDisk))
	return discard(page, hooks)
}

// commitReplace handles REC_REPLACE for both the root and a parent
// edge (spec.md section 4.1): free the address the edge currently
// owns, copy the new one out of the page's modify record, null the
// page, and publish DISK. Unlike discard's interpretation of "free",
// this frees through the block manager because addr here names a live
// persistent allocation, not an in-memory structure.
func commitReplace(page *Page, bm BlockManager, hooks Hooks) error {
	ref := page.parentRef
	if !ref.addr.empty() {
		if err := bm.Free(ref.addr); err != nil {
			return passthroughErr(err)
		}
	}
	ref.publishDisk(page.modify.Addr)
	return discard(page, hooks)
}

// commitParentEmpty handles REC_EMPTY on a non-root page: the page
// stays resident for a future parent eviction to merge, so this only
// releases the locks review/excl acquired (spec.md section 4.1) and
// leaves the edge untouched.
func commitParentEmpty(page, last *Page, flags EvictFlags, sess *EvictSession) error {
	unlock(page, last, sess)
	return nil
}

// commitRootEmpty handles REC_EMPTY on the root. Unlike the parent
// case there is no future parent eviction to merge an empty root into,
// so — departing from the letter of "stays resident" in favor of the
// no-orphaned-page invariant spec.md section 8 demands — this frees
// the root's address and discards the root page instead of leaving it
// reachable from nowhere. See DESIGN.md for the open-question writeup.
func commitRootEmpty(t *Tree, page *Page, bm BlockManager, hooks Hooks) error {
	if !t.Root.addr.empty() {
		if err := bm.Free(t.Root.addr); err != nil {
			return passthroughErr(err)
		}
	}
	t.Root.publishDisk(Addr{})
	return discard(page, hooks)
}

// commitParentSplit handles REC_SPLIT on a non-root page: the new page
// from the modify record becomes the edge's resident page, published
// MEM, and the old page (plus whatever it merged in) is discarded.
func commitParentSplit(page *Page, hooks Hooks) error {
	ref := page.parentRef
	owner := page.parent
	newPage := page.modify.NewPage
	ref.publishMem(owner, newPage)
	return discard(page, hooks)
}

// commitRootSplit handles REC_SPLIT on the root (spec.md section 4.1):
// the new root has no parent to later absorb it, so it must be
// reconciled immediately in its own right, recurring until
// reconciliation produces REPLACE. Each intermediate page produced by
// the cascade is queued for discard alongside the original root once
// the cascade terminates; MaxRootSplitCascade bounds the recursion per
// spec.md section 9's open question about cascade depth.
func commitRootSplit(t *Tree, page *Page, rec Reconciler, bm BlockManager, hooks Hooks) error {
	chain := []*Page{page}
	cur := page.modify.NewPage

	for depth := 0; ; depth++ {
		if depth >= MaxRootSplitCascade {
			log.V(1).Info("root split cascade exceeded bound", "depth", depth)
			return ErrRootSplitCascadeTooDeep
		}
		cur.dirty = true
		cur.Rec = RecNone
		cur.modify = nil
		if err := rec.Reconcile(cur); err != nil {
			return passthroughErr(err)
		}
		switch cur.Rec {
		case RecReplace:
			if !t.Root.addr.empty() {
				if err := bm.Free(t.Root.addr); err != nil {
					return passthroughErr(err)
				}
			}
			t.Root.publishDisk(cur.modify.Addr)
			chain = append(chain, cur)
			for _, p := range chain {
				if err := discard(p, hooks); err != nil {
					return err
				}
			}
			return nil
		case RecSplit:
			chain = append(chain, cur)
			cur = cur.modify.NewPage
		default:
			return illegalErr(ErrProtocolViolation)
		}
	}
}

// commitDirty dispatches a dirty page's reconciliation outcome to the
// applier above, special-casing root only where spec.md section 4.1
// says the root and parent cases genuinely diverge (EMPTY and SPLIT).
func commitDirty(t *Tree, page, last *Page, flags EvictFlags, sess *EvictSession, rec Reconciler, bm BlockManager, hooks Hooks) error {
	root := isRoot(page)
	switch page.Rec {
	case RecEmpty:
		if root {
			return commitRootEmpty(t, page, bm, hooks)
		}
		return commitParentEmpty(page, last, flags, sess)
	case RecReplace:
		return commitReplace(page, bm, hooks)
	case RecSplit:
		if root {
			return commitRootSplit(t, page, rec, bm, hooks)
		}
		return commitParentSplit(page, hooks)
	default:
		return illegalErr(ErrProtocolViolation)
	}
}
