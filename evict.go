package btevict

// EvictFlags modifies how Evict coordinates with concurrent readers
// and other evictors (spec.md section 4.1).
type EvictFlags uint8

const (
	// EvictSingle tells Evict that the caller already holds exclusive
	// access to the whole tree, so hazard-pointer coordination and
	// failure-path unlocking can both be skipped.
	EvictSingle EvictFlags = 1 << iota
	// EvictWait tells the lock-acquisition path to spin and retry on
	// hazard contention rather than abort the eviction immediately.
	EvictWait
)

// Has reports whether flags contains bit.
func (flags EvictFlags) Has(bit EvictFlags) bool {
	return flags&bit != 0
}

// Evict is the eviction driver (component G, spec.md section 4.1): it
// locks page's subtree, reconciles if dirty, and commits the outcome,
// releasing any partial locks on failure.
func Evict(t *Tree, page *Page, flags EvictFlags, sess *EvictSession, rec Reconciler, bm BlockManager, hooks Hooks) error {
	if page.Rec == RecSplitMerge {
		page.BumpReadGen()
		if page.parentRef.State() != StateMem {
			// A concurrent evictor already holds this edge LOCKED (or
			// it is mid-install as READING); this is ordinary,
			// retryable contention, not a protocol bug, per spec.md
			// section 7's "REC_SPLIT_MERGE target" contention trigger.
			return contentionErr()
		}
		log.V(1).Info("skipping split-merge page, awaiting parent eviction")
		return nil
	}

	last, err := review(page, flags, sess)
	if err != nil {
		log.V(1).Info("review failed", "error", err)
		return err
	}

	if page.Dirty() {
		if err := rec.Reconcile(page); err != nil {
			if !flags.Has(EvictSingle) {
				unlock(page, last, sess)
			}
			return passthroughErr(err)
		}
	}

	var commitErr error
	if page.Rec == RecNone {
		commitErr = commitClean(page, hooks)
	} else {
		commitErr = commitDirty(t, page, last, flags, sess, rec, bm, hooks)
	}
	if commitErr != nil {
		if !flags.Has(EvictSingle) {
			unlock(page, last, sess)
		}
		log.V(1).Info("commit failed", "outcome", page.Rec, "error", commitErr)
		return commitErr
	}
	return nil
}
