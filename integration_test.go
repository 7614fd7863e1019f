package btevict_test

import (
	"testing"

	"github.com/xmorgan/btevict"
	"github.com/xmorgan/btevict/internal/testutil"
)

func TestEvict_RandomCleanLeaf(t *testing.T) {
	leaf := testutil.RandomLeaf()
	btevict.NewInternal(btevict.IntRow, leaf)

	sess := btevict.NewEvictSession(btevict.NewHazardSlab(1, 4))
	hooks := &testutil.FakeHooks{}
	rec := &testutil.FakeReconciler{}
	bm := &testutil.FakeBlockManager{}

	if err := btevict.Evict(nil, leaf, 0, sess, rec, bm, hooks); err != nil {
		t.Fatalf("Evict() = %v, want nil", err)
	}
	if leaf.ParentRef().State() != btevict.StateDisk {
		t.Errorf("state = %v, want disk", leaf.ParentRef().State())
	}
	if len(rec.Calls) != 0 {
		t.Errorf("Reconcile called for a clean leaf")
	}
}

func TestEvict_RandomDirtyLeafReplace(t *testing.T) {
	leaf := testutil.RandomLeaf()
	btevict.NewInternal(btevict.IntRow, leaf)
	leaf.MarkDirty()

	addr := testutil.RandomAddr(16)
	sess := btevict.NewEvictSession(btevict.NewHazardSlab(1, 4))
	hooks := &testutil.FakeHooks{}
	rec := &testutil.FakeReconciler{Outcome: btevict.RecReplace, Addr: addr}
	bm := &testutil.FakeBlockManager{}

	if err := btevict.Evict(nil, leaf, 0, sess, rec, bm, hooks); err != nil {
		t.Fatalf("Evict() = %v, want nil", err)
	}
	if leaf.ParentRef().State() != btevict.StateDisk {
		t.Errorf("state = %v, want disk", leaf.ParentRef().State())
	}
	if len(leaf.ParentRef().Addr().Bytes) != 16 {
		t.Errorf("addr size = %d, want 16", len(leaf.ParentRef().Addr().Bytes))
	}
}

func TestEvict_RandomInternalAllChildrenMergeable(t *testing.T) {
	parent := testutil.RandomInternal(5)
	for i := range parent.Children {
		if child := parent.Children[i].Page(); child != nil {
			child.Rec = btevict.RecSplitMerge
		}
	}
	btevict.NewInternal(btevict.IntRow, parent)

	sess := btevict.NewEvictSession(btevict.NewHazardSlab(1, 4))
	hooks := &testutil.FakeHooks{}
	rec := &testutil.FakeReconciler{}
	bm := &testutil.FakeBlockManager{}

	if err := btevict.Evict(nil, parent, 0, sess, rec, bm, hooks); err != nil {
		t.Fatalf("Evict() = %v, want nil", err)
	}
	if parent.ParentRef().State() != btevict.StateDisk {
		t.Errorf("state = %v, want disk", parent.ParentRef().State())
	}
	// every child merges in alongside the parent.
	if len(hooks.PagedOut) != 6 {
		t.Errorf("PageOut calls = %d, want 6 (parent plus 5 merged children)", len(hooks.PagedOut))
	}
}

func TestEvict_RandomInternalOneUnmergeableChildAborts(t *testing.T) {
	parent := testutil.RandomInternal(3)
	btevict.NewInternal(btevict.IntRow, parent)

	sess := btevict.NewEvictSession(btevict.NewHazardSlab(1, 4))
	hooks := &testutil.FakeHooks{}
	rec := &testutil.FakeReconciler{}
	bm := &testutil.FakeBlockManager{}

	// children carry no REC flags by construction, so the very first
	// one fails the cheap mergeability test and the whole walk aborts.
	err := btevict.Evict(nil, parent, 0, sess, rec, bm, hooks)
	if err == nil {
		t.Fatal("Evict() = nil, want an unmergeable-child error")
	}
	if parent.ParentRef().State() != btevict.StateMem {
		t.Errorf("state = %v, want restored to mem", parent.ParentRef().State())
	}
	if len(hooks.PagedOut) != 0 {
		t.Errorf("PageOut called on an aborted eviction")
	}
}

func TestEvict_ReconcilerErrorPropagatesAndUnlocks(t *testing.T) {
	leaf := testutil.RandomLeaf()
	btevict.NewInternal(btevict.IntRow, leaf)
	leaf.MarkDirty()

	sess := btevict.NewEvictSession(btevict.NewHazardSlab(1, 4))
	hooks := &testutil.FakeHooks{}
	wantErr := errFake{}
	rec := &testutil.FakeReconciler{Err: wantErr}
	bm := &testutil.FakeBlockManager{}

	err := btevict.Evict(nil, leaf, 0, sess, rec, bm, hooks)
	if err == nil {
		t.Fatal("Evict() = nil, want the reconciler's error wrapped")
	}
	if leaf.ParentRef().State() != btevict.StateMem {
		t.Errorf("state = %v, want restored to mem after a reconcile failure", leaf.ParentRef().State())
	}
}

type errFake struct{}

func (errFake) Error() string { return "reconcile failed" }
