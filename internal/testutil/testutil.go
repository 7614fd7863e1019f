// Package testutil provides fakes and random-data builders for
// exercising the eviction core without a real storage engine wired in,
// following the same gofuzz-backed helper shape as the upstream
// pkg/testutil package this core's logging and fuzz dependencies were
// sourced from.
package testutil

import (
	fuzz "github.com/google/gofuzz"

	"github.com/xmorgan/btevict"
)

var f = fuzz.New().NilChance(0).NumElements(1, 8)

// RandomAddr returns a non-empty Addr with a random byte payload,
// suitable for standing in for a reconciled page's on-disk image.
func RandomAddr(size int) btevict.Addr {
	buf := make([]byte, size)
	for i := range buf {
		f.Fuzz(&buf[i])
	}
	return btevict.Addr{Bytes: buf, Size: uint64(size)}
}

// FakeReconciler scripts a fixed outcome for every page it reconciles,
// optionally returning an injected error instead. It is the minimal
// stand-in for the external reconciler this core calls out to and
// never implements itself.
type FakeReconciler struct {
	Outcome btevict.RecOutcome
	NewPage *btevict.Page
	Addr    btevict.Addr
	Err     error

	Calls []*btevict.Page
}

func (r *FakeReconciler) Reconcile(page *btevict.Page) error {
	r.Calls = append(r.Calls, page)
	if r.Err != nil {
		return r.Err
	}
	page.SetModify(&btevict.Modify{
		Outcome: r.Outcome,
		Addr:    r.Addr,
		NewPage: r.NewPage,
	})
	return nil
}

// FakeBlockManager records every address it is asked to free. A
// non-nil Err makes every Free call fail, to exercise the commit
// applier's error propagation.
type FakeBlockManager struct {
	Err   error
	Freed []btevict.Addr
}

func (b *FakeBlockManager) Free(addr btevict.Addr) error {
	if b.Err != nil {
		return b.Err
	}
	b.Freed = append(b.Freed, addr)
	return nil
}

// FakeHooks records TrackWrapup and PageOut calls in order, so tests
// can assert discard visited exactly the pages it should have and in
// the order the recursion promises.
type FakeHooks struct {
	WrapupErr error

	Wrapped  []*btevict.Page
	PagedOut []*btevict.Page
}

func (h *FakeHooks) TrackWrapup(page *btevict.Page) error {
	if h.WrapupErr != nil {
		return h.WrapupErr
	}
	h.Wrapped = append(h.Wrapped, page)
	return nil
}

func (h *FakeHooks) PageOut(page *btevict.Page) {
	h.PagedOut = append(h.PagedOut, page)
}

// RandomLeaf returns a clean leaf page of a random row/column type.
func RandomLeaf() *btevict.Page {
	types := []btevict.PageType{btevict.LeafRow, btevict.LeafCol}
	var i uint8
	f.Fuzz(&i)
	return btevict.NewLeaf(types[int(i)%len(types)])
}

// RandomInternal builds an internal page over n freshly built random
// leaves, all published MEM, mirroring the shape review/excl expect to
// walk.
func RandomInternal(n int) *btevict.Page {
	children := make([]*btevict.Page, n)
	for i := range children {
		children[i] = RandomLeaf()
	}
	return btevict.NewInternal(btevict.IntRow, children...)
}
