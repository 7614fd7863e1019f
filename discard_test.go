package btevict

import (
	"errors"
	"testing"
)

// recordingHooks is a minimal in-package Hooks fake. discard is
// unexported, so its tests live in this package and cannot reach the
// exported internal/testutil fakes without an import cycle; the
// integration-level tests that exercise Evict end to end use those
// instead.
type recordingHooks struct {
	wrapupErr error
	wrapped   []*Page
	pagedOut  []*Page
}

func (h *recordingHooks) TrackWrapup(page *Page) error {
	if h.wrapupErr != nil {
		return h.wrapupErr
	}
	h.wrapped = append(h.wrapped, page)
	return nil
}

func (h *recordingHooks) PageOut(page *Page) {
	h.pagedOut = append(h.pagedOut, page)
}

func TestDiscard_LeafAlwaysPagesOutTrackedOnlyIfModified(t *testing.T) {
	hooks := &recordingHooks{}
	leaf := NewLeaf(LeafRow)

	if err := discard(leaf, hooks); err != nil {
		t.Fatalf("discard() = %v, want nil", err)
	}
	if len(hooks.wrapped) != 0 {
		t.Errorf("TrackWrapup called for a page with no modify record")
	}
	if len(hooks.pagedOut) != 1 || hooks.pagedOut[0] != leaf {
		t.Errorf("PageOut calls = %v, want exactly [leaf]", hooks.pagedOut)
	}
}

func TestDiscard_TracksModifiedPage(t *testing.T) {
	hooks := &recordingHooks{}
	leaf := NewLeaf(LeafRow)
	leaf.SetModify(&Modify{Outcome: RecReplace, Addr: Addr{Bytes: []byte("x"), Size: 1}})

	if err := discard(leaf, hooks); err != nil {
		t.Fatalf("discard() = %v, want nil", err)
	}
	if len(hooks.wrapped) != 1 || hooks.wrapped[0] != leaf {
		t.Errorf("TrackWrapup calls = %v, want exactly [leaf]", hooks.wrapped)
	}
}

func TestDiscard_RecursesIntoResidentChildrenOnly(t *testing.T) {
	hooks := &recordingHooks{}
	resident := NewLeaf(LeafRow)
	locked := NewLeaf(LeafRow)
	onDisk := NewLeaf(LeafRow)
	parent := NewInternal(IntRow, resident, locked, onDisk)
	parent.Children[1].state.Store(uint32(StateLocked))
	parent.Children[2].state.Store(uint32(StateDisk))
	parent.Children[2].page.Store(nil)

	if err := discard(parent, hooks); err != nil {
		t.Fatalf("discard() = %v, want nil", err)
	}

	wantOrder := []*Page{resident, locked, parent}
	if len(hooks.pagedOut) != len(wantOrder) {
		t.Fatalf("PageOut calls = %v, want %v", hooks.pagedOut, wantOrder)
	}
	for i, p := range wantOrder {
		if hooks.pagedOut[i] != p {
			t.Errorf("PageOut[%d] = %p, want %p", i, hooks.pagedOut[i], p)
		}
	}
	for _, p := range hooks.pagedOut {
		if p == onDisk {
			t.Errorf("discard descended into a DISK child")
		}
	}
}

func TestDiscard_PropagatesTrackWrapupError(t *testing.T) {
	wantErr := errors.New("wrapup failed")
	hooks := &recordingHooks{wrapupErr: wantErr}
	leaf := NewLeaf(LeafRow)
	leaf.SetModify(&Modify{Outcome: RecReplace})

	if err := discard(leaf, hooks); !errors.Is(err, wantErr) {
		t.Fatalf("discard() = %v, want %v", err, wantErr)
	}
	if len(hooks.pagedOut) != 0 {
		t.Errorf("PageOut called despite TrackWrapup failing")
	}
}
