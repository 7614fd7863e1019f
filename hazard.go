package btevict

import (
	"sort"
	"sync/atomic"
	"unsafe"
)

// hazardSlot is one (session, page) publication point. It uses the
// same atomic.Pointer[Page] type Ref uses for its page field, so
// publishing a hazard and locking an edge race on comparable atomics.
type hazardSlot struct {
	page atomic.Pointer[Page]
}

// HazardSlab is the connection-wide matrix of hazard-pointer slots:
// sessions x slots-per-session, per spec.md section 4.6. Each row is a
// session's private slot array; a reader publishes into its own row
// without contending with other sessions, and the evictor scans the
// whole matrix to build a snapshot.
type HazardSlab struct {
	guard           spinLatch
	rows            []sessionRow
	slotsPerSession int
}

type sessionRow struct {
	owned    bool
	occupied uint32 // bit i set => slots[i] holds a published hazard
	slots    []hazardSlot
}

// NewHazardSlab allocates a slab with room for the given number of
// concurrent sessions, each with slotsPerSession hazard slots. A
// slotsPerSession of zero uses DefaultSlotsPerSession.
func NewHazardSlab(sessions, slotsPerSession int) *HazardSlab {
	if slotsPerSession <= 0 {
		slotsPerSession = DefaultSlotsPerSession
	}
	if slotsPerSession > 32 {
		// occupied is a uint32 bitmask; see Session.Hazard.
		slotsPerSession = 32
	}
	h := &HazardSlab{rows: make([]sessionRow, sessions), slotsPerSession: slotsPerSession}
	for i := range h.rows {
		h.rows[i].slots = make([]hazardSlot, slotsPerSession)
	}
	return h
}

// Session is a reader's handle into its row of the hazard slab. It is
// the minimal reader-side shim this core needs to drive and test the
// store-load handshake in spec.md section 4.2; the full reader
// (cursor traversal, page loading) lives outside this core.
type Session struct {
	slab *HazardSlab
	row  int
}

// Register claims an unused row of the slab for a new session.
func (h *HazardSlab) Register() *Session {
	h.guard.lock()
	defer h.guard.unlock()
	for i := range h.rows {
		if !h.rows[i].owned {
			h.rows[i].owned = true
			return &Session{slab: h, row: i}
		}
	}
	panic("btevict: hazard slab exhausted")
}

// Unregister releases the session's row back to the slab. The caller
// must have released every hazard it published first.
func (h *HazardSlab) Unregister(s *Session) {
	h.guard.lock()
	defer h.guard.unlock()
	row := &h.rows[s.row]
	row.owned = false
	row.occupied = 0
}

// Hazard publishes p into an unused slot of the session's row and
// returns the slot index. Per spec.md section 4.2, the reader must
// re-check the owning Ref's state after this call returns, since the
// publish and the evictor's LOCKED store race.
func (s *Session) Hazard(p *Page) int {
	row := &s.slab.rows[s.row]
	for i := 0; i < len(row.slots); i++ {
		bit := uint32(1) << uint(i)
		if fetchAndOrUint32(&row.occupied, bit)&bit == 0 {
			row.slots[i].page.Store(p)
			return i
		}
	}
	panic("btevict: session has no free hazard slot")
}

// Release withdraws the hazard published at slot.
func (s *Session) Release(slot int) {
	row := &s.slab.rows[s.row]
	row.slots[slot].page.Store(nil)
	fetchAndAndUint32(&row.occupied, ^(uint32(1) << uint(slot)))
}

// snapshot is the per-evicting-session scratch buffer build
// rebuilds on every retry (spec.md section 4.6 and section 9).
type snapshot struct {
	pages []uintptr
}

func pageAddr(p *Page) uintptr {
	return uintptr(unsafe.Pointer(p))
}

// build visits every slot in the slab, skips empty entries, and
// produces the scratch buffer sorted by raw page address so contains
// can binary-search it. The backing array is reused across calls.
func (snap *snapshot) build(h *HazardSlab) {
	pages := snap.pages[:0]
	for i := range h.rows {
		row := &h.rows[i]
		for j := range row.slots {
			if p := row.slots[j].page.Load(); p != nil {
				pages = append(pages, pageAddr(p))
			}
		}
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i] < pages[j] })
	snap.pages = pages
}

// contains binary-searches the sorted snapshot for p's address. The
// search follows the same low/high-converge-on-"good" shape as the
// teacher's slotted-page FindSlot, adapted from a key comparison to a
// raw pointer-address comparison.
func (snap *snapshot) contains(p *Page) bool {
	if p == nil {
		return false
	}
	target := pageAddr(p)
	lo, hi := 0, len(snap.pages)
	for lo < hi {
		mid := lo + (hi-lo)/2
		if snap.pages[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo < len(snap.pages) && snap.pages[lo] == target
}
