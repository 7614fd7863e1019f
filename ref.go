package btevict

import "sync/atomic"

// RefState is the atomic state of a tree edge, per spec.md section 3.
// Transitions are restricted to the state machine in spec.md section 4.8:
// DISK -> READING -> MEM -> LOCKED -> (MEM | DISK), with LOCKED as the
// single serialization point evictors contend on (invariant 2).
type RefState uint32

const (
	// StateDisk means the edge is not resident; Page is nil and Addr
	// names the on-disk image.
	StateDisk RefState = iota
	// StateReading means a reader is loading the page from disk. The
	// reader side is out of scope for this core; eviction treats a
	// READING child as contended (spec.md section 4.4).
	StateReading
	// StateMem means the edge is resident and visible to readers.
	StateMem
	// StateLocked means the edge is resident but exclusively reserved
	// by an evictor.
	StateLocked
)

func (s RefState) String() string {
	switch s {
	case StateDisk:
		return "disk"
	case StateReading:
		return "reading"
	case StateMem:
		return "mem"
	case StateLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Ref is a tree edge: a slot in an internal page's Children array, or
// the Root edge held by a Tree. state is the single atomic
// serialization point; page and addr are published by writing them
// before the state store that makes them visible to readers (spec.md
// sections 4.2 and 5's release-publish discipline), and Go's memory
// model gives atomic loads/stores of state the synchronizes-before
// edge that makes plain writes to page/addr visible once a reader
// observes the corresponding state transition.
type Ref struct {
	state atomic.Uint32
	page  atomic.Pointer[Page]
	addr  Addr
}

// State loads the edge's current state.
func (r *Ref) State() RefState { return RefState(r.state.Load()) }

// Page loads the edge's resident page, or nil if not resident.
func (r *Ref) Page() *Page { return r.page.Load() }

// Addr returns the edge's on-disk address. Only meaningful when State
// is StateDisk, or immediately after a commit that just populated it
// ahead of publishing StateDisk.
func (r *Ref) Addr() Addr { return r.addr }

// publishDisk writes addr, clears page, then publishes StateDisk. The
// plain writes happen-before the atomic store per the package-level
// memory-ordering note on Ref.
func (r *Ref) publishDisk(addr Addr) {
	r.addr = addr
	r.page.Store(nil)
	r.state.Store(uint32(StateDisk))
}

// publishMem installs p as the resident page, wires its back-reference,
// then publishes StateMem.
func (r *Ref) publishMem(owner *Page, p *Page) {
	p.parent = owner
	p.parentRef = r
	r.page.Store(p)
	r.state.Store(uint32(StateMem))
}

// restoreMem rolls an edge back to StateMem without touching page or
// addr, used by unlock (component D) and by the fast non-blocking
// failure path of the exclusive-lock primitive (component B).
func (r *Ref) restoreMem() {
	r.state.Store(uint32(StateMem))
}

// lockUnconditional stores StateLocked without any hazard check. Used
// only in SINGLE mode, where the caller already holds tree-wide
// exclusivity and no concurrent reader can observe the transition.
func (r *Ref) lockUnconditional() {
	r.state.Store(uint32(StateLocked))
}
