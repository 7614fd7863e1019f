package btevict

// Reconciler serializes a dirty page into a byte image (or a split),
// setting exactly one RecOutcome and populating the page's Modify
// record. Reconciliation itself, the wire/disk format it produces, and
// how it talks to the block manager are out of scope for this core
// (spec.md section 1); this core only calls Reconcile and inspects the
// page afterward.
type Reconciler interface {
	Reconcile(page *Page) error
}

// BlockManager owns the persistent address space. This core treats
// addresses as opaque and only asks to free the ones it is replacing.
type BlockManager interface {
	Free(addr Addr) error
}

// Hooks gathers the two collaborators the discard operation (component
// F) needs: resolving tracked side-allocations attached to a dirty
// page's modify record, and releasing the page's memory once nothing
// references it.
type Hooks interface {
	TrackWrapup(page *Page) error
	PageOut(page *Page)
}
