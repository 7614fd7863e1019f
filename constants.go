package btevict

// DefaultSlotsPerSession is the number of hazard-pointer slots reserved
// per session when a hazard slab is built with no explicit size.
const DefaultSlotsPerSession = 8

// MaxRootSplitCascade bounds the recursive re-reconciliation performed
// by a root-SPLIT commit (spec.md section 9, open question 2). The block
// manager's addresses are finite-width in practice, so reconciliation
// eventually produces a REPLACE; this is a defensive backstop against a
// misbehaving Reconciler that never terminates the cascade.
const MaxRootSplitCascade = 64
