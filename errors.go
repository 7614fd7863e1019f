package btevict

import (
	"errors"
	"fmt"
)

// Code classifies the error kinds spec.md section 7 enumerates for this
// core. A zero Code means the wrapped error is a verbatim passthrough
// from an external collaborator (reconciliation or the block manager).
type Code int

const (
	// CodePassthrough marks an error propagated unmodified from
	// reconciliation or the block manager.
	CodePassthrough Code = iota
	// CodeContention marks a non-fatal hazard or lock conflict; the
	// caller should reselect a victim.
	CodeContention
	// CodeUnmergeable marks a child that cannot be absorbed yet
	// (dirty split/empty, or no mergeability flag at all); the
	// caller may retry once the child is reconciled.
	CodeUnmergeable
	// CodeIllegal marks a protocol violation (see
	// ErrProtocolViolation): a bug, not a recoverable condition.
	CodeIllegal
)

func (c Code) String() string {
	switch c {
	case CodeContention:
		return "contention"
	case CodeUnmergeable:
		return "unmergeable"
	case CodeIllegal:
		return "illegal"
	default:
		return "passthrough"
	}
}

// EvictError wraps an underlying cause with the Code that classifies it.
type EvictError struct {
	Code Code
	Err  error
}

func (e *EvictError) Error() string {
	if e.Err == nil {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *EvictError) Unwrap() error { return e.Err }

// Sentinel causes, wrapped by EvictError so callers can use errors.Is
// without inspecting Code directly.
var (
	// ErrContention is returned when hazard or lock conflict blocks
	// eviction and the caller did not ask to wait (EvictWait unset),
	// or when a split-merge page is the eviction target and its edge
	// is not MEM (another evictor holds it LOCKED, or it is READING).
	ErrContention = errors.New("evict: contention")
	// ErrUnmergeable is returned when a child cannot be folded into
	// the page being evicted.
	ErrUnmergeable = errors.New("evict: child not mergeable")
	// ErrProtocolViolation is the cause of every CodeIllegal error and
	// marks a bug, not a retry signal. The unlock walk panics with it
	// when it observes a child state other than DISK or LOCKED; the
	// lock walk and the commit applier return it for a ref state or
	// reconciliation outcome they do not handle.
	ErrProtocolViolation = errors.New("evict: protocol violation")
	// ErrRootSplitCascadeTooDeep is returned when a root-SPLIT commit
	// recurses past MaxRootSplitCascade without reaching REPLACE.
	ErrRootSplitCascadeTooDeep = errors.New("evict: root split cascade exceeded bound")
)

func contentionErr() error    { return &EvictError{Code: CodeContention, Err: ErrContention} }
func unmergeableErr() error   { return &EvictError{Code: CodeUnmergeable, Err: ErrUnmergeable} }
func illegalErr(err error) error {
	return &EvictError{Code: CodeIllegal, Err: err}
}
func passthroughErr(err error) error {
	if err == nil {
		return nil
	}
	return &EvictError{Code: CodePassthrough, Err: err}
}
