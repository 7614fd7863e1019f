package btevict

import (
	"runtime"
	"sync/atomic"
)

// spinExclusive is the high bit of a spinLatch's word; the remaining
// bits count concurrent readers. A word of 0 means free.
const spinExclusive = uint32(1) << 31

// spinLatch is a lock-free shared/exclusive latch guarding the
// bookkeeping around the hazard slab (registering and retiring
// sessions): a single CAS-retry word rather than a
// mutex guarding separate exclusive/share fields, in the same
// lock-free-word idiom this package already uses for hazard-slot
// occupancy (fetchAndOrUint32/fetchAndAndUint32 below). It is not used
// for the per-Ref exclusive-lock protocol in exclusive.go, which is
// driven entirely by the edge's own atomic state field and the hazard
// snapshot rather than a latch.
type spinLatch struct {
	word atomic.Uint32
}

// lock spins until no reader or writer holds the latch, then claims it
// exclusively.
func (l *spinLatch) lock() {
	for {
		if l.word.CompareAndSwap(0, spinExclusive) {
			return
		}
		runtime.Gosched()
	}
}

func (l *spinLatch) unlock() {
	l.word.Store(0)
}

// rLock spins while the latch is exclusively held, then adds itself to
// the reader count.
func (l *spinLatch) rLock() {
	for {
		cur := l.word.Load()
		if cur&spinExclusive != 0 {
			runtime.Gosched()
			continue
		}
		if l.word.CompareAndSwap(cur, cur+1) {
			return
		}
	}
}

func (l *spinLatch) rUnlock() {
	l.word.Add(^uint32(0))
}

// fetchAndOrUint32 atomically ORs mask into *addr and returns the prior
// value. Used to claim a hazard slot by setting its bit in a session
// row's occupied mask without disturbing the other slots' bits.
func fetchAndOrUint32(addr *uint32, mask uint32) uint32 {
	for {
		old := atomic.LoadUint32(addr)
		if atomic.CompareAndSwapUint32(addr, old, old|mask) {
			return old
		}
	}
}

// fetchAndAndUint32 atomically ANDs mask into *addr and returns the
// prior value.
func fetchAndAndUint32(addr *uint32, mask uint32) uint32 {
	for {
		old := atomic.LoadUint32(addr)
		if atomic.CompareAndSwapUint32(addr, old, old&mask) {
			return old
		}
	}
}
