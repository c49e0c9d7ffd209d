package sptr

import (
	"sync/atomic"
)

// blockState is the lifecycle state of a control block.
type blockState int32

const (
	// stateLive: strong > 0, payload reachable.
	stateLive blockState = iota
	// stateDisposed: strong == 0, weak observers remain, payload gone.
	stateDisposed
	// stateReclaimed: terminal.
	stateReclaimed
)

func (s blockState) String() string {
	switch s {
	case stateLive:
		return "live"
	case stateDisposed:
		return "disposed"
	case stateReclaimed:
		return "reclaimed"
	default:
		return "unknown"
	}
}

// refs holds the two counters every control block variant embeds.
//
// weak counts the live weak references plus one held jointly by all strong
// references. The strong side gives up that reference after disposing the
// payload, so the weak counter reaches zero exactly once, after both the
// strong and the weak side are done, whichever finishes last.
type refs struct {
	strong atomic.Int64
	weak   atomic.Int64
	state  atomic.Int32
}

func (r *refs) init() {
	r.strong.Store(1)
	r.weak.Store(1)
	r.state.Store(int32(stateLive))
}

// controlBlock is implemented by the payload strategies.
type controlBlock interface {
	counts() *refs
	// kind names the strategy for diagnostics.
	kind() string
	// dispose releases the payload. Called once, when strong reaches zero.
	dispose()
	// destroy releases the block itself. Called once, after dispose, when
	// weak reaches zero.
	destroy()
}

func addStrong(cb controlBlock) {
	cb.counts().strong.Add(1)
}

func addWeak(cb controlBlock) {
	cb.counts().weak.Add(1)
}

// tryAddStrong increments the strong count only if it is non-zero.
func tryAddStrong(cb controlBlock) bool {
	r := cb.counts()
	for {
		n := r.strong.Load()
		if n == 0 {
			statFailedUpgrades.Add(1)
			return false
		}
		if r.strong.CompareAndSwap(n, n+1) {
			statUpgrades.Add(1)
			return true
		}
	}
}

// releaseStrong drops one strong reference. It reports whether the block was
// reclaimed by this call.
func releaseStrong(cb controlBlock) bool {
	r := cb.counts()
	n := r.strong.Add(-1)
	switch {
	case n > 0:
		return false
	case n < 0:
		panic("sptr: strong count released too often")
	}

	r.state.Store(int32(stateDisposed))
	cb.dispose()
	statDisposed.Add(1)
	Logger().V(LogLifecycle).Info("payload disposed", "kind", cb.kind())

	return releaseWeak(cb)
}

// releaseWeak drops one weak reference and reclaims the block when it was
// the last reference of any kind.
func releaseWeak(cb controlBlock) bool {
	r := cb.counts()
	n := r.weak.Add(-1)
	switch {
	case n > 0:
		return false
	case n < 0:
		panic("sptr: weak count released too often")
	}

	r.state.Store(int32(stateReclaimed))
	cb.destroy()
	statDestroyed.Add(1)
	Logger().V(LogLifecycle).Info("control block reclaimed", "kind", cb.kind())
	return true
}

func useCount(cb controlBlock) int64 {
	if cb == nil {
		return 0
	}
	return cb.counts().strong.Load()
}

// weakCount returns the number of weak handles, excluding the reference held
// by the strong side. Best effort under concurrent mutation.
func weakCount(cb controlBlock) int64 {
	if cb == nil {
		return 0
	}
	r := cb.counts()
	w := r.weak.Load()
	if r.strong.Load() > 0 {
		w--
	}
	if w < 0 {
		return 0
	}
	return w
}

func stateOf(cb controlBlock) blockState {
	return blockState(cb.counts().state.Load())
}
