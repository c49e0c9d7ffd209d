package sptr

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

// BlockUsageInfo reports how many control blocks are currently live.
type BlockUsageInfo struct {
	LiveBlocks int64
	Limit      int64
}

// Stats are cumulative lifecycle counters for all control blocks.
type Stats struct {
	// Created counts blocks handed out to a Shared handle.
	Created int64
	// Disposed counts payload disposals (strong count reached zero).
	Disposed int64
	// Destroyed counts block reclamations (both counts reached zero).
	Destroyed int64
	// Upgrades counts successful Weak.Lock calls.
	Upgrades int64
	// FailedUpgrades counts Weak.Lock calls that found the payload gone.
	FailedUpgrades int64
	// AllocFailures counts constructions rejected by the block limit.
	AllocFailures int64
}

var (
	blockLimit atomic.Int64
	liveBlocks atomic.Int64

	statCreated        atomic.Int64
	statDisposed       atomic.Int64
	statDestroyed      atomic.Int64
	statUpgrades       atomic.Int64
	statFailedUpgrades atomic.Int64
	statAllocFailures  atomic.Int64
)

// SetBlockLimit sets a best-effort limit on the number of live control blocks.
// Constructions beyond the limit fail with ErrOutOfMemory.
// A limit <= 0 disables enforcement.
func SetBlockLimit(n int64) {
	blockLimit.Store(n)
}

// BlockUsage returns the current live block count and limit.
func BlockUsage() BlockUsageInfo {
	return BlockUsageInfo{
		LiveBlocks: liveBlocks.Load(),
		Limit:      blockLimit.Load(),
	}
}

// Statistics returns a snapshot of the lifecycle counters.
func Statistics() Stats {
	return Stats{
		Created:        statCreated.Load(),
		Disposed:       statDisposed.Load(),
		Destroyed:      statDestroyed.Load(),
		Upgrades:       statUpgrades.Load(),
		FailedUpgrades: statFailedUpgrades.Load(),
		AllocFailures:  statAllocFailures.Load(),
	}
}

func reserveBlock() error {
	for {
		n := liveBlocks.Load()
		limit := blockLimit.Load()
		if limit > 0 && n >= limit {
			statAllocFailures.Add(1)
			return errors.Wrapf(ErrOutOfMemory, "control block limit %d reached", limit)
		}
		if liveBlocks.CompareAndSwap(n, n+1) {
			return nil
		}
	}
}

func unreserveBlock() {
	liveBlocks.Add(-1)
}
