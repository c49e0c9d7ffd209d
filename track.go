package sptr

import (
	"reflect"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/obinnaokechukwu/sptr/internal/handles"
)

// BlockInfo describes a tracked control block that has not been reclaimed.
type BlockInfo struct {
	ID   uint64
	Kind string
	Type string
}

var tracking atomic.Bool

// SetTracking enables or disables registration of new control blocks.
// Blocks created while tracking is enabled stay registered until they are
// reclaimed, even if tracking is disabled in the meantime.
//
// Tracking takes a global lock per block; it is meant for tests and debugging.
func SetTracking(enabled bool) {
	tracking.Store(enabled)
}

// LiveBlocks returns the tracked blocks that have not been reclaimed, oldest first.
func LiveBlocks() []BlockInfo {
	snap := handles.Snapshot()
	out := make([]BlockInfo, len(snap))
	for i, e := range snap {
		out[i] = BlockInfo{ID: e.ID, Kind: e.Kind, Type: e.Type}
	}
	return out
}

// CheckLeaks returns an error wrapping ErrLeakedBlock for every tracked block
// that has not been reclaimed, or nil if there are none.
func CheckLeaks() error {
	var result *multierror.Error
	for _, b := range LiveBlocks() {
		result = multierror.Append(result,
			errors.Wrapf(ErrLeakedBlock, "block %d (%s %s)", b.ID, b.Kind, b.Type))
	}
	if err := result.ErrorOrNil(); err != nil {
		Logger().Error(err, "leaked control blocks", "count", result.Len())
		return err
	}
	return nil
}

// allocBlock reserves budget for a new block and registers it when tracking
// is on. The returned ID is zero for untracked blocks.
func allocBlock[T any](kind string) (uint64, error) {
	if err := reserveBlock(); err != nil {
		return 0, err
	}
	if !tracking.Load() {
		return 0, nil
	}
	return handles.Register(kind, reflect.TypeFor[T]().String()), nil
}

// freeBlock undoes allocBlock.
func freeBlock(id uint64) {
	if id != 0 {
		handles.Unregister(id)
	}
	unreserveBlock()
}
