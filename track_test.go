package sptr

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackedValue struct{ n int }

func liveOfType(typ string) []BlockInfo {
	var out []BlockInfo
	for _, b := range LiveBlocks() {
		if b.Type == typ {
			out = append(out, b)
		}
	}
	return out
}

func TestTracking(t *testing.T) {
	SetTracking(true)
	defer SetTracking(false)

	inline, err := MakeShared(trackedValue{n: 1})
	require.NoError(t, err)
	adopted, err := New(&trackedValue{n: 2})
	require.NoError(t, err)

	live := liveOfType("sptr.trackedValue")
	require.Len(t, live, 1)
	assert.Equal(t, kindInline, live[0].Kind)

	live = liveOfType("*sptr.trackedValue")
	require.Len(t, live, 1)
	assert.Equal(t, kindPointer, live[0].Kind)

	err = CheckLeaks()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLeakedBlock)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.GreaterOrEqual(t, merr.Len(), 2)

	// A weak observer keeps the block registered after disposal.
	w := inline.Weak()
	inline.Reset()
	assert.Len(t, liveOfType("sptr.trackedValue"), 1)
	w.Reset()
	assert.Empty(t, liveOfType("sptr.trackedValue"))

	adopted.Reset()
	assert.Empty(t, liveOfType("*sptr.trackedValue"))
}

func TestTracking_Disabled(t *testing.T) {
	SetTracking(false)

	s, err := MakeShared(trackedValue{n: 3})
	require.NoError(t, err)
	defer s.Reset()

	assert.Empty(t, liveOfType("sptr.trackedValue"))
}

func TestTracking_InitFailureUnregisters(t *testing.T) {
	SetTracking(true)
	defer SetTracking(false)

	_, err := MakeSharedFunc(func(*trackedValue) error { return ErrNullDereference })
	require.Error(t, err)
	assert.Empty(t, liveOfType("sptr.trackedValue"))
}

func TestCheckLeaks_Clean(t *testing.T) {
	SetTracking(true)
	defer SetTracking(false)

	s, err := MakeShared(trackedValue{})
	require.NoError(t, err)
	s.Reset()

	// Other tests may leave untracked blocks around; only tracked ones count.
	for _, b := range LiveBlocks() {
		t.Logf("still live: %+v", b)
	}
	assert.Empty(t, liveOfType("sptr.trackedValue"))
}
