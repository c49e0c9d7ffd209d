package sptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeak_Empty(t *testing.T) {
	var w Weak[*payload]
	assert.True(t, w.Expired())
	assert.Equal(t, int64(0), w.UseCount())
	assert.False(t, w.Lock().Valid())

	var s Shared[*payload]
	w2 := NewWeak(s)
	assert.True(t, w2.Expired())
	w2.Reset()
}

func TestWeak_DoesNotKeepPayloadAlive(t *testing.T) {
	c := &counter{}
	s := newPayload(t, c, 1)

	weaks := make([]Weak[*payload], 5)
	for i := range weaks {
		weaks[i] = s.Weak()
	}
	assert.Equal(t, int64(1), s.UseCount())
	assert.Equal(t, int64(5), s.WeakCount())

	cb := s.cb
	s.Reset()
	assert.Equal(t, 1, c.count())
	for _, w := range weaks {
		assert.True(t, w.Expired())
		assert.False(t, w.Lock().Valid())
	}
	assert.Equal(t, stateDisposed, stateOf(cb))

	for i := range weaks {
		weaks[i].Reset()
	}
	assert.Equal(t, stateReclaimed, stateOf(cb))
	assert.Equal(t, 1, c.count())
}

func TestWeak_LockIncrementsCount(t *testing.T) {
	c := &counter{}
	s := newPayload(t, c, 3)
	w := s.Weak()
	defer w.Reset()

	before := s.UseCount()
	locked := w.Lock()
	require.True(t, locked.Valid())
	assert.Equal(t, before+1, locked.UseCount())
	assert.Same(t, s.Get(), locked.Get())

	s.Reset()
	assert.False(t, w.Expired())
	assert.Equal(t, 0, c.count())

	locked.Reset()
	assert.True(t, w.Expired())
	assert.Equal(t, 1, c.count())
	assert.False(t, w.Lock().Valid())
}

func TestWeak_CopyMoveReset(t *testing.T) {
	s := newPayload(t, &counter{}, 1)
	defer s.Reset()

	w1 := s.Weak()
	w2 := w1.Clone()
	assert.Equal(t, int64(2), s.WeakCount())

	w3 := w2.Move()
	assert.True(t, w2.Expired())
	assert.False(t, w3.Expired())
	assert.Equal(t, int64(2), s.WeakCount())

	w1.Swap(&w2)
	assert.True(t, w1.Expired())
	assert.False(t, w2.Expired())

	w2.Reset()
	w3.Reset()
	assert.Equal(t, int64(0), s.WeakCount())
	assert.Equal(t, int64(1), s.UseCount())
}

func TestWeak_Assign(t *testing.T) {
	a := newPayload(t, &counter{}, 1)
	b := newPayload(t, &counter{}, 2)
	defer a.Reset()
	defer b.Reset()

	var w Weak[*payload]
	w.AssignShared(a)
	assert.Equal(t, int64(1), a.WeakCount())

	w.AssignShared(b)
	assert.Equal(t, int64(0), a.WeakCount())
	assert.Equal(t, int64(1), b.WeakCount())
	locked := w.Lock()
	assert.Equal(t, 2, locked.Get().value)
	locked.Reset()

	other := a.Weak()
	w.Assign(other)
	assert.Equal(t, int64(2), a.WeakCount())
	assert.Equal(t, int64(0), b.WeakCount())

	var moved Weak[*payload]
	moved.MoveFrom(&other)
	assert.True(t, other.Expired())
	assert.Equal(t, int64(2), a.WeakCount())

	moved.Reset()
	w.Reset()
	assert.Equal(t, int64(0), a.WeakCount())
}

func TestWeak_LastWeakReclaimsAfterDispose(t *testing.T) {
	before := Statistics()
	s := newPayload(t, &counter{}, 1)
	w := s.Weak()

	s.Reset()
	mid := Statistics()
	assert.Equal(t, before.Disposed+1, mid.Disposed)
	assert.Equal(t, before.Destroyed, mid.Destroyed)

	w.Reset()
	after := Statistics()
	assert.Equal(t, before.Destroyed+1, after.Destroyed)
}

type node struct {
	name string
	peer Weak[*node]
	c    *counter
}

func (n *node) Dispose() {
	n.peer.Reset()
	n.c.disposed.Add(1)
}

func TestWeak_BreaksCycles(t *testing.T) {
	c := &counter{}
	a, err := MakeShared(node{name: "a", c: c})
	require.NoError(t, err)
	b, err := MakeShared(node{name: "b", c: c})
	require.NoError(t, err)

	a.Get().peer = b.Weak()
	b.Get().peer = a.Weak()

	assert.Equal(t, int64(1), a.UseCount())
	assert.Equal(t, int64(1), b.UseCount())

	peer := a.Get().peer.Lock()
	assert.Equal(t, "b", peer.Get().name)
	peer.Reset()

	cbA, cbB := a.cb, b.cb
	a.Reset()
	assert.Equal(t, 1, c.count())
	b.Reset()
	assert.Equal(t, 2, c.count())

	assert.Equal(t, stateReclaimed, stateOf(cbA))
	assert.Equal(t, stateReclaimed, stateOf(cbB))
}

func TestWeak_String(t *testing.T) {
	var w Weak[*int]
	assert.Equal(t, "Weak[*int](empty)", w.String())

	s, err := MakeShared(1)
	require.NoError(t, err)
	w = s.Weak()
	defer w.Reset()
	s.Reset()
	assert.Equal(t, "Weak[*int](inline, use=0, weak=1)", w.String())
}
