package sptr

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// counter records disposals of the payloads that share it.
type counter struct {
	disposed atomic.Int32
}

func (c *counter) count() int { return int(c.disposed.Load()) }

type payload struct {
	value int
	c     *counter
}

func (p *payload) Dispose() {
	if p.c != nil {
		p.c.disposed.Add(1)
	}
}

type animal interface {
	Sound() string
}

type dog struct {
	name string
	c    *counter
}

func (d *dog) Sound() string { return "woof" }

func (d *dog) Dispose() { d.c.disposed.Add(1) }

type cat struct {
	c *counter
}

func (c *cat) Sound() string { return "meow" }

func (c *cat) Dispose() { c.c.disposed.Add(1) }

func newPayload(t *testing.T, c *counter, v int) Shared[*payload] {
	t.Helper()
	s, err := New(&payload{value: v, c: c})
	require.NoError(t, err)
	return s
}

// withBlockLimit sets the block limit for the duration of a test.
func withBlockLimit(t *testing.T, n int64) {
	t.Helper()
	prev := BlockUsage().Limit
	SetBlockLimit(n)
	t.Cleanup(func() { SetBlockLimit(prev) })
}

// exhaustBlocks makes the next control block allocation fail.
func exhaustBlocks(t *testing.T) {
	t.Helper()
	hold, err := MakeShared(0)
	require.NoError(t, err)
	t.Cleanup(hold.Reset)
	withBlockLimit(t, BlockUsage().LiveBlocks)
}
