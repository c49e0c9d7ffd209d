//go:build !ios && !android && !windows && (amd64 || arm64)

// Package cmem provides reference-counted buffers allocated from the C heap.
//
// The garbage collector never frees C memory, so a Buffer is only released
// when the last sptr.Shared handle to it is dropped.
package cmem

import (
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/obinnaokechukwu/sptr"
	"github.com/obinnaokechukwu/sptr/internal/bindings"
)

// ErrInvalidSize indicates a negative or zero allocation size.
var ErrInvalidSize = errors.New("cmem: invalid allocation size")

// Buffer is a block of C memory.
type Buffer struct {
	ptr  unsafe.Pointer
	size int
}

// Usage reports C memory currently held by live buffers.
type Usage struct {
	Buffers int
	Bytes   int64
}

var (
	outstandingCount atomic.Int64
	outstandingBytes atomic.Int64
)

// Init loads the C library. It is called by Alloc and Calloc, but can be
// called explicitly to check for errors. It is safe to call multiple times.
func Init() error {
	return bindings.Load()
}

// Alloc returns a shared handle to size bytes of uninitialized C memory.
func Alloc(size int) (sptr.Shared[*Buffer], error) {
	return alloc(size, false)
}

// Calloc returns a shared handle to size bytes of zeroed C memory.
func Calloc(size int) (sptr.Shared[*Buffer], error) {
	return alloc(size, true)
}

func alloc(size int, zero bool) (sptr.Shared[*Buffer], error) {
	if size <= 0 {
		return sptr.Shared[*Buffer]{}, errors.Wrapf(ErrInvalidSize, "%d", size)
	}
	if err := Init(); err != nil {
		return sptr.Shared[*Buffer]{}, err
	}

	var (
		p   unsafe.Pointer
		err error
	)
	if zero {
		p, err = bindings.Calloc(1, uintptr(size))
	} else {
		p, err = bindings.Malloc(uintptr(size))
	}
	if err != nil {
		return sptr.Shared[*Buffer]{}, err
	}
	if p == nil {
		return sptr.Shared[*Buffer]{}, errors.Wrapf(sptr.ErrOutOfMemory, "allocating %d bytes", size)
	}

	outstandingCount.Add(1)
	outstandingBytes.Add(int64(size))

	// If the control block cannot be allocated the deleter frees p.
	return sptr.NewWithDeleter(&Buffer{ptr: p, size: size}, freeBuffer)
}

func freeBuffer(b *Buffer) {
	if b.ptr == nil {
		return
	}
	bindings.Free(b.ptr)
	outstandingCount.Add(-1)
	outstandingBytes.Add(-int64(b.size))
	b.ptr = nil
	b.size = 0
}

// Outstanding returns the number and total size of buffers not yet freed.
func Outstanding() Usage {
	return Usage{
		Buffers: int(outstandingCount.Load()),
		Bytes:   outstandingBytes.Load(),
	}
}

// Len returns the buffer size in bytes, or 0 after the buffer was freed.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return b.size
}

// Pointer returns the start of the C memory, or nil after the buffer was freed.
func (b *Buffer) Pointer() unsafe.Pointer {
	if b == nil {
		return nil
	}
	return b.ptr
}

// Bytes returns a slice aliasing the C memory. The slice must not be used
// after the last strong handle to the buffer is dropped.
func (b *Buffer) Bytes() []byte {
	if b == nil || b.ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(b.ptr), b.size)
}
