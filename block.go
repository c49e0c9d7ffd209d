package sptr

import (
	"fmt"
	"io"
)

const (
	kindPointer = "pointer"
	kindInline  = "inline"
)

// Deleter releases an adopted payload. It is called exactly once, by whichever
// goroutine drops the last strong reference.
type Deleter[T any] func(T)

// Disposer is implemented by payloads that release resources when the last
// strong reference goes away.
type Disposer interface {
	Dispose()
}

// DefaultDeleter is the deleter used by New. It calls Dispose if the payload
// implements Disposer, otherwise Close if it implements io.Closer. Any other
// payload is left to the garbage collector.
func DefaultDeleter[T any](p T) {
	switch v := any(p).(type) {
	case Disposer:
		v.Dispose()
	case io.Closer:
		if err := v.Close(); err != nil {
			Logger().Error(err, "closing payload", "type", fmt.Sprintf("%T", p))
		}
	}
}

// ptrBlock owns an adopted payload and the deleter that releases it.
type ptrBlock[T any] struct {
	refs
	ptr     T
	deleter Deleter[T]
	id      uint64
}

func (b *ptrBlock[T]) counts() *refs { return &b.refs }

func (b *ptrBlock[T]) kind() string { return kindPointer }

func (b *ptrBlock[T]) dispose() {
	d := b.deleter
	if d == nil {
		return
	}
	p := b.ptr
	var zero T
	b.ptr = zero
	b.deleter = nil
	if isNil(p) {
		return
	}
	d(p)
}

func (b *ptrBlock[T]) destroy() {
	freeBlock(b.id)
}

// inlineBlock stores the payload in the block itself, so one allocation
// serves both. Handles point at value.
type inlineBlock[V any] struct {
	refs
	value       V
	constructed bool
	id          uint64
}

func (b *inlineBlock[V]) counts() *refs { return &b.refs }

func (b *inlineBlock[V]) kind() string { return kindInline }

// dispose runs the payload's Dispose in place and clears the storage. The
// storage itself stays with the block until destroy.
func (b *inlineBlock[V]) dispose() {
	if !b.constructed {
		return
	}
	b.constructed = false
	if d, ok := any(&b.value).(Disposer); ok {
		d.Dispose()
	}
	var zero V
	b.value = zero
}

func (b *inlineBlock[V]) destroy() {
	freeBlock(b.id)
}
