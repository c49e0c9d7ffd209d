package sptr

import (
	"fmt"
	"reflect"
)

// Weak observes a payload owned by Shared handles without keeping it alive.
//
// The zero value is an empty handle. Like Shared, a Weak must be duplicated
// with Clone and released with Reset.
type Weak[T any] struct {
	ptr T
	cb  controlBlock
}

// NewWeak returns a weak handle observing s's payload. It is empty if s is.
func NewWeak[T any](s Shared[T]) Weak[T] {
	if s.cb == nil {
		return Weak[T]{}
	}
	addWeak(s.cb)
	return Weak[T]{ptr: s.ptr, cb: s.cb}
}

// UseCount returns the number of strong references to the observed payload.
func (w Weak[T]) UseCount() int64 {
	return useCount(w.cb)
}

// Expired reports whether the payload has been disposed, or was never there.
func (w Weak[T]) Expired() bool {
	return w.UseCount() == 0
}

// Lock returns a new strong handle to the payload, or an empty handle if the
// payload has already been disposed.
func (w Weak[T]) Lock() Shared[T] {
	if w.cb == nil {
		return Shared[T]{}
	}
	if !tryAddStrong(w.cb) {
		if l := Logger().V(LogTrace); l.Enabled() {
			l.Info("upgrade of expired weak handle", "type", reflect.TypeFor[T]().String())
		}
		return Shared[T]{}
	}
	return Shared[T]{ptr: w.ptr, cb: w.cb}
}

func (w Weak[T]) owner() controlBlock {
	return w.cb
}

// Clone returns another weak handle to the same control block.
func (w Weak[T]) Clone() Weak[T] {
	if w.cb != nil {
		addWeak(w.cb)
	}
	return w
}

// Move transfers the weak reference to the returned handle and empties w.
func (w *Weak[T]) Move() Weak[T] {
	out := *w
	*w = Weak[T]{}
	return out
}

// Reset drops the weak reference and leaves w empty.
func (w *Weak[T]) Reset() {
	old := w.Move()
	if old.cb != nil {
		releaseWeak(old.cb)
	}
}

// Swap exchanges the contents of w and other.
func (w *Weak[T]) Swap(other *Weak[T]) {
	*w, *other = *other, *w
}

// Assign makes w observe what other observes.
func (w *Weak[T]) Assign(other Weak[T]) {
	tmp := other.Clone()
	w.Swap(&tmp)
	tmp.Reset()
}

// AssignShared makes w observe s's payload.
func (w *Weak[T]) AssignShared(s Shared[T]) {
	tmp := NewWeak(s)
	w.Swap(&tmp)
	tmp.Reset()
}

// MoveFrom transfers other's weak reference into w. other is left empty.
func (w *Weak[T]) MoveFrom(other *Weak[T]) {
	tmp := other.Move()
	w.Swap(&tmp)
	tmp.Reset()
}

func (w Weak[T]) String() string {
	if w.cb == nil {
		return fmt.Sprintf("Weak[%s](empty)", reflect.TypeFor[T]())
	}
	return fmt.Sprintf("Weak[%s](%s, use=%d, weak=%d)",
		reflect.TypeFor[T](), w.cb.kind(), useCount(w.cb), weakCount(w.cb))
}
