package sptr

import (
	"reflect"
	"unsafe"
)

// DynamicCast returns a handle to s's payload as a U if the payload's dynamic
// type is or implements U. Otherwise it returns an empty handle and leaves
// the reference count untouched.
func DynamicCast[U, T any](s Shared[T]) Shared[U] {
	if s.cb == nil {
		return Shared[U]{}
	}
	u, ok := any(s.ptr).(U)
	if !ok {
		if l := Logger().V(LogTrace); l.Enabled() {
			l.Info("dynamic cast miss", "from", reflect.TypeOf(s.ptr).String(), "to", reflect.TypeFor[U]().String())
		}
		return Shared[U]{}
	}
	addStrong(s.cb)
	return Shared[U]{ptr: u, cb: s.cb}
}

// StaticCast returns a handle to s's payload as a U, sharing s's control
// block. The conversion is not checked: it panics like an unchecked type
// assertion if the payload is not a U.
func StaticCast[U, T any](s Shared[T]) Shared[U] {
	if s.cb == nil {
		return Shared[U]{}
	}
	u := any(s.ptr).(U)
	addStrong(s.cb)
	return Shared[U]{ptr: u, cb: s.cb}
}

// Convert moves s's reference into a handle of type U. s is left empty and
// the reference count does not change. It panics if the payload is not a U.
func Convert[U, T any](s *Shared[T]) Shared[U] {
	if s.cb == nil {
		return Shared[U]{}
	}
	u := any(s.ptr).(U)
	out := Shared[U]{ptr: u, cb: s.cb}
	*s = Shared[T]{}
	return out
}

// ConvertWeak returns a weak handle of type U observing w's control block.
// It panics if the observed payload is not a U.
func ConvertWeak[U, T any](w Weak[T]) Weak[U] {
	if w.cb == nil {
		return Weak[U]{}
	}
	u := any(w.ptr).(U)
	addWeak(w.cb)
	return Weak[U]{ptr: u, cb: w.cb}
}

// ReinterpretCast returns a handle that views s's payload memory as a U.
// The caller is responsible for U and V having compatible layouts.
func ReinterpretCast[U, V any](s Shared[*V]) Shared[*U] {
	if s.cb == nil {
		return Shared[*U]{}
	}
	addStrong(s.cb)
	return Shared[*U]{ptr: (*U)(unsafe.Pointer(s.ptr)), cb: s.cb}
}

// ReadOnly is a strong handle that only hands out copies of the payload.
// It is the read-only counterpart of Shared[*V].
type ReadOnly[V any] struct {
	ptr *V
	cb  controlBlock
}

// AsReadOnly returns a read-only owner of s's payload.
func AsReadOnly[V any](s Shared[*V]) ReadOnly[V] {
	if s.cb == nil {
		return ReadOnly[V]{}
	}
	addStrong(s.cb)
	return ReadOnly[V]{ptr: s.ptr, cb: s.cb}
}

// ConstCast returns a writable owner of r's payload.
func ConstCast[V any](r ReadOnly[V]) Shared[*V] {
	if r.cb == nil {
		return Shared[*V]{}
	}
	addStrong(r.cb)
	return Shared[*V]{ptr: r.ptr, cb: r.cb}
}

// Load returns a copy of the payload, or ErrNullDereference if r is empty.
func (r ReadOnly[V]) Load() (V, error) {
	if r.cb == nil {
		var zero V
		return zero, ErrNullDereference
	}
	return *r.ptr, nil
}

// Valid reports whether r is non-empty.
func (r ReadOnly[V]) Valid() bool { return r.cb != nil }

// UseCount returns the number of strong references to the payload.
func (r ReadOnly[V]) UseCount() int64 { return useCount(r.cb) }

func (r ReadOnly[V]) owner() controlBlock { return r.cb }

// Clone returns another read-only owner of the payload.
func (r ReadOnly[V]) Clone() ReadOnly[V] {
	if r.cb != nil {
		addStrong(r.cb)
	}
	return r
}

// Reset drops r's reference and leaves it empty.
func (r *ReadOnly[V]) Reset() {
	old := *r
	*r = ReadOnly[V]{}
	if old.cb != nil {
		releaseStrong(old.cb)
	}
}
