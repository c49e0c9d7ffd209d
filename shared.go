package sptr

import (
	"fmt"
	"reflect"
)

// Shared is a reference-counted owning handle to a payload of type T.
//
// The zero value is an empty handle. A non-empty handle holds one strong
// reference on its control block; the payload is disposed when the last
// strong reference is dropped.
//
// Copying a Shared with Go assignment does NOT add a reference. Use Clone to
// obtain a second owner and Move to transfer ownership. Every owner must
// eventually call Reset.
type Shared[T any] struct {
	ptr T
	cb  controlBlock
}

// Handle is implemented by Shared, Weak and ReadOnly handles of any type.
type Handle interface {
	UseCount() int64
	owner() controlBlock
}

// Null returns an empty handle.
func Null[T any]() Shared[T] {
	return Shared[T]{}
}

// New adopts p and releases it with DefaultDeleter when the last strong
// reference is dropped. A nil p yields an empty handle.
//
// If the control block cannot be allocated, p is released before the error
// is returned.
func New[T any](p T) (Shared[T], error) {
	return NewWithDeleter(p, DefaultDeleter[T])
}

// NewWithDeleter adopts p and releases it with d when the last strong
// reference is dropped. A nil d means DefaultDeleter. A nil p yields an empty
// handle and d is never called.
//
// If the control block cannot be allocated, d(p) runs before the error is
// returned.
func NewWithDeleter[T any](p T, d Deleter[T]) (Shared[T], error) {
	if isNil(p) {
		return Shared[T]{}, nil
	}
	if d == nil {
		d = DefaultDeleter[T]
	}

	id, err := allocBlock[T](kindPointer)
	if err != nil {
		d(p)
		return Shared[T]{}, err
	}

	b := &ptrBlock[T]{ptr: p, deleter: d, id: id}
	b.init()
	statCreated.Add(1)
	return Shared[T]{ptr: p, cb: b}, nil
}

// Get returns the payload, or the zero value of T if the handle is empty.
func (s Shared[T]) Get() T {
	return s.ptr
}

// Valid reports whether the handle is non-empty.
func (s Shared[T]) Valid() bool {
	return s.cb != nil
}

// UseCount returns the number of strong references to the payload, or 0 for
// an empty handle. The value is a snapshot; other goroutines may change it.
func (s Shared[T]) UseCount() int64 {
	return useCount(s.cb)
}

// WeakCount returns the number of weak handles observing the payload.
func (s Shared[T]) WeakCount() int64 {
	return weakCount(s.cb)
}

func (s Shared[T]) owner() controlBlock {
	return s.cb
}

// Clone returns a new owner of the same payload.
func (s Shared[T]) Clone() Shared[T] {
	if s.cb != nil {
		addStrong(s.cb)
	}
	return s
}

// Move transfers ownership to the returned handle and empties s.
func (s *Shared[T]) Move() Shared[T] {
	out := *s
	*s = Shared[T]{}
	return out
}

// Reset drops the handle's reference and leaves it empty.
func (s *Shared[T]) Reset() {
	old := s.Move()
	if old.cb != nil {
		releaseStrong(old.cb)
	}
}

// ResetTo replaces the payload with p, released by DefaultDeleter.
// On error s is unchanged.
func (s *Shared[T]) ResetTo(p T) error {
	return s.ResetWithDeleter(p, DefaultDeleter[T])
}

// ResetWithDeleter replaces the payload with p, released by d. The previous
// reference is dropped only after the replacement is in place. On error s is
// unchanged and p has been released.
func (s *Shared[T]) ResetWithDeleter(p T, d Deleter[T]) error {
	tmp, err := NewWithDeleter(p, d)
	if err != nil {
		return err
	}
	s.Swap(&tmp)
	tmp.Reset()
	return nil
}

// Assign makes s another owner of other's payload, dropping what s held.
func (s *Shared[T]) Assign(other Shared[T]) {
	tmp := other.Clone()
	s.Swap(&tmp)
	tmp.Reset()
}

// MoveFrom transfers other's ownership into s, dropping what s held.
// other is left empty.
func (s *Shared[T]) MoveFrom(other *Shared[T]) {
	tmp := other.Move()
	s.Swap(&tmp)
	tmp.Reset()
}

// Swap exchanges the contents of s and other.
func (s *Shared[T]) Swap(other *Shared[T]) {
	*s, *other = *other, *s
}

// Weak returns a weak handle observing s.
func (s Shared[T]) Weak() Weak[T] {
	return NewWeak(s)
}

func (s Shared[T]) String() string {
	if s.cb == nil {
		return fmt.Sprintf("Shared[%s](empty)", reflect.TypeFor[T]())
	}
	return fmt.Sprintf("Shared[%s](%s, use=%d, weak=%d)",
		reflect.TypeFor[T](), s.cb.kind(), useCount(s.cb), weakCount(s.cb))
}

// Deref returns a copy of the value s points at.
// It returns ErrNullDereference if s is empty.
func Deref[V any](s Shared[*V]) (V, error) {
	if s.cb == nil || s.ptr == nil {
		var zero V
		return zero, ErrNullDereference
	}
	return *s.ptr, nil
}

// SameOwner reports whether a and b share a control block.
// Empty handles have no owner.
func SameOwner(a, b Handle) bool {
	ca, cbb := a.owner(), b.owner()
	return ca != nil && ca == cbb
}

// isNil reports whether p is nil, including a nil pointer held in an
// interface.
func isNil[T any](p T) bool {
	v := reflect.ValueOf(&p).Elem()
	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return true
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}
