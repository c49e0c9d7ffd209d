// Package sptr provides reference-counted shared ownership and weak
// observation of a payload with a deterministic release point.
//
// A Shared handle owns one strong reference on a control block; a Weak
// handle owns one weak reference. The payload is disposed exactly once, when
// the last strong reference is dropped. The control block is reclaimed
// exactly once, when both strong and weak references are gone, regardless of
// which goroutine drops the last one.
//
// Payloads are adopted with New (released by a Deleter) or built in place
// with MakeShared (one allocation for block and value). DynamicCast,
// StaticCast, ConstCast and ReinterpretCast produce handles of another type
// that share the original control block.
//
// Handles are plain values: Go assignment copies the handle without adding a
// reference. Use Clone to add an owner, Move to transfer one and Reset to
// drop one.
//
// The payload itself is not synchronized. Counting is lock-free and never
// blocks.
package sptr
