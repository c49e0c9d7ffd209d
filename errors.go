package sptr

import (
	"github.com/pkg/errors"
)

// Common errors
var (
	// ErrOutOfMemory indicates a control block could not be allocated.
	// The adopted payload has already been released when this is returned.
	ErrOutOfMemory = errors.New("sptr: out of memory")

	// ErrNullDereference indicates an empty handle was dereferenced.
	ErrNullDereference = errors.New("sptr: dereference of empty handle")

	// ErrLeakedBlock indicates a tracked control block is still live.
	ErrLeakedBlock = errors.New("sptr: control block not reclaimed")
)
