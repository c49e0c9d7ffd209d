package sptr

// MakeShared stores a copy of v in a new control block and returns a handle
// pointing at it. Block and payload share a single allocation.
func MakeShared[V any](v V) (Shared[*V], error) {
	return MakeSharedFunc(func(p *V) error {
		*p = v
		return nil
	})
}

// MakeSharedFunc allocates a control block with inline storage for a V and
// calls init to construct the value in place. A nil init leaves the zero value.
//
// If init returns an error or panics the block is released without disposing
// the value; the error is returned unchanged and a panic propagates.
func MakeSharedFunc[V any](init func(*V) error) (Shared[*V], error) {
	id, err := allocBlock[V](kindInline)
	if err != nil {
		return Shared[*V]{}, err
	}

	b := &inlineBlock[V]{id: id}
	defer func() {
		if !b.constructed {
			freeBlock(id)
		}
	}()
	if init != nil {
		if err := init(&b.value); err != nil {
			return Shared[*V]{}, err
		}
	}
	b.constructed = true
	b.init()
	statCreated.Add(1)
	return Shared[*V]{ptr: &b.value, cb: b}, nil
}
