package core

// Allocator hands out byte buffers for every buffer a codec or the
// compositor builds. Implementations may refuse a request, which surfaces
// as ERESOURCES.
type Allocator interface {
	Alloc(n int) ([]byte, error)
}

// HeapAllocator allocates from the Go heap and never fails.
type HeapAllocator struct{}

// Alloc returns a zeroed buffer of length n.
func (HeapAllocator) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, Error(EINVALID, "negative allocation size %d", n)
	}
	return make([]byte, n), nil
}

// BudgetAllocator allocates from the Go heap until a byte budget is used up.
// It is mainly useful for exercising out-of-resources paths.
type BudgetAllocator struct {
	Remaining int
}

// Alloc returns a zeroed buffer of length n or an ERESOURCES error if
// the remaining budget is too small.
func (ba *BudgetAllocator) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, Error(EINVALID, "negative allocation size %d", n)
	}
	if n > ba.Remaining {
		return nil, Error(ERESOURCES, "cannot allocate %d bytes, budget is %d", n, ba.Remaining)
	}
	ba.Remaining -= n
	return make([]byte, n), nil
}

// Alloc uses a, or the heap if a is nil.
func Alloc(a Allocator, n int) ([]byte, error) {
	if a == nil {
		return HeapAllocator{}.Alloc(n)
	}
	return a.Alloc(n)
}
