package mem

// Managed decorates an allocator engine so allocations release themselves.
// Its handles are reference-counted Refs rather than plain Addresses: copies
// made with Retain share one count, and the Release that drops the count to
// zero frees the span in the wrapped engine.
//
// This trades a little per-call overhead for never leaking a span. Do not
// call Free on a managed engine; the references own the free lifecycle.
type Managed[T any] struct {
	inner Memory[T]
}

// Ref is a shared-ownership handle to one managed allocation.
type Ref[T any] struct {
	addr  Address
	owner *Managed[T]
	count *int
}

// NewManaged wraps an engine. The wrapped engine must not be used directly
// afterwards, or explicit frees would race the reference counts' view of
// what is live.
func NewManaged[T any](inner Memory[T]) *Managed[T] {
	return &Managed[T]{inner: inner}
}

// Allocate reserves a span of count items and returns a Ref holding the
// only reference to it.
func (m *Managed[T]) Allocate(count int) (*Ref[T], error) {
	addr, err := m.inner.Allocate(count)
	if err != nil {
		return nil, err
	}
	one := 1
	return &Ref[T]{addr: addr, owner: m, count: &one}, nil
}

// Retain adds a reference and returns a new Ref sharing the same count.
func (r *Ref[T]) Retain() *Ref[T] {
	*r.count++
	return &Ref[T]{addr: r.addr, owner: r.owner, count: r.count}
}

// Release drops one reference. Releasing the last reference frees the
// allocation in the wrapped engine. Releasing more times than were retained
// reports a double free.
func (r *Ref[T]) Release() error {
	if *r.count <= 0 {
		return ErrDoubleFree
	}
	*r.count--
	if *r.count == 0 {
		return r.owner.inner.Free(r.addr)
	}
	return nil
}

// Refs returns the current shared reference count, 0 once released.
func (r *Ref[T]) Refs() int { return *r.count }

func (r *Ref[T]) live() error {
	if r == nil || r.count == nil || *r.count <= 0 {
		return ErrInvalidAddress
	}
	return nil
}

// Get returns a mutable view over the referenced region.
func (m *Managed[T]) Get(ref *Ref[T]) ([]T, error) {
	if err := ref.live(); err != nil {
		return nil, err
	}
	return m.inner.Get(ref.addr)
}

// Resize changes the referenced allocation to n items.
func (m *Managed[T]) Resize(ref *Ref[T], n int) error {
	if err := ref.live(); err != nil {
		return err
	}
	return m.inner.Resize(ref.addr, n)
}

// LenOf returns the item count of the referenced allocation.
func (m *Managed[T]) LenOf(ref *Ref[T]) (int, error) {
	if err := ref.live(); err != nil {
		return 0, err
	}
	return m.inner.LenOf(ref.addr)
}

// Free always fails: managed allocations are freed by releasing their last
// reference.
func (m *Managed[T]) Free(*Ref[T]) error { return ErrManagedFree }

// Len returns the total number of live items.
func (m *Managed[T]) Len() int { return m.inner.Len() }

// Size returns Len() in bytes.
func (m *Managed[T]) Size() int { return m.inner.Size() }

// IsEmpty reports whether nothing is allocated.
func (m *Managed[T]) IsEmpty() bool { return m.inner.IsEmpty() }

// Mutated reports whether anything changed since the last Upload.
func (m *Managed[T]) Mutated() bool { return m.inner.Mutated() }

// Upload delegates to the wrapped engine.
func (m *Managed[T]) Upload(dev Device) error { return m.inner.Upload(dev) }

// Optimize delegates to the wrapped engine.
func (m *Managed[T]) Optimize(dev Device, strategy Strategy) error {
	return m.inner.Optimize(dev, strategy)
}

// Buffer returns the device buffer id from the most recent transfer.
func (m *Managed[T]) Buffer() BufferID { return m.inner.Buffer() }

// BufferView returns the byte range covered by the most recent transfer.
func (m *Managed[T]) BufferView() View { return m.inner.BufferView() }
