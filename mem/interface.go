package mem

import "github.com/gpukit/gpumem/device"

// Device is a type alias for the collaborator contract defined in the device
// package. The engine only ever asks it to (re)allocate the buffer and to
// copy bytes into it.
type Device = device.Device

// Usage aliases the device buffer usage bitmask.
type Usage = device.Usage

// BufferID aliases the device buffer identifier.
type BufferID = device.BufferID

// Memory is the full operation set of an allocator engine.
//
// Implementations:
//   - Simple: free-list engine with deferred compaction
//
// Managed wraps a Memory but is not one itself: its handles are
// reference-counted Refs rather than plain Addresses.
type Memory[T any] interface {
	// Allocate reserves a span of count items and returns its address.
	Allocate(count int) (Address, error)

	// Get returns a mutable view over exactly the address's current region.
	// The engine treats the call as a signal that mutation may occur. The
	// slice is invalidated by any subsequent engine operation.
	Get(addr Address) ([]T, error)

	// Resize grows or shrinks the allocation at addr to n items, preserving
	// the first min(old, n) items and the address itself.
	Resize(addr Address, n int) error

	// Free returns the allocation's region to the free list. No data moves.
	Free(addr Address) error

	// Len returns the total number of live items.
	Len() int

	// LenOf returns the item count of one allocation.
	LenOf(addr Address) (int, error)

	// Size returns Len() in bytes.
	Size() int

	// IsEmpty reports whether nothing is allocated.
	IsEmpty() bool

	// Mutated reports whether anything changed since the last Upload.
	Mutated() bool

	// Upload compacts live regions into a contiguous prefix and transfers
	// it to the device, growing the device buffer first if needed. A no-op
	// when nothing is dirty.
	Upload(dev Device) error

	// Optimize rebuilds the backing store to its minimal size, repacking
	// live regions per strategy, and reallocates the device buffer to match.
	// This is the only path that shrinks device-side capacity.
	Optimize(dev Device, strategy Strategy) error

	// Buffer returns the device buffer id from the most recent Upload or
	// Optimize, or 0 before the first transfer.
	Buffer() BufferID

	// BufferView returns the byte range transferred by the most recent
	// Upload or Optimize.
	BufferView() View
}
