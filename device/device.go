package device

import "errors"

var (
	// ErrUnknownBuffer indicates a BufferID that this device did not issue,
	// or one invalidated by a later CreateOrResize call.
	ErrUnknownBuffer = errors.New("device: unknown buffer")

	// ErrWriteOutOfRange indicates a write extending past the buffer capacity.
	ErrWriteOutOfRange = errors.New("device: write out of range")

	// ErrBadCapacity indicates a negative buffer capacity.
	ErrBadCapacity = errors.New("device: capacity must be non-negative")
)

// Usage is a bitmask describing how a device buffer will be bound.
type Usage uint32

const (
	UsageVertex Usage = 1 << iota
	UsageIndex
	UsageUniform
	UsageStorage
	UsageIndirect
	// UsageCopyDst marks the buffer as a copy destination. The allocator
	// adds it implicitly since it only ever fills buffers via Write.
	UsageCopyDst
)

// BufferID identifies one device buffer. The zero BufferID is never issued.
type BufferID uint64

// Device is everything the allocator core needs from a buffer owner.
//
// Both methods are synchronous from the caller's point of view; Write is
// allowed to enqueue the actual copy as long as later writes to the same
// buffer observe program order.
type Device interface {
	// CreateOrResize (re)allocates a fixed-capacity buffer and returns its
	// id. Any id previously issued by this device is invalidated.
	CreateOrResize(capacity int, usage Usage) (BufferID, error)

	// Write copies data into the buffer at the given byte offset.
	Write(id BufferID, off int, data []byte) error
}
