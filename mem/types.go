package mem

import "github.com/gpukit/gpumem/device"

// Region describes a contiguous span of items in the backing store.
// Off and Len are in item units, not bytes.
type Region struct {
	Off int
	Len int
}

// End returns the first item offset past the region.
func (r Region) End() int { return r.Off + r.Len }

// Address is an opaque, copyable handle to one live allocation. It resolves
// through the engine's slot table, so it stays valid across compaction and
// optimization until the allocation is freed. The zero Address is invalid.
type Address struct {
	index uint32
	gen   uint32
}

// Strategy selects how Optimize repacks live regions.
type Strategy int

const (
	// Truncate keeps the current relative order of live regions and drops
	// all unused capacity, host- and device-side.
	Truncate Strategy = iota

	// SortSizeDescending repacks live regions from longest to shortest.
	// Ties keep their original relative order.
	SortSizeDescending

	// SortSizeAscending repacks live regions from shortest to longest.
	// Ties keep their original relative order.
	SortSizeAscending
)

func (s Strategy) String() string {
	switch s {
	case Truncate:
		return "Truncate"
	case SortSizeDescending:
		return "SortSizeDescending"
	case SortSizeAscending:
		return "SortSizeAscending"
	default:
		return "Unknown"
	}
}

// View describes the byte range of the device buffer holding the most
// recently uploaded content, for building rendering bindings.
type View struct {
	Buffer device.BufferID
	Bytes  int
}

// Stats holds engine counters for instrumentation and tests.
type Stats struct {
	Allocs     int   // Allocate calls that succeeded
	Frees      int   // Free calls that succeeded
	Resizes    int   // Resize calls that changed a region
	Relocs     int   // resizes that had to move the region
	Grows      int   // backing store extensions
	GrownItems int   // total items added by extensions
	MovedBytes int64 // bytes shifted by compaction
	Uploads    int   // Upload calls that transferred data
	Optimizes  int   // Optimize calls that completed
}
