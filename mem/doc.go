// Package mem manages a logically resizable, densely packed region of device
// memory on top of a fixed-capacity device buffer.
//
// # Overview
//
// The engine behaves like a small userspace heap for items of one type:
// allocate a span of items, write into it, free it, resize it. Between
// allocations the host-side backing store may contain holes; at upload time
// the engine compacts all live spans into a contiguous prefix and transfers
// exactly that prefix to the device. Handles stay valid across compaction
// because they index an indirection table rather than carrying raw offsets.
//
// The design targets workloads where many small spans churn every frame
// (per-frame instance data being the canonical case) and rebuilding the
// whole buffer each frame would be too slow.
//
// # Engines
//
// Simple: the plain engine. Allocation is first-fit over a free list of
// reclaimed spans, growing the backing store only when no span fits. Free is
// pure bookkeeping with no data movement; the expensive work is deferred
// to Upload.
//
// Managed: wraps an engine so allocations free themselves. Its handles carry
// a shared reference count; releasing the last reference frees the span in
// the wrapped engine. Go has no deterministic destructors, so dropping a
// reference is an explicit Release call.
//
// # Usage
//
//	m := mem.NewSimple[Instance](device.UsageStorage)
//
//	addr, err := m.Allocate(16)
//	if err != nil {
//	    return err
//	}
//	items, _ := m.Get(addr)
//	items[0] = Instance{...}
//
//	// Once per frame, before building bind groups:
//	if err := m.Upload(dev); err != nil {
//	    return err
//	}
//	view := m.BufferView()
//
//	// At a scene boundary, reclaim all slack:
//	if err := m.Optimize(dev, mem.Truncate); err != nil {
//	    return err
//	}
//
// # Item types
//
// T must have a fixed in-memory size and contain no pointers: uploaded bytes
// are a reinterpretation of the backing store, so anything with pointers,
// maps, slices or strings in it would leak host addresses to the device.
// Zero-sized types are rejected at construction.
//
// # Thread safety
//
// Engines are not thread-safe. All mutating operations are expected on one
// logical owner at a time; nothing blocks and nothing retries internally.
package mem
