package mem

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"unsafe"

	"github.com/dustin/go-humanize"

	"github.com/gpukit/gpumem/device"
)

// Simple is the plain allocator engine. It owns a host-resident backing
// store mirroring the device buffer's logical contents, a free list of
// reclaimed spans, and the slot table that keeps addresses stable while
// compaction moves data underneath them.
//
// Allocate and Free are cheap and lazy: they only touch bookkeeping. Upload
// does the expensive part once per frame, compacting live regions into a
// hole-free prefix and transferring exactly that prefix.
type Simple[T any] struct {
	store []T
	free  freeList
	slots slotTable

	count   int // live items across all regions
	mutated bool

	usage  Usage
	buf    BufferID
	bufCap int // device buffer capacity in bytes
	synced int // bytes covered by the last completed transfer

	itemSize int
	log      *slog.Logger
	stats    Stats

	onGrow func(items int) // test hook, nil in production
}

var _ Memory[int] = (*Simple[int])(nil)

// Option configures a Simple engine at construction.
type Option[T any] func(*Simple[T])

// WithLogger routes the engine's (rare) diagnostics to l instead of
// discarding them.
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(s *Simple[T]) { s.log = l }
}

// NewSimple returns an empty engine for items of type T. The device buffer
// is created lazily on the first Upload, with UsageCopyDst added to the
// given usage since the engine fills it via writes.
//
// Panics if T is zero-sized; see the package documentation for the
// constraints on T.
func NewSimple[T any](usage Usage, opts ...Option[T]) *Simple[T] {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		panic("mem: zero-sized item type")
	}
	s := &Simple[T]{
		usage:    usage | device.UsageCopyDst,
		itemSize: size,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allocate reserves a span of count items. Reclaimed spans are reused
// first-fit in ascending offset order; only when none fits does the backing
// store grow.
func (s *Simple[T]) Allocate(count int) (Address, error) {
	if count <= 0 {
		return Address{}, ErrBadCount
	}
	if count > math.MaxInt/s.itemSize-len(s.store) {
		return Address{}, ErrAllocTooLarge
	}
	region, ok := s.free.take(count)
	if !ok {
		region = Region{Off: len(s.store), Len: count}
		s.grow(count)
	}
	s.count += count
	s.mutated = true
	s.stats.Allocs++
	return s.slots.insert(region), nil
}

// Get returns a mutable view over exactly addr's current region. The call
// itself marks the engine dirty: a caller asking for a mutable view is
// assumed to write through it. The slice is invalidated by any subsequent
// engine operation.
func (s *Simple[T]) Get(addr Address) ([]T, error) {
	sl, err := s.slots.resolve(addr)
	if err != nil {
		return nil, err
	}
	s.mutated = true
	r := sl.region
	return s.store[r.Off:r.End():r.End()], nil
}

// Resize changes addr's allocation to n items, preserving the first
// min(old, n) items and the address itself.
//
// Shrinking releases the trailing items in place. Growing first tries to
// absorb the free span immediately following the region; failing that, the
// region relocates and the slot is rewritten to the new offset.
func (s *Simple[T]) Resize(addr Address, n int) error {
	if n < 0 {
		return ErrBadCount
	}
	sl, err := s.slots.resolve(addr)
	if err != nil {
		return err
	}
	r := sl.region
	switch {
	case n == r.Len:
		return nil

	case n < r.Len:
		sl.region.Len = n
		s.free.release(Region{Off: r.Off + n, Len: r.Len - n})

	default:
		if n > math.MaxInt/s.itemSize-len(s.store) {
			return ErrAllocTooLarge
		}
		if s.free.takeAt(r.End(), n-r.Len) {
			sl.region.Len = n
			break
		}
		dst, ok := s.free.take(n)
		if !ok {
			dst = Region{Off: len(s.store), Len: n}
			s.grow(n)
		}
		copy(s.store[dst.Off:dst.Off+r.Len], s.store[r.Off:r.End()])
		sl.region = dst
		s.free.release(r)
		s.stats.Relocs++
	}
	s.count += n - r.Len
	s.mutated = true
	s.stats.Resizes++
	return nil
}

// Free returns addr's region to the free list. No data moves and no
// compaction happens until the next Upload.
func (s *Simple[T]) Free(addr Address) error {
	r, err := s.slots.remove(addr)
	if err != nil {
		return err
	}
	s.free.release(r)
	s.count -= r.Len
	s.mutated = true
	s.stats.Frees++
	return nil
}

// Len returns the total number of live items.
func (s *Simple[T]) Len() int { return s.count }

// LenOf returns the item count of the allocation at addr.
func (s *Simple[T]) LenOf(addr Address) (int, error) {
	sl, err := s.slots.resolve(addr)
	if err != nil {
		return 0, err
	}
	return sl.region.Len, nil
}

// Size returns Len() in bytes.
func (s *Simple[T]) Size() int { return s.count * s.itemSize }

// IsEmpty reports whether nothing is allocated.
func (s *Simple[T]) IsEmpty() bool { return s.count == 0 }

// Mutated reports whether anything changed since the last completed Upload.
func (s *Simple[T]) Mutated() bool { return s.mutated }

// ItemSize returns the size of one item in bytes.
func (s *Simple[T]) ItemSize() int { return s.itemSize }

// Buffer returns the device buffer id from the most recent transfer, or 0
// before the first one.
func (s *Simple[T]) Buffer() BufferID { return s.buf }

// BufferView returns the byte range of the device buffer covered by the most
// recent completed transfer.
func (s *Simple[T]) BufferView() View { return View{Buffer: s.buf, Bytes: s.synced} }

// Stats returns a copy of the engine counters.
func (s *Simple[T]) Stats() Stats { return s.stats }

// Upload compacts live regions into a contiguous prefix and transfers it to
// the device, growing the device buffer first when its capacity is too
// small. A no-op when nothing changed since the last Upload.
//
// On a device failure the engine's own bookkeeping stays valid and dirty, so
// a later Upload retries the transfer.
func (s *Simple[T]) Upload(dev Device) error {
	if !s.mutated {
		return nil
	}
	s.compact()

	id, capBytes, err := UploadOrResize(dev, s.buf, s.bufCap, s.usage, s.storeBytes(s.count))
	if id != s.buf {
		// The device buffer was replaced; previous contents are gone.
		s.buf, s.bufCap, s.synced = id, capBytes, 0
	}
	if err != nil {
		return fmt.Errorf("mem: upload: %w", err)
	}
	s.synced = s.count * s.itemSize
	s.mutated = false
	s.stats.Uploads++
	return nil
}

// Optimize rebuilds the backing store to exactly the live length, repacking
// live regions in strategy order, and reallocates the device buffer to
// match. This is the only path that shrinks device-side capacity. The free
// list is empty afterwards.
func (s *Simple[T]) Optimize(dev Device, strategy Strategy) error {
	order := s.slots.byOffset()
	switch strategy {
	case SortSizeDescending:
		sort.SliceStable(order, func(i, j int) bool {
			return s.slots.slots[order[i]].region.Len > s.slots.slots[order[j]].region.Len
		})
	case SortSizeAscending:
		sort.SliceStable(order, func(i, j int) bool {
			return s.slots.slots[order[i]].region.Len < s.slots.slots[order[j]].region.Len
		})
	}

	rebuilt := make([]T, 0, s.count)
	for _, idx := range order {
		r := s.slots.slots[idx].region
		s.slots.slots[idx].region = Region{Off: len(rebuilt), Len: r.Len}
		rebuilt = append(rebuilt, s.store[r.Off:r.End()]...)
	}
	s.store = rebuilt
	s.free.reset(Region{})

	need := s.count * s.itemSize
	s.log.Debug("optimizing device buffer",
		"strategy", strategy.String(),
		"from", humanize.Bytes(uint64(s.bufCap)),
		"to", humanize.Bytes(uint64(need)))

	id, err := dev.CreateOrResize(need, s.usage)
	if err != nil {
		s.mutated = true
		return fmt.Errorf("mem: resize device buffer: %w", err)
	}
	s.buf, s.bufCap, s.synced = id, need, 0
	if need > 0 {
		if err := dev.Write(s.buf, 0, s.storeBytes(s.count)); err != nil {
			s.mutated = true
			return fmt.Errorf("mem: optimize upload: %w", err)
		}
	}
	s.synced = need
	s.mutated = false
	s.stats.Optimizes++
	return nil
}

// UploadOrResize writes data into the buffer identified by id, reallocating
// it first when its capacity cannot hold the data (or when id is 0). It
// returns the buffer id and capacity in effect afterwards; on error the
// caller must still adopt them, since a reallocation may have succeeded
// before a write failed.
func UploadOrResize(dev Device, id BufferID, capacity int, usage Usage, data []byte) (BufferID, int, error) {
	if id == 0 || capacity < len(data) {
		newID, err := dev.CreateOrResize(len(data), usage)
		if err != nil {
			return id, capacity, err
		}
		id, capacity = newID, len(data)
	}
	if len(data) > 0 {
		if err := dev.Write(id, 0, data); err != nil {
			return id, capacity, err
		}
	}
	return id, capacity, nil
}

// compact shifts every live region toward offset 0 in ascending offset
// order, overwriting interleaved free spans and rewriting slot offsets as it
// goes. Afterwards the free list holds at most one tail span covering the
// unused capacity beyond the live prefix.
func (s *Simple[T]) compact() {
	next := 0
	for _, idx := range s.slots.byOffset() {
		r := s.slots.slots[idx].region
		if r.Off != next {
			copy(s.store[next:next+r.Len], s.store[r.Off:r.End()])
			s.slots.slots[idx].region.Off = next
			s.stats.MovedBytes += int64(r.Len * s.itemSize)
		}
		next += r.Len
	}
	s.free.reset(Region{Off: next, Len: len(s.store) - next})
}

// grow extends the backing store by items zero values. Amortized growth
// comes from append's doubling.
func (s *Simple[T]) grow(items int) {
	if s.onGrow != nil {
		s.onGrow(items)
	}
	s.store = append(s.store, make([]T, items)...)
	s.stats.Grows++
	s.stats.GrownItems += items
}

// storeBytes reinterprets the first n items of the backing store as raw
// bytes for the device boundary.
func (s *Simple[T]) storeBytes(n int) []byte {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s.store[0])), n*s.itemSize)
}
