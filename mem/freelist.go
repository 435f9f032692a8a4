package mem

import "sort"

// freeList tracks reclaimed spans of the backing store, kept sorted by
// offset with adjacent spans merged. Allocation is first-fit in ascending
// offset order, which keeps placement deterministic and lets a resize probe
// the span immediately following its region in O(log n).
type freeList struct {
	spans []Region
}

// take removes the first span that can hold n items, consuming n from its
// front and leaving any remainder in place.
func (f *freeList) take(n int) (Region, bool) {
	for i := range f.spans {
		s := f.spans[i]
		if s.Len < n {
			continue
		}
		if s.Len == n {
			f.spans = append(f.spans[:i], f.spans[i+1:]...)
		} else {
			f.spans[i] = Region{Off: s.Off + n, Len: s.Len - n}
		}
		return Region{Off: s.Off, Len: n}, true
	}
	return Region{}, false
}

// takeAt consumes n items from the front of the span starting exactly at
// off, if such a span exists and is large enough. Used for in-place growth.
func (f *freeList) takeAt(off, n int) bool {
	i := sort.Search(len(f.spans), func(i int) bool { return f.spans[i].Off >= off })
	if i >= len(f.spans) || f.spans[i].Off != off || f.spans[i].Len < n {
		return false
	}
	if f.spans[i].Len == n {
		f.spans = append(f.spans[:i], f.spans[i+1:]...)
	} else {
		f.spans[i] = Region{Off: off + n, Len: f.spans[i].Len - n}
	}
	return true
}

// release returns a region to the list, merging it with adjacent spans so
// the list stays a minimal set of maximal holes.
func (f *freeList) release(r Region) {
	if r.Len == 0 {
		return
	}
	i := sort.Search(len(f.spans), func(i int) bool { return f.spans[i].Off >= r.Off })

	// Merge with the span ending at r.Off.
	if i > 0 && f.spans[i-1].End() == r.Off {
		f.spans[i-1].Len += r.Len
		// Merge with the span starting at the new end.
		if i < len(f.spans) && f.spans[i].Off == f.spans[i-1].End() {
			f.spans[i-1].Len += f.spans[i].Len
			f.spans = append(f.spans[:i], f.spans[i+1:]...)
		}
		return
	}

	// Merge with the span starting at r.End().
	if i < len(f.spans) && f.spans[i].Off == r.End() {
		f.spans[i].Off = r.Off
		f.spans[i].Len += r.Len
		return
	}

	f.spans = append(f.spans, Region{})
	copy(f.spans[i+1:], f.spans[i:])
	f.spans[i] = r
}

// reset empties the list, keeping one tail span if it has any length.
func (f *freeList) reset(tail Region) {
	f.spans = f.spans[:0]
	if tail.Len > 0 {
		f.spans = append(f.spans, tail)
	}
}

// count returns the number of free spans.
func (f *freeList) count() int { return len(f.spans) }

// freeItems returns the total number of items across all spans.
func (f *freeList) freeItems() int {
	total := 0
	for _, s := range f.spans {
		total += s.Len
	}
	return total
}
