package mem

import "sort"

// slot is one entry in the indirection table.
type slot struct {
	region Region
	gen    uint32
	live   bool
}

// slotTable maps stable addresses to current regions. It is the only
// component that may change the offset an address resolves to, which is what
// keeps addresses valid across compaction.
//
// Slots are an arena indexed by a small integer plus a generation counter.
// Freeing a slot marks it dead; reusing it bumps the generation so any
// address still pointing at the old tenant stops resolving instead of
// silently aliasing the new one.
type slotTable struct {
	slots    []slot
	recycled []uint32 // dead slot indexes available for reuse
	live     int
}

// insert claims a slot for the region and returns its address.
func (t *slotTable) insert(r Region) Address {
	t.live++
	if n := len(t.recycled); n > 0 {
		idx := t.recycled[n-1]
		t.recycled = t.recycled[:n-1]
		s := &t.slots[idx]
		s.gen++
		s.region = r
		s.live = true
		return Address{index: idx, gen: s.gen}
	}
	t.slots = append(t.slots, slot{region: r, gen: 1, live: true})
	return Address{index: uint32(len(t.slots) - 1), gen: 1}
}

// resolve returns the slot for a live address.
func (t *slotTable) resolve(a Address) (*slot, error) {
	if a.gen == 0 || int(a.index) >= len(t.slots) {
		return nil, ErrInvalidAddress
	}
	s := &t.slots[a.index]
	if s.gen != a.gen || !s.live {
		return nil, ErrInvalidAddress
	}
	return s, nil
}

// remove kills a live address and returns the region it mapped.
func (t *slotTable) remove(a Address) (Region, error) {
	if a.gen == 0 || int(a.index) >= len(t.slots) {
		return Region{}, ErrInvalidAddress
	}
	s := &t.slots[a.index]
	if s.gen != a.gen {
		return Region{}, ErrInvalidAddress
	}
	if !s.live {
		return Region{}, ErrDoubleFree
	}
	s.live = false
	t.recycled = append(t.recycled, a.index)
	t.live--
	return s.region, nil
}

// liveCount returns the number of live slots.
func (t *slotTable) liveCount() int { return t.live }

// byOffset returns the indexes of all live slots in ascending offset order.
// This is the walk order for compaction and for Truncate repacking.
func (t *slotTable) byOffset() []uint32 {
	order := make([]uint32, 0, t.live)
	for i := range t.slots {
		if t.slots[i].live {
			order = append(order, uint32(i))
		}
	}
	sort.Slice(order, func(i, j int) bool {
		return t.slots[order[i]].region.Off < t.slots[order[j]].region.Off
	})
	return order
}
