package mem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_SlotTable_InsertResolve(t *testing.T) {
	var st slotTable

	a := st.insert(Region{Off: 0, Len: 4})
	b := st.insert(Region{Off: 4, Len: 2})
	require.Equal(t, 2, st.liveCount())

	sa, err := st.resolve(a)
	require.NoError(t, err)
	require.Equal(t, Region{Off: 0, Len: 4}, sa.region)

	sb, err := st.resolve(b)
	require.NoError(t, err)
	require.Equal(t, Region{Off: 4, Len: 2}, sb.region)
}

func Test_SlotTable_ZeroAddressInvalid(t *testing.T) {
	var st slotTable
	st.insert(Region{Off: 0, Len: 1})

	_, err := st.resolve(Address{})
	require.ErrorIs(t, err, ErrInvalidAddress)
}

func Test_SlotTable_RemoveClassifiesErrors(t *testing.T) {
	var st slotTable
	a := st.insert(Region{Off: 0, Len: 3})

	r, err := st.remove(a)
	require.NoError(t, err)
	require.Equal(t, Region{Off: 0, Len: 3}, r)
	require.Equal(t, 0, st.liveCount())

	// Second remove of the same address is a double free.
	_, err = st.remove(a)
	require.ErrorIs(t, err, ErrDoubleFree)
	require.ErrorIs(t, err, ErrInvalidAddress, "double free still matches the general invalid-address check")

	// Unknown index is plain invalid.
	_, err = st.remove(Address{index: 99, gen: 1})
	require.ErrorIs(t, err, ErrInvalidAddress)
	require.NotErrorIs(t, err, ErrDoubleFree)
}

// Test_SlotTable_GenerationBlocksStaleAddress verifies that a recycled slot
// never resolves for the address of its previous tenant.
func Test_SlotTable_GenerationBlocksStaleAddress(t *testing.T) {
	var st slotTable
	a := st.insert(Region{Off: 0, Len: 1})
	_, err := st.remove(a)
	require.NoError(t, err)

	// Reuses a's slot with a bumped generation.
	b := st.insert(Region{Off: 8, Len: 1})
	require.Equal(t, a.index, b.index)
	require.NotEqual(t, a.gen, b.gen)

	_, err = st.resolve(a)
	require.ErrorIs(t, err, ErrInvalidAddress)

	// The stale address must not free the new tenant either.
	_, err = st.remove(a)
	require.ErrorIs(t, err, ErrInvalidAddress)
	require.Equal(t, 1, st.liveCount())

	sb, err := st.resolve(b)
	require.NoError(t, err)
	require.Equal(t, Region{Off: 8, Len: 1}, sb.region)
}

func Test_SlotTable_ByOffsetOrder(t *testing.T) {
	var st slotTable
	st.insert(Region{Off: 12, Len: 1})
	mid := st.insert(Region{Off: 4, Len: 2})
	st.insert(Region{Off: 0, Len: 3})
	_, err := st.remove(mid)
	require.NoError(t, err)

	order := st.byOffset()
	require.Len(t, order, 2)
	require.Equal(t, 0, st.slots[order[0]].region.Off)
	require.Equal(t, 12, st.slots[order[1]].region.Off)
}
