package cdcl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexHeapPopsInDescendingOrder(t *testing.T) {
	h := NewIndexHeap(4)
	h.Activate(1, 1.0, 0)
	h.Activate(2, 5.0, 0)
	h.Activate(3, 3.0, 0)

	idx, ok := h.PopMax()
	require.True(t, ok)
	assert.Equal(t, uint32(2), idx)

	idx, ok = h.PopMax()
	require.True(t, ok)
	assert.Equal(t, uint32(3), idx)

	idx, ok = h.PopMax()
	require.True(t, ok)
	assert.Equal(t, uint32(1), idx)

	_, ok = h.PopMax()
	assert.False(t, ok)
}

func TestIndexHeapSecondaryTieBreak(t *testing.T) {
	h := NewIndexHeap(4)
	h.Activate(1, 2.0, 1)
	h.Activate(2, 2.0, 5)

	idx, ok := h.PopMax()
	require.True(t, ok)
	assert.Equal(t, uint32(2), idx, "equal primary should break toward higher secondary")
}

func TestIndexHeapActivateReplacesExisting(t *testing.T) {
	h := NewIndexHeap(4)
	h.Activate(1, 1.0, 0)
	h.Activate(1, 9.0, 0)

	assert.Equal(t, 1, h.Len())
	score, ok := h.PeekScore(1)
	require.True(t, ok)
	assert.Equal(t, 9.0, score)
}

func TestIndexHeapRemove(t *testing.T) {
	h := NewIndexHeap(4)
	h.Activate(1, 1.0, 0)
	h.Activate(2, 2.0, 0)

	assert.True(t, h.Remove(1))
	assert.False(t, h.Remove(1))
	assert.False(t, h.Contains(1))
	assert.True(t, h.Contains(2))
}
