package cdcl

// IndexHeap is a max-heap over dense uint32 indices, ordered by a primary
// score with a secondary tie-break. Atoms use it keyed by VSIDS activity
// alone (secondary always 0); the addition-long clause arena uses it keyed
// by (-activity, LBD) so PopMax yields the best eviction candidate: lowest
// activity, breaking ties toward higher LBD. One implementation serves
// both orderings.
type IndexHeap struct {
	entries []heapEntry
	pos     map[uint32]int // idx -> position in entries; absent if not present
}

type heapEntry struct {
	idx       uint32
	primary   float64
	secondary int
}

// NewIndexHeap builds an empty heap with room for the given number of
// entries preallocated.
func NewIndexHeap(capacityHint int) *IndexHeap {
	return &IndexHeap{
		entries: make([]heapEntry, 0, capacityHint),
		pos:     make(map[uint32]int, capacityHint),
	}
}

// Len reports the number of entries currently in the heap.
func (h *IndexHeap) Len() int { return len(h.entries) }

// Contains reports whether idx currently has an entry.
func (h *IndexHeap) Contains(idx uint32) bool {
	_, ok := h.pos[idx]
	return ok
}

func greater(a, b heapEntry) bool {
	if a.primary != b.primary {
		return a.primary > b.primary
	}
	return a.secondary > b.secondary
}

// Activate inserts idx with the given score, or updates its score and
// re-heapifies if idx is already present. This is the entry point for both
// VSIDS activity bumps and eviction-heap maintenance.
func (h *IndexHeap) Activate(idx uint32, primary float64, secondary int) {
	if p, ok := h.pos[idx]; ok {
		old := h.entries[p]
		h.entries[p] = heapEntry{idx: idx, primary: primary, secondary: secondary}
		if greater(h.entries[p], old) {
			h.siftUp(p)
		} else {
			h.siftDown(p)
		}
		return
	}
	h.entries = append(h.entries, heapEntry{idx: idx, primary: primary, secondary: secondary})
	p := len(h.entries) - 1
	h.pos[idx] = p
	h.siftUp(p)
}

// Remove deletes idx from the heap if present, reporting whether it was.
func (h *IndexHeap) Remove(idx uint32) bool {
	p, ok := h.pos[idx]
	if !ok {
		return false
	}
	last := len(h.entries) - 1
	h.swap(p, last)
	h.entries = h.entries[:last]
	delete(h.pos, idx)
	if p < len(h.entries) {
		h.siftDown(p)
		h.siftUp(p)
	}
	return true
}

// PopMax removes and returns the highest-priority index.
func (h *IndexHeap) PopMax() (uint32, bool) {
	if len(h.entries) == 0 {
		return 0, false
	}
	top := h.entries[0]
	last := len(h.entries) - 1
	h.swap(0, last)
	h.entries = h.entries[:last]
	delete(h.pos, top.idx)
	if len(h.entries) > 0 {
		h.siftDown(0)
	}
	return top.idx, true
}

// PeekScore reports the current primary score for idx, if present.
func (h *IndexHeap) PeekScore(idx uint32) (float64, bool) {
	p, ok := h.pos[idx]
	if !ok {
		return 0, false
	}
	return h.entries[p].primary, true
}

// ApplyToAll rescales every primary score in place via f, preserving heap
// order (f must be monotonic, e.g. multiplication by a positive constant).
// Used for the multiplicatively-stable activity rescale once an activity
// exceeds rescaleCeiling.
func (h *IndexHeap) ApplyToAll(f func(primary float64) float64) {
	for i := range h.entries {
		h.entries[i].primary = f(h.entries[i].primary)
	}
}

func (h *IndexHeap) swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
	h.pos[h.entries[i].idx] = i
	h.pos[h.entries[j].idx] = j
}

func (h *IndexHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !greater(h.entries[i], h.entries[parent]) {
			return
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *IndexHeap) siftDown(i int) {
	n := len(h.entries)
	for {
		left, right := 2*i+1, 2*i+2
		largest := i
		if left < n && greater(h.entries[left], h.entries[largest]) {
			largest = left
		}
		if right < n && greater(h.entries[right], h.entries[largest]) {
			largest = right
		}
		if largest == i {
			return
		}
		h.swap(i, largest)
		i = largest
	}
}
