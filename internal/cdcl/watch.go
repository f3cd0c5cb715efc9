package cdcl

// BinaryWatch is a watch-list entry for a binary clause: the other literal
// is carried inline so BCP never has to look the clause up just to learn
// it.
type BinaryWatch struct {
	Other Literal
	Key   ClauseKey
}

// LongWatch is a watch-list entry for a clause of length >= 3. The clause
// itself must be fetched from the store to inspect its other literals.
type LongWatch struct {
	Key ClauseKey
}

// watchSet holds, for one atom, four vectors: binary and long watchers,
// split by the atom value that falsifies the watched literal (index 0 =
// falsified when atom is False, index 1 = falsified when atom is True).
type watchSet struct {
	binary [2][]BinaryWatch
	long   [2][]LongWatch
}

func slotFor(lit Literal) int {
	if lit.falsifyingValue() {
		return 1
	}
	return 0
}

func (w *watchSet) addBinary(lit Literal, bw BinaryWatch) {
	s := slotFor(lit)
	w.binary[s] = append(w.binary[s], bw)
}

func (w *watchSet) addLong(lit Literal, lw LongWatch) {
	s := slotFor(lit)
	w.long[s] = append(w.long[s], lw)
}

// removeBinaryAt swap-removes the binary watch at position i for the given
// falsifying slot, amortized O(1).
func (w *watchSet) removeBinaryAt(slot, i int) {
	list := w.binary[slot]
	last := len(list) - 1
	list[i] = list[last]
	w.binary[slot] = list[:last]
}

func (w *watchSet) removeLongAt(slot, i int) {
	list := w.long[slot]
	last := len(list) - 1
	list[i] = list[last]
	w.long[slot] = list[:last]
}
