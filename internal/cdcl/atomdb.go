package cdcl

// Phase is the last observed non-none value of an atom, consulted by the
// decision heuristic when phase_saving is enabled.
type Phase int8

const (
	PhaseNone Phase = iota
	PhaseTrue
	PhaseFalse
)

// rescaleCeiling bounds VSIDS activity before a multiplicatively-stable
// rescale kicks in, the conventional MiniSAT-family threshold.
const rescaleCeiling = 1e100

// atomRecord is the per-atom state tracked during search: current value,
// previous phase, activity, the level its current value was set at, and
// the source tag for that value.
type atomRecord struct {
	value    Value
	previous Phase
	level    int32
	source   Source
	activity float64
}

// AtomDB allocates atom ids and owns the valuation, phase memory, VSIDS
// activity, and watch lists.
type AtomDB struct {
	records []atomRecord // index 0 unused; atoms are 1..len-1
	watches []watchSet

	heap  *IndexHeap
	bump  float64
	decay float64
}

// NewAtomDB builds an empty atom store. bump and decay are the configured
// atom_bump and atom_decay: the initial VSIDS bump increment and its decay
// factor.
func NewAtomDB(bump, decay float64) *AtomDB {
	db := &AtomDB{
		records: make([]atomRecord, 1, 64), // slot 0 unused
		watches: make([]watchSet, 1, 64),
		heap:    NewIndexHeap(64),
		bump:    bump,
		decay:   decay,
	}
	return db
}

// FreshAtom allocates a new atom id, optionally seeding its phase memory.
func (db *AtomDB) FreshAtom(hint Phase) (Atom, error) {
	if uint64(len(db.records)) > uint64(MaxAtom) {
		return 0, ErrAtomsExhausted
	}
	db.records = append(db.records, atomRecord{previous: hint, level: -1})
	db.watches = append(db.watches, watchSet{})
	a := Atom(len(db.records) - 1)
	db.heap.Activate(uint32(a), 0, 0)
	return a, nil
}

// EnsureAtom widens storage so atom a is valid, allocating any atoms
// skipped in between. Used when a caller names an atom id directly
// (e.g. a DIMACS file refers to atom 500 before ever mentioning 1..499).
func (db *AtomDB) EnsureAtom(a Atom) error {
	for Atom(len(db.records)) <= a {
		if _, err := db.FreshAtom(PhaseNone); err != nil {
			return err
		}
	}
	return nil
}

// NumAtoms reports how many atom ids have been issued (excluding slot 0).
func (db *AtomDB) NumAtoms() int { return len(db.records) - 1 }

// Valid reports whether a has been issued.
func (db *AtomDB) Valid(a Atom) bool { return a >= 1 && int(a) < len(db.records) }

// ValueOf returns the atom's current value.
func (db *AtomDB) ValueOf(a Atom) Value { return db.records[a].value }

// LiteralValue returns how the valuation judges lit.
func (db *AtomDB) LiteralValue(lit Literal) Value {
	return valueOfLiteral(db.records[lit.A].value, lit.Pos)
}

// LevelOf returns the decision level at which a's current value was set,
// or -1 if unassigned.
func (db *AtomDB) LevelOf(a Atom) int32 { return db.records[a].level }

// SourceOf returns the source tag for a's current value.
func (db *AtomDB) SourceOf(a Atom) Source { return db.records[a].source }

// PreviousPhase returns the last observed non-none value, for phase_saving.
func (db *AtomDB) PreviousPhase(a Atom) Phase { return db.records[a].previous }

// SetValue assigns lit's atom to make lit true at the given level and
// source. Reassigning to the same polarity is a no-op and returns nil;
// reassigning to the opposite polarity is a conflict.
func (db *AtomDB) SetValue(lit Literal, level int32, src Source) error {
	r := &db.records[lit.A]
	want := False
	if lit.Pos {
		want = True
	}
	switch r.value {
	case Unassigned:
		r.value = want
		r.level = level
		r.source = src
		return nil
	case want:
		return nil
	default:
		return ErrValuationConflict
	}
}

// DropValue clears a's assignment, recording its value as the new phase
// memory, and reactivates it in the VSIDS heap so the decision heuristic
// can pick it again.
func (db *AtomDB) DropValue(a Atom) {
	r := &db.records[a]
	if r.value == Unassigned {
		return
	}
	if r.value == True {
		r.previous = PhaseTrue
	} else {
		r.previous = PhaseFalse
	}
	r.value = Unassigned
	r.level = -1
	r.source = Source{}
	db.heap.Activate(uint32(a), r.activity, 0)
}

// BumpActivity applies the current VSIDS bump to a's activity, per the
// chosen VSIDS variant (conflict-analysis callers decide which atoms to
// bump; MiniSAT bumps only the learned clause's atoms, Chaff bumps every
// atom touched during resolution).
func (db *AtomDB) BumpActivity(a Atom) {
	r := &db.records[a]
	r.activity += db.bump
	db.heap.Activate(uint32(a), r.activity, 0)
	if r.activity > rescaleCeiling {
		db.rescale()
	}
}

// DecayBump grows the bump increment for the next conflict; called once
// per conflict, after any activity bumps for that conflict.
func (db *AtomDB) DecayBump() {
	db.bump /= 1 - db.decay
}

func (db *AtomDB) rescale() {
	const factor = 1.0 / rescaleCeiling
	for i := range db.records {
		db.records[i].activity *= factor
	}
	db.heap.ApplyToAll(func(p float64) float64 { return p * factor })
	db.bump *= factor
}

// PopMostActive pops the highest-activity atom still present in the heap
// (callers skip it themselves if already assigned: the heap is lazy and
// may still hold stale entries for atoms assigned since their last bump).
func (db *AtomDB) PopMostActive() (Atom, bool) {
	idx, ok := db.heap.PopMax()
	return Atom(idx), ok
}

// ActivateInHeap reinserts a at its current activity, used when an atom's
// heap membership needs to be forced (e.g. widening storage).
func (db *AtomDB) ActivateInHeap(a Atom) {
	db.heap.Activate(uint32(a), db.records[a].activity, 0)
}

// watchesFor exposes the raw watch set for BCP and the clause store.
func (db *AtomDB) watchesFor(a Atom) *watchSet { return &db.watches[a] }
