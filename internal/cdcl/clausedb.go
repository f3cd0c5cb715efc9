package cdcl

// LitValuer reports the current truth value of a literal. AtomDB.LiteralValue
// satisfies it; it is passed explicitly so the clause store never needs to
// import or hold an *AtomDB.
type LitValuer func(Literal) Value

// additionLongSlot is one entry of the addition-long arena: either holding a
// clause, or free and waiting to be reissued with an incremented token.
type additionLongSlot struct {
	clause *Clause
	token  uint32
	locked bool // true while the clause is a live reason on the trail
}

// ClauseDB owns the six clause arenas formed by crossing original/addition
// with unit/binary/long. Units are keyed by
// their literal; binary and original-long clauses are keyed by arena
// index; addition-long clauses additionally carry a reuse token.
type ClauseDB struct {
	originalUnits map[Literal]*Clause
	additionUnits map[Literal]*Clause

	originalBinary []*Clause
	additionBinary []*Clause

	originalLong []*Clause

	additionLong  []additionLongSlot
	freeLongSlots []uint32
	longHeap      *IndexHeap

	clauseBump  float64
	clauseDecay float64
}

// NewClauseDB builds an empty clause store. bump and decay are the
// configured clause_bump and clause_decay: the initial addition-long
// activity bump increment and its decay factor.
func NewClauseDB(bump, decay float64) *ClauseDB {
	return &ClauseDB{
		originalUnits: make(map[Literal]*Clause),
		additionUnits: make(map[Literal]*Clause),
		longHeap:      NewIndexHeap(256),
		clauseBump:    bump,
		clauseDecay:   decay,
	}
}

// WatchPlan describes the watch-list bookkeeping a caller must perform in
// AtomDB after a store-mutating clause-store operation. Zero-valued slices
// mean "nothing to do" for that side.
type WatchPlan struct {
	RemoveBinary []struct {
		Lit Literal
		Key ClauseKey
	}
	AddBinary []struct {
		Lit   Literal
		Other Literal
		Key   ClauseKey
	}
	RemoveLong []struct {
		Lit Literal
		Key ClauseKey
	}
	AddLong []struct {
		Lit Literal
		Key ClauseKey
	}
}

// StoreOriginal stores an original clause (no premises) and reports the
// watch bookkeeping the caller must apply.
func (db *ClauseDB) StoreOriginal(lits []Literal, val LitValuer) (ClauseKey, *Clause, *WatchPlan) {
	return db.store(lits, nil, false, val)
}

// StoreAddition stores a learned or BCP-derived addition clause together
// with the premises used to derive it.
func (db *ClauseDB) StoreAddition(lits []Literal, premises []ClauseKey, val LitValuer) (ClauseKey, *Clause, *WatchPlan) {
	return db.store(lits, premises, true, val)
}

func (db *ClauseDB) store(lits []Literal, premises []ClauseKey, addition bool, val LitValuer) (ClauseKey, *Clause, *WatchPlan) {
	plan := &WatchPlan{}
	switch len(lits) {
	case 1:
		lit := lits[0]
		c := &Clause{Lits: lits, Premises: premises}
		if addition {
			key := AdditionUnitKey(lit)
			db.additionUnits[lit] = c
			return key, c, plan
		}
		key := OriginalUnitKey(lit)
		db.originalUnits[lit] = c
		return key, c, plan
	case 2:
		c := &Clause{Lits: lits, Premises: premises}
		var key ClauseKey
		if addition {
			key = additionBinaryKey(uint32(len(db.additionBinary)))
			db.additionBinary = append(db.additionBinary, c)
		} else {
			key = originalBinaryKey(uint32(len(db.originalBinary)))
			db.originalBinary = append(db.originalBinary, c)
		}
		addBinaryWatches(plan, c, key)
		return key, c, plan
	default:
		c := newClause(lits, premises)
		c.Watch0, c.Watch1 = pickWatches(lits, val)
		var key ClauseKey
		if addition {
			ix, token := db.allocLongSlot(c)
			key = additionLongKey(ix, token)
			db.longHeap.Activate(ix, -c.Activity, c.LBD)
		} else {
			key = originalLongKey(uint32(len(db.originalLong)))
			db.originalLong = append(db.originalLong, c)
		}
		addLongWatches(plan, c, key)
		return key, c, plan
	}
}

func addBinaryWatches(plan *WatchPlan, c *Clause, key ClauseKey) {
	plan.AddBinary = append(plan.AddBinary,
		struct {
			Lit   Literal
			Other Literal
			Key   ClauseKey
		}{c.Lits[0], c.Lits[1], key},
		struct {
			Lit   Literal
			Other Literal
			Key   ClauseKey
		}{c.Lits[1], c.Lits[0], key},
	)
}

func addLongWatches(plan *WatchPlan, c *Clause, key ClauseKey) {
	plan.AddLong = append(plan.AddLong,
		struct {
			Lit Literal
			Key ClauseKey
		}{c.Lits[c.Watch0], key},
		struct {
			Lit Literal
			Key ClauseKey
		}{c.Lits[c.Watch1], key},
	)
}

func (db *ClauseDB) allocLongSlot(c *Clause) (uint32, uint32) {
	if n := len(db.freeLongSlots); n > 0 {
		ix := db.freeLongSlots[n-1]
		db.freeLongSlots = db.freeLongSlots[:n-1]
		slot := &db.additionLong[ix]
		slot.clause = c
		return ix, slot.token
	}
	db.additionLong = append(db.additionLong, additionLongSlot{clause: c, token: 0})
	return uint32(len(db.additionLong) - 1), 0
}

// ForEachOriginalLiteral visits every literal of every original clause
// (unit, binary, and long), for preprocessing passes that need to scan the
// whole original problem before any addition clause exists, such as pure
// literal elimination.
func (db *ClauseDB) ForEachOriginalLiteral(f func(Literal)) {
	for lit := range db.originalUnits {
		f(lit)
	}
	for _, c := range db.originalBinary {
		for _, l := range c.Lits {
			f(l)
		}
	}
	for _, c := range db.originalLong {
		for _, l := range c.Lits {
			f(l)
		}
	}
}

// Get retrieves a binary or long clause. Unit keys are rejected: callers
// must use GetUnit, since unit semantics are carried by the key's literal
// and do not need an arena lookup.
func (db *ClauseDB) Get(key ClauseKey) (*Clause, error) {
	switch key.Kind {
	case KindOriginalUnit, KindAdditionUnit:
		return nil, ErrGetUnitKey
	case KindOriginalBinary:
		return db.index(db.originalBinary, key.Index)
	case KindAdditionBinary:
		return db.index(db.additionBinary, key.Index)
	case KindOriginalLong:
		return db.index(db.originalLong, key.Index)
	case KindAdditionLong:
		if int(key.Index) >= len(db.additionLong) {
			return nil, ErrInvalidKeyIndex
		}
		slot := db.additionLong[key.Index]
		if slot.clause == nil || slot.token != key.Token {
			return nil, ErrInvalidKeyToken
		}
		return slot.clause, nil
	default:
		return nil, ErrMissing
	}
}

func (db *ClauseDB) index(arena []*Clause, ix uint32) (*Clause, error) {
	if int(ix) >= len(arena) {
		return nil, ErrInvalidKeyIndex
	}
	return arena[ix], nil
}

// GetUnit retrieves an original or addition unit clause by key.
func (db *ClauseDB) GetUnit(key ClauseKey) (*Clause, error) {
	var m map[Literal]*Clause
	switch key.Kind {
	case KindOriginalUnit:
		m = db.originalUnits
	case KindAdditionUnit:
		m = db.additionUnits
	default:
		return nil, ErrMissing
	}
	c, ok := m[key.Lit]
	if !ok {
		return nil, ErrMissing
	}
	return c, nil
}

// NoteUse marks an addition-long clause as currently in use (a live reason
// on the trail), suppressing its eviction during the next ReduceBy.
func (db *ClauseDB) NoteUse(key ClauseKey) {
	if key.Kind != KindAdditionLong || int(key.Index) >= len(db.additionLong) {
		return
	}
	slot := &db.additionLong[key.Index]
	if slot.clause != nil && slot.token == key.Token {
		slot.locked = true
	}
}

// UnlockAll clears every NoteUse lock, called once a reduction round using
// them has completed.
func (db *ClauseDB) UnlockAll() {
	for i := range db.additionLong {
		db.additionLong[i].locked = false
	}
}

// BumpActivity applies the addition-long clause activity bump and
// refreshes its position in the eviction heap.
func (db *ClauseDB) BumpActivity(key ClauseKey) {
	if key.Kind != KindAdditionLong {
		return
	}
	c, err := db.Get(key)
	if err != nil {
		return
	}
	c.Activity += db.clauseBump
	db.longHeap.Activate(key.Index, -c.Activity, c.LBD)
	if c.Activity > rescaleCeiling {
		db.rescaleActivity()
	}
}

// DecayBump grows the clause bump increment, called once per conflict.
func (db *ClauseDB) DecayBump() {
	db.clauseBump /= 1 - db.clauseDecay
}

func (db *ClauseDB) rescaleActivity() {
	const factor = 1.0 / rescaleCeiling
	for i := range db.additionLong {
		if c := db.additionLong[i].clause; c != nil {
			c.Activity *= factor
		}
	}
	db.longHeap.ApplyToAll(func(p float64) float64 { return p * factor })
	db.clauseBump *= factor
}

// EvictedClause describes one clause ReduceBy removed, enough for the
// caller to retract its watch entries and emit a dispatch delta.
type EvictedClause struct {
	Key      ClauseKey
	Literals []Literal
	WatchA   Literal
	WatchB   Literal
}

// NumAdditionLong reports how many addition-long slots are currently
// occupied, used by the reduction scheduler to size a reduction pass.
func (db *ClauseDB) NumAdditionLong() int {
	return len(db.additionLong) - len(db.freeLongSlots)
}

// ReduceBy evicts up to limit addition-long clauses, skipping clauses that
// are locked (NoteUse) or whose LBD is at or below lbdBound. Evicted slots
// are freed and their token incremented so stale keys are detected.
func (db *ClauseDB) ReduceBy(limit, lbdBound int) []EvictedClause {
	var evicted []EvictedClause
	var retained []uint32
	for len(evicted) < limit {
		ix, ok := db.longHeap.PopMax()
		if !ok {
			break
		}
		slot := &db.additionLong[ix]
		if slot.clause == nil {
			continue
		}
		if slot.locked || slot.clause.LBD <= lbdBound {
			retained = append(retained, ix)
			continue
		}
		evicted = append(evicted, EvictedClause{
			Key:      additionLongKey(ix, slot.token),
			Literals: slot.clause.Lits,
			WatchA:   slot.clause.Lits[slot.clause.Watch0],
			WatchB:   slot.clause.Lits[slot.clause.Watch1],
		})
		slot.clause = nil
		slot.token++
		db.freeLongSlots = append(db.freeLongSlots, ix)
	}
	for _, ix := range retained {
		slot := db.additionLong[ix]
		db.longHeap.Activate(ix, -slot.clause.Activity, slot.clause.LBD)
	}
	return evicted
}

// Subsume removes lit from the clause addressed by key, which must be a
// long (>= 3 literal) clause; shorter clauses are rejected
// (SubsumptionError{ClauseTooShort}). A length-3 clause, whose result has
// two literals, transfers to the addition-binary arena under a new key;
// longer clauses strengthen in place. The
// returned WatchPlan must be applied to AtomDB by the caller before the
// key is used again.
func (db *ClauseDB) Subsume(key ClauseKey, lit Literal, val LitValuer) (ClauseKey, *WatchPlan, error) {
	if key.IsUnit() || key.Kind == KindOriginalBinary || key.Kind == KindAdditionBinary {
		return ClauseKey{}, nil, ErrClauseTooShort
	}
	c, err := db.Get(key)
	if err != nil {
		return ClauseKey{}, nil, WrapClauseDB(err)
	}
	idx := c.indexOf(lit)
	if idx < 0 {
		return ClauseKey{}, nil, WrapClauseDB(ErrMissing)
	}

	plan := &WatchPlan{}
	oldW0, oldW1 := c.Lits[c.Watch0], c.Lits[c.Watch1]
	plan.RemoveLong = append(plan.RemoveLong,
		struct {
			Lit Literal
			Key ClauseKey
		}{oldW0, key},
		struct {
			Lit Literal
			Key ClauseKey
		}{oldW1, key},
	)

	// A two-literal result transfers out of the long arena entirely, under a
	// new addition-binary key. For an original-long clause that transfer must
	// not mutate db.originalLong[key.Index]'s own Clause object in place: a
	// stale key still addressing that slot would otherwise see a two-literal
	// clause out of an arena whose invariant is "every clause has >= 3
	// literals". Strengthen a private copy and leave the arena slot as is.
	if len(c.Lits) == 3 {
		transferred := &Clause{
			Lits:     removedLits(c.Lits, idx),
			Premises: c.Premises,
			Activity: c.Activity,
			LBD:      c.LBD,
		}
		if err := db.freeLongKey(key); err != nil {
			return ClauseKey{}, nil, WrapClauseDB(err)
		}
		// Both original-long and addition-long clauses transfer into the
		// addition-binary arena: a strengthened original is no longer the
		// original clause, so it is addition provenance from here on.
		newKey := additionBinaryKey(uint32(len(db.additionBinary)))
		db.additionBinary = append(db.additionBinary, transferred)
		addBinaryWatches(plan, transferred, newKey)
		return newKey, plan, nil
	}

	c.removeAt(idx)
	c.Watch0, c.Watch1 = pickWatches(c.Lits, val)
	plan.AddLong = append(plan.AddLong,
		struct {
			Lit Literal
			Key ClauseKey
		}{c.Lits[c.Watch0], key},
		struct {
			Lit Literal
			Key ClauseKey
		}{c.Lits[c.Watch1], key},
	)
	return key, plan, nil
}

// removedLits returns a new slice holding lits without the element at idx,
// leaving lits itself untouched.
func removedLits(lits []Literal, idx int) []Literal {
	out := make([]Literal, 0, len(lits)-1)
	out = append(out, lits[:idx]...)
	out = append(out, lits[idx+1:]...)
	return out
}

// freeLongKey releases an addition-long slot (bumping its token) or, for an
// original-long clause being transferred out, simply leaves the original
// arena slot's Clause pointer in place (original clauses are never
// physically removed, only logically superseded by the transferred copy;
// no deletion delta is emitted for it).
func (db *ClauseDB) freeLongKey(key ClauseKey) error {
	if key.Kind != KindAdditionLong {
		return nil
	}
	if int(key.Index) >= len(db.additionLong) {
		return ErrInvalidKeyIndex
	}
	slot := &db.additionLong[key.Index]
	if slot.clause == nil || slot.token != key.Token {
		return ErrInvalidKeyToken
	}
	db.longHeap.Remove(key.Index)
	slot.clause = nil
	slot.token++
	db.freeLongSlots = append(db.freeLongSlots, key.Index)
	return nil
}

// pickWatches selects two literal positions to watch, preferring unassigned
// literals, then satisfied (witness) literals, over falsified ones: the
// entry contract updateWatch requires of any clause it scans.
func pickWatches(lits []Literal, val LitValuer) (int, int) {
	priority := func(l Literal) int {
		switch val(l) {
		case Unassigned:
			return 2
		case True:
			return 1
		default:
			return 0
		}
	}
	bestI, bestP := 0, -1
	secondI, secondP := 1, -1
	for i, l := range lits {
		p := priority(l)
		if p > bestP {
			secondI, secondP = bestI, bestP
			bestI, bestP = i, p
		} else if p > secondP {
			secondI, secondP = i, p
		}
	}
	return bestI, secondI
}
