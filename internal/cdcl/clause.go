package cdcl

// Clause is a multiset of literals with duplicates removed and tautologies
// rejected at insertion (see normalizeClause). Watch0/Watch1 index the
// two watched positions for long clauses and are unused (left at 0) for
// unit and binary clauses, which have their own dedicated storage.
type Clause struct {
	Lits   []Literal
	Watch0 int
	Watch1 int

	Activity float64
	LBD      int

	// Premises are the clause keys sufficient to re-derive this clause by
	// resolution from originals. Empty for original clauses.
	Premises []ClauseKey
}

// newClause builds a clause watching slots 0 and 1 (for two or more
// literals) without consulting the valuation. ClauseDB.store then moves the
// watches with pickWatches to meet the entry contract updateWatch assumes:
// both watches unassigned if possible, otherwise at least one on a witness.
func newClause(lits []Literal, premises []ClauseKey) *Clause {
	c := &Clause{Lits: lits, Premises: premises}
	if len(lits) >= 2 {
		c.Watch0, c.Watch1 = 0, 1
	}
	return c
}

// Len is the clause's literal count.
func (c *Clause) Len() int { return len(c.Lits) }

// Contains reports whether the clause holds lit exactly (not its negation).
func (c *Clause) Contains(lit Literal) bool {
	for _, l := range c.Lits {
		if l == lit {
			return true
		}
	}
	return false
}

// indexOf returns the position of lit in Lits, or -1.
func (c *Clause) indexOf(lit Literal) int {
	for i, l := range c.Lits {
		if l == lit {
			return i
		}
	}
	return -1
}

// removeAt deletes the literal at index i, adjusting watch indices so they
// keep pointing at the same logical literals (swap-remove with the tail,
// same swap-remove trick used throughout the clause-database slices).
func (c *Clause) removeAt(i int) {
	last := len(c.Lits) - 1
	c.Lits[i] = c.Lits[last]
	c.Lits = c.Lits[:last]
	fix := func(w int) int {
		switch {
		case w == last:
			return i
		case w == i:
			return w
		default:
			return w
		}
	}
	c.Watch0 = fix(c.Watch0)
	c.Watch1 = fix(c.Watch1)
}
