package cdcl

// cellState is the per-atom state the resolution buffer assigns while it
// drives iterated resolution over the trail. "Backjump" (an atom in the
// clause unassigned at clause construction time) names a case this
// solver's shape never produces; it is kept as a named constant for
// documentation parity, never assigned.
type cellState uint8

const (
	cellValuation cellState = iota
	cellBackjump            // reserved, unused
	cellAsserting
	cellAsserted
	cellPivot
	cellStrengthened
	cellProven
)

type bufCell struct {
	state cellState
	lit   Literal
}

// ResolutionBuffer represents the clause being constructed as a dense
// per-atom array of cells. It is reset and reused across conflicts to
// avoid reallocating on every analysis.
type ResolutionBuffer struct {
	cells   []bufCell
	touched []Atom
	length  int
	premises map[ClauseKey]struct{}
}

// newResolutionBuffer builds a buffer sized for n atoms (index 0 unused).
func newResolutionBuffer(n int) *ResolutionBuffer {
	return &ResolutionBuffer{
		cells:    make([]bufCell, n+1),
		touched:  make([]Atom, 0, 32),
		premises: make(map[ClauseKey]struct{}, 8),
	}
}

// ensureSize widens the buffer after fresh atoms have been allocated.
func (b *ResolutionBuffer) ensureSize(n int) {
	for len(b.cells) <= n {
		b.cells = append(b.cells, bufCell{})
	}
}

// reset clears every touched cell back to the baseline Valuation state.
func (b *ResolutionBuffer) reset() {
	for _, a := range b.touched {
		b.cells[a] = bufCell{}
	}
	b.touched = b.touched[:0]
	b.length = 0
	for k := range b.premises {
		delete(b.premises, k)
	}
}

// assertedCount reports how many cells are currently marked Asserted: the
// first-UIP stop condition is exactly one.
func (b *ResolutionBuffer) assertedCount() int {
	n := 0
	for _, a := range b.touched {
		if b.cells[a].state == cellAsserted {
			n++
		}
	}
	return n
}

// mergeLiteral folds one false literal into the buffer. lit must already be
// falsified under the current valuation (true of both the conflicting
// clause's literals and every reason clause's non-pivot literals, by the
// implication graph invariant). Atoms already touched this round are
// skipped: this is both deduplication and the mechanism that shrinks the
// learned clause relative to naive resolution.
func (b *ResolutionBuffer) mergeLiteral(ctx *Context, lit Literal) {
	a := lit.A
	if b.cells[a].state != cellValuation {
		return
	}
	b.touched = append(b.touched, a)
	level := ctx.atoms.LevelOf(a)
	state := cellAsserting
	if level == int32(ctx.trail.CurrentLevel()) {
		state = cellAsserted
	}
	b.cells[a] = bufCell{state: state, lit: lit}
	b.length++
}

// resolvePivot resolves the buffer against reason, the clause whose
// propagation asserted consequence. consequence's atom must currently be an
// Asserting or Asserted cell; it is marked Pivot and removed from the
// constructed clause, and reason's other literals are merged in.
func (b *ResolutionBuffer) resolvePivot(ctx *Context, consequence Literal, reasonKey ClauseKey) error {
	reason, err := ctx.getAnyClause(reasonKey)
	if err != nil {
		return ErrLostClause
	}
	before := len(reason.Lits)
	for _, l := range reason.Lits {
		if l.A == consequence.A {
			continue
		}
		b.mergeLiteral(ctx, l)
	}
	b.cells[consequence.A].state = cellPivot
	b.length--
	b.premises[reasonKey] = struct{}{}

	if ctx.cfg.Subsumption && b.length < before-1 {
		ctx.trySelfSubsume(reasonKey, consequence)
	}
	return nil
}

// strengthenLevelZero drops every Asserting literal whose atom is fixed at
// level zero: such a literal is false as a standing fact, not because of
// the current trail, so the clause holds without it.
func (b *ResolutionBuffer) strengthenLevelZero(ctx *Context) {
	for _, a := range b.touched {
		c := &b.cells[a]
		if c.state == cellAsserting && ctx.atoms.LevelOf(a) == 0 {
			c.state = cellStrengthened
			b.length--
		}
	}
}

// buildClause collects the surviving literals, with the Asserted literal
// (if any) first so the caller can assert it immediately after backjump.
func (b *ResolutionBuffer) buildClause() []Literal {
	lits := make([]Literal, 0, b.length)
	var assertedLit *Literal
	for _, a := range b.touched {
		c := b.cells[a]
		switch c.state {
		case cellAsserted:
			l := c.lit
			assertedLit = &l
		case cellAsserting:
			lits = append(lits, c.lit)
		}
	}
	if assertedLit != nil {
		lits = append([]Literal{*assertedLit}, lits...)
	}
	return lits
}

// Premises returns the clause keys used to derive the constructed clause.
func (b *ResolutionBuffer) Premises() []ClauseKey {
	out := make([]ClauseKey, 0, len(b.premises))
	for k := range b.premises {
		out = append(out, k)
	}
	return out
}
