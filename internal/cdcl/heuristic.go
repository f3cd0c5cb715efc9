package cdcl

// decide chooses the next decision literal, or reports ok=false when every
// atom is already assigned (the valuation is total: SAT). A
// random_decision_bias roll picks a uniform random unassigned atom;
// otherwise the most active unassigned atom comes off the VSIDS heap
// (skipping stale entries), with polarity chosen by phase_saving when a
// previous phase exists, else polarity_lean.
func (ctx *Context) decide() (Literal, bool) {
	var atom Atom
	var found bool

	if ctx.cfg.RandomDecisionBias > 0 && ctx.rng.Float64() < ctx.cfg.RandomDecisionBias {
		atom, found = ctx.randomUnassigned()
	}
	if !found {
		atom, found = ctx.popUnassignedFromHeap()
	}
	if !found {
		return Literal{}, false
	}

	pos := ctx.choosePolarity(atom)
	return Literal{A: atom, Pos: pos}, true
}

// popUnassignedFromHeap drains stale (already-assigned) heap entries until
// it finds a live candidate or the heap empties.
func (ctx *Context) popUnassignedFromHeap() (Atom, bool) {
	for {
		a, ok := ctx.atoms.PopMostActive()
		if !ok {
			return 0, false
		}
		if ctx.atoms.ValueOf(a) == Unassigned {
			return a, true
		}
	}
}

// randomUnassigned samples uniformly among currently unassigned atoms. It
// falls back to the heap path if the walk finds none (all assigned).
func (ctx *Context) randomUnassigned() (Atom, bool) {
	n := ctx.atoms.NumAtoms()
	if n == 0 {
		return 0, false
	}
	start := Atom(ctx.rng.Intn(n)) + 1
	for i := 0; i < n; i++ {
		a := Atom((int(start)-1+i)%n) + 1
		if ctx.atoms.ValueOf(a) == Unassigned {
			ctx.atoms.heap.Remove(uint32(a))
			return a, true
		}
	}
	return 0, false
}

// choosePolarity decides true/false for a fresh decision on atom, governed
// by the phase_saving and polarity_lean options.
func (ctx *Context) choosePolarity(atom Atom) bool {
	if ctx.cfg.PhaseSaving {
		switch ctx.atoms.PreviousPhase(atom) {
		case PhaseTrue:
			return true
		case PhaseFalse:
			return false
		}
	}
	return ctx.rng.Float64() < ctx.cfg.PolarityLean
}
