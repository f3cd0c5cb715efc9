package cdcl

// preprocessPureLiterals assigns every atom that occurs in the original
// problem with only one polarity, before the first decision is made. It
// runs at most once per Context and is kept deliberately separate from
// assumption handling: a pure assignment is tagged SourcePure and lives at
// level zero, so clearing assumptions never disturbs it and a FRAT reader
// can tell the two derivations apart.
func (ctx *Context) preprocessPureLiterals() {
	if !ctx.cfg.Preprocessing || ctx.pureChecked {
		return
	}
	ctx.pureChecked = true

	seenPos := make(map[Atom]bool)
	seenNeg := make(map[Atom]bool)
	ctx.clauses.ForEachOriginalLiteral(func(l Literal) {
		if l.Pos {
			seenPos[l.A] = true
		} else {
			seenNeg[l.A] = true
		}
	})

	for a := Atom(1); int(a) <= ctx.atoms.NumAtoms(); a++ {
		pos, neg := seenPos[a], seenNeg[a]
		if pos == neg {
			continue // appears both ways, or not at all: not pure
		}
		if ctx.atoms.ValueOf(a) != Unassigned {
			continue
		}
		lit := Literal{A: a, Pos: pos}
		src := Source{Kind: SourcePure}
		if err := ctx.atoms.SetValue(lit, 0, src); err != nil {
			continue
		}
		ctx.trail.PushUnit(lit, src)
		ctx.queue.PushBack(lit)
		ctx.bus.emit(Delta{Kind: DeltaAssignment, Lit: lit, Source: src})
	}
}
