package cdcl

// Conflict names the clause whose watches propagation falsified entirely.
type Conflict struct {
	Key ClauseKey
}

// PropagateAll drains the consequence queue, walking watch lists for each
// literal in turn, until either the queue empties (fixpoint, no conflict)
// or a clause is found fully falsified. Binary watches are walked before
// long watches for every literal, since binary propagations are cheaper
// and shrink the search horizon faster.
func (ctx *Context) PropagateAll() (*Conflict, error) {
	for {
		lit, ok := ctx.queue.Pop()
		if !ok {
			return nil, nil
		}
		if conflict, err := ctx.propagateLiteral(lit); conflict != nil || err != nil {
			return conflict, err
		}
	}
}

func (ctx *Context) propagateLiteral(lit Literal) (*Conflict, error) {
	if conflict := ctx.propagateBinary(lit); conflict != nil {
		return conflict, nil
	}
	return ctx.propagateLong(lit)
}

// propagateBinary walks the binary watch list attached to lit's negation:
// lit was just made true, so its negation was just made false, and it is
// clauses watching that falsified literal which need rechecking.
func (ctx *Context) propagateBinary(lit Literal) *Conflict {
	slot := slotFor(lit.Negation())
	ws := ctx.atoms.watchesFor(lit.A)
	list := ws.binary[slot]
	for i := 0; i < len(list); i++ {
		w := list[i]
		switch ctx.atoms.LiteralValue(w.Other) {
		case True:
			continue // repeat implication: already satisfied, skip rather than re-derive
		case False:
			return &Conflict{Key: w.Key}
		default:
			level := int32(ctx.trail.CurrentLevel())
			src := Source{Kind: SourceBCP, Key: w.Key}
			_ = ctx.atoms.SetValue(w.Other, level, src)
			ctx.trail.PushConsequence(w.Other, src)
			ctx.queue.PushBack(w.Other)
			ctx.stats.Propagations++
			ctx.bus.emit(Delta{Kind: DeltaAssignment, Lit: w.Other, Source: src})
		}
	}
	return nil
}

// propagateLong walks the long watch list attached to lit's negation (the
// literal just falsified by lit's assignment), calling updateWatch on each
// candidate clause and reacting to its verdict.
func (ctx *Context) propagateLong(lit Literal) (*Conflict, error) {
	slot := slotFor(lit.Negation())
	ws := ctx.atoms.watchesFor(lit.A)
	list := ws.long[slot]
	for i := 0; i < len(list); {
		key := list[i].Key
		clause, err := ctx.clauses.Get(key)
		if err != nil {
			return nil, ErrCorruptWatch
		}
		verdict, newLit := ctx.updateWatch(clause, lit.A)
		switch verdict {
		case watchWitness, watchMoved:
			ws.removeLongAt(slot, i)
			list = ws.long[slot]
			if verdict == watchMoved {
				ctx.atoms.watchesFor(newLit.A).addLong(newLit, LongWatch{Key: key})
			}
			continue
		case watchUnit:
			// updateWatch normalized Watch0 to `lit`'s position on entry, so
			// Watch1 is the sole surviving non-false literal w.
			w := clause.Lits[clause.Watch1]
			switch ctx.atoms.LiteralValue(w) {
			case True:
				i++
			case False:
				return &Conflict{Key: key}, nil
			default:
				level := int32(ctx.trail.CurrentLevel())
				src := Source{Kind: SourceBCP, Key: key}
				_ = ctx.atoms.SetValue(w, level, src)
				ctx.trail.PushConsequence(w, src)
				ctx.queue.PushBack(w)
				ctx.stats.Propagations++
				ctx.bus.emit(Delta{Kind: DeltaAssignment, Lit: w, Source: src})
				i++
			}
		}
	}
	return nil, nil
}

type watchVerdict int

const (
	watchWitness watchVerdict = iota // clause already true on the valuation
	watchMoved                       // watch relocated to a fresh literal
	watchUnit                        // no replacement: Watch1 holds the sole non-false literal
)

// updateWatch scans for a new watch candidate when the literal at `from`
// becomes false, and reports what the caller (who owns the watch lists)
// must do.
func (ctx *Context) updateWatch(c *Clause, from Atom) (watchVerdict, Literal) {
	// Normalize so Watch0 is the slot currently pointing at `from`.
	if c.Lits[c.Watch1].A == from {
		c.Watch0, c.Watch1 = c.Watch1, c.Watch0
	}
	other := c.Lits[c.Watch1]
	if ctx.atoms.LiteralValue(other) == True {
		return watchWitness, Literal{}
	}
	for i, l := range c.Lits {
		if i == c.Watch0 || i == c.Watch1 {
			continue
		}
		if ctx.atoms.LiteralValue(l) != False {
			c.Watch0 = i
			return watchMoved, l
		}
	}
	return watchUnit, Literal{}
}
