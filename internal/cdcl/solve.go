package cdcl

import "time"

// Solve runs the CDCL loop to a fixed point: propagate, analyze and
// backjump on conflict, decide when propagation is exhausted, restart and
// reduce on their respective schedules, until the formula is found
// satisfiable, unsatisfiable, or the caller's time limit / terminate
// callback fires.
func (ctx *Context) Solve() (Status, error) {
	start := time.Now()
	ctx.preprocessPureLiterals()

	if conflict, err := ctx.PropagateAll(); err != nil {
		return StatusUnknown, err
	} else if conflict != nil {
		ctx.status = StatusUnsatisfiable
		return ctx.status, nil
	}

	if ctx.assertAssumptions() {
		ctx.status = StatusUnsatisfiable
		return ctx.status, nil
	}

	sched := newRestartScheduler()
	var lastReduceConflicts int64

	for {
		if ctx.terminate != nil && ctx.terminate() {
			ctx.status = StatusTerminated
			return ctx.status, nil
		}
		if ctx.cfg.TimeLimitSeconds > 0 && time.Since(start).Seconds() > ctx.cfg.TimeLimitSeconds {
			ctx.status = StatusTimeUp
			return ctx.status, nil
		}

		conflict, err := ctx.PropagateAll()
		if err != nil {
			return StatusUnknown, err
		}

		if conflict != nil {
			ctx.stats.recordConflict()
			if ctx.trail.CurrentLevel() == 0 {
				ctx.status = StatusUnsatisfiable
				return ctx.status, nil
			}
			if err := ctx.learnFromConflict(conflict); err != nil {
				return StatusUnknown, err
			}
			if ctx.status == StatusUnsatisfiable {
				return ctx.status, nil
			}

			if sched.onConflict(ctx.cfg) {
				ctx.restart()
				if ctx.assertAssumptions() {
					ctx.status = StatusUnsatisfiable
					return ctx.status, nil
				}
			}
			if sched.dueForReduction(ctx.cfg, lastReduceConflicts) {
				ctx.reduce()
				lastReduceConflicts = sched.conflictsTotal
			}
			continue
		}

		// A backjump may have undone assumption levels: re-assert them
		// before any free decision, and propagate whatever that queued.
		if ctx.assertAssumptions() {
			ctx.status = StatusUnsatisfiable
			return ctx.status, nil
		}
		if !ctx.queue.Empty() {
			continue
		}

		lit, ok := ctx.decide()
		if !ok {
			ctx.status = StatusSatisfiable
			return ctx.status, nil
		}
		level := int32(ctx.trail.CurrentLevel() + 1)
		if err := ctx.atoms.SetValue(lit, level, Source{Kind: SourceDecision}); err != nil {
			return StatusUnknown, err
		}
		ctx.trail.PushDecision(lit)
		ctx.queue.PushBack(lit)
		ctx.stats.recordDecision(ctx.trail.CurrentLevel())
		ctx.bus.emit(Delta{Kind: DeltaAssignment, Lit: lit, Source: Source{Kind: SourceDecision}, Level: int(level)})
	}
}

// learnFromConflict runs conflict analysis, backjumps, stores the learned
// clause, and asserts its asserting literal. A zero-length learned clause
// means the empty clause was derived: the formula is unsatisfiable.
func (ctx *Context) learnFromConflict(conflict *Conflict) error {
	result, err := ctx.analyzeConflict(conflict)
	if err != nil {
		return err
	}
	if len(result.learned) == 0 {
		ctx.status = StatusUnsatisfiable
		ctx.bus.emit(Delta{Kind: DeltaClauseAdded})
		return nil
	}

	ctx.trail.TruncateTo(int(result.backjumpTo), func(lit Literal) {
		ctx.atoms.DropValue(lit.A)
	})
	ctx.queue.Clear()

	key, clause, plan := ctx.clauses.StoreAddition(result.learned, result.premises, ctx.atoms.LiteralValue)
	clause.LBD = result.lbd
	ctx.applyWatchPlan(plan)
	ctx.stats.recordLearned()
	ctx.bus.emit(Delta{Kind: DeltaClauseAdded, Key: key, Clause: result.learned, Level: int(result.backjumpTo)})

	asserted := result.learned[0]
	src := Source{Kind: SourceBCP, Key: key}
	if err := ctx.atoms.SetValue(asserted, result.backjumpTo, src); err != nil {
		return err
	}
	ctx.trail.PushConsequence(asserted, src)
	ctx.queue.PushFront(asserted)
	ctx.bus.emit(Delta{Kind: DeltaAssignment, Lit: asserted, Source: src, Level: int(result.backjumpTo)})
	return nil
}

// assertAssumptions pushes every pending assumption that is not yet
// assigned as its own decision level. It reports true if some assumption
// is already falsified (at level zero, or by propagation from the
// assumption levels below it), which makes the instance unsatisfiable
// under the current assumption set.
func (ctx *Context) assertAssumptions() bool {
	for _, lit := range ctx.trail.Assumptions() {
		switch ctx.atoms.LiteralValue(lit) {
		case True:
			continue
		case False:
			return true
		}
		level := int32(ctx.trail.CurrentLevel() + 1)
		src := Source{Kind: SourceAssumption}
		if err := ctx.atoms.SetValue(lit, level, src); err != nil {
			return true
		}
		ctx.trail.PushAssumptionDecision(lit)
		ctx.queue.PushBack(lit)
	}
	return false
}

// restart undoes every open decision level, keeping every learned clause.
func (ctx *Context) restart() {
	ctx.trail.TruncateTo(0, func(lit Literal) {
		ctx.atoms.DropValue(lit.A)
	})
	ctx.queue.Clear()
	ctx.stats.recordRestart()
	ctx.bus.emit(Delta{Kind: DeltaRestart})
}

// reduce locks every addition-long clause currently serving as a trail
// reason, then evicts up to half as many clauses as the addition-long arena
// holds (locked ones included in that count), taking only unlocked clauses
// whose LBD exceeds lbd_bound, and retracts their watch entries.
func (ctx *Context) reduce() {
	for i := 0; i < ctx.trail.Len(); i++ {
		e := ctx.trail.At(i)
		if e.Source.Kind == SourceBCP {
			ctx.clauses.NoteUse(e.Source.Key)
		}
	}

	limit := ctx.clauses.NumAdditionLong() / 2
	evicted := ctx.clauses.ReduceBy(limit, ctx.cfg.LBDBound)
	ctx.clauses.UnlockAll()

	for _, ev := range evicted {
		removeLongWatch(ctx.atoms.watchesFor(ev.WatchA.A), ev.WatchA, ev.Key)
		removeLongWatch(ctx.atoms.watchesFor(ev.WatchB.A), ev.WatchB, ev.Key)
		ctx.bus.emit(Delta{Kind: DeltaClauseDeleted, Key: ev.Key, Clause: ev.Literals})
	}
	ctx.stats.recordReduction(len(evicted))
}
