package cdcl

// analysisResult is what conflict analysis hands back to the solve loop:
// the learned clause, its premises, the level to backjump to, and its LBD
// (distinct decision levels among its literals, against which lbd_bound
// is later compared during reduction).
type analysisResult struct {
	learned      []Literal
	premises     []ClauseKey
	backjumpTo   int32
	assertLevel  int32
	lbd          int
}

// analyzeConflict drives the resolution buffer over the trail from the
// conflicting clause back to a single asserting literal (first UIP, or
// full resolution under StoppingNone).
func (ctx *Context) analyzeConflict(conflict *Conflict) (*analysisResult, error) {
	buf := ctx.resBuf
	buf.ensureSize(ctx.atoms.NumAtoms())
	buf.reset()

	ctx.bus.emit(Delta{Kind: DeltaResolutionBegin, Key: conflict.Key})

	reason, err := ctx.getAnyClause(conflict.Key)
	if err != nil {
		return nil, ErrLostClause
	}
	for _, l := range reason.Lits {
		buf.mergeLiteral(ctx, l)
	}
	buf.premises[conflict.Key] = struct{}{}
	ctx.bus.emit(Delta{Kind: DeltaResolutionUsed, Key: conflict.Key})

	level := ctx.trail.CurrentLevel()
	var walkErr error
	ctx.trail.ReverseEachAtLevel(level, func(e TrailEntry) bool {
		if e.Source.Kind != SourceBCP {
			return true
		}
		cell := buf.cells[e.Lit.A]
		if cell.state != cellAsserting && cell.state != cellAsserted {
			return true
		}
		ctx.bus.emit(Delta{Kind: DeltaResolutionUsed, Key: e.Source.Key})
		if err := buf.resolvePivot(ctx, e.Lit, e.Source.Key); err != nil {
			walkErr = err
			return false
		}
		if ctx.cfg.StoppingCriteria == StoppingFirstUIP && buf.assertedCount() <= 1 {
			return false
		}
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	buf.strengthenLevelZero(ctx)
	learned := buf.buildClause()
	premises := buf.Premises()

	ctx.bumpActivities(buf, learned)
	ctx.atoms.DecayBump()
	for _, k := range premises {
		ctx.clauses.BumpActivity(k)
	}
	ctx.clauses.DecayBump()

	ctx.bus.emit(Delta{Kind: DeltaResolutionEnd, Clause: learned})

	assertLevel, backjump := backjumpLevels(ctx, learned)
	lbd := computeLBD(ctx, learned)

	return &analysisResult{
		learned:     learned,
		premises:    premises,
		backjumpTo:  backjump,
		assertLevel: assertLevel,
		lbd:         lbd,
	}, nil
}

// bumpActivities bumps VSIDS activity either for every atom the resolution
// touched (VSIDSChaff) or only for those surviving into the learned clause
// (VSIDSMiniSAT), per the configured vsids variant.
func (ctx *Context) bumpActivities(buf *ResolutionBuffer, learned []Literal) {
	switch ctx.cfg.VSIDS {
	case VSIDSChaff:
		for _, a := range buf.touched {
			ctx.atoms.BumpActivity(a)
		}
	default:
		for _, l := range learned {
			ctx.atoms.BumpActivity(l.A)
		}
	}
}

// backjumpLevels returns (highest level among learned, second-highest
// distinct level among learned). A unit clause backjumps to level zero.
func backjumpLevels(ctx *Context, learned []Literal) (assertLevel, backjump int32) {
	if len(learned) == 0 {
		return 0, 0
	}
	var top, second int32 = -1, -1
	for _, l := range learned {
		lv := ctx.atoms.LevelOf(l.A)
		if lv > top {
			second = top
			top = lv
		} else if lv > second && lv < top {
			second = lv
		}
	}
	if second < 0 {
		second = 0
	}
	return top, second
}

// computeLBD counts the distinct decision levels among a clause's literals.
func computeLBD(ctx *Context, lits []Literal) int {
	seen := make(map[int32]struct{}, len(lits))
	for _, l := range lits {
		seen[ctx.atoms.LevelOf(l.A)] = struct{}{}
	}
	return len(seen)
}
