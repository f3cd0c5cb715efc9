package cdcl

import (
	"math/rand"

	"go.uber.org/zap"
)

// Context is the solver: the atom store, clause store, trail, consequence
// queue, resolution buffer, and dispatch bus composed behind one type that
// threads search state through every operation.
type Context struct {
	cfg Config

	atoms   *AtomDB
	clauses *ClauseDB
	trail   *Trail
	queue   *ConsequenceQueue
	resBuf  *ResolutionBuffer
	bus     *Dispatch
	stats   Stats
	rng     *rand.Rand

	status    Status
	terminate Terminate

	pureChecked bool
}

// NewContext builds an empty solver from cfg. log may be nil.
func NewContext(cfg Config, log *zap.Logger) *Context {
	return &Context{
		cfg:     cfg,
		atoms:   NewAtomDB(cfg.AtomBump, cfg.AtomDecay),
		clauses: NewClauseDB(cfg.ClauseBump, cfg.ClauseDecay),
		trail:   NewTrail(),
		queue:   NewConsequenceQueue(),
		resBuf:  newResolutionBuffer(0),
		bus:     NewDispatch(log),
		rng:     rand.New(rand.NewSource(1)),
		status:  StatusUnknown,
	}
}

// Subscribe registers obs on the solver's dispatch bus.
func (ctx *Context) Subscribe(obs Observer) { ctx.bus.Subscribe(obs) }

// SetTerminate installs a callback polled before each decision.
func (ctx *Context) SetTerminate(t Terminate) { ctx.terminate = t }

// Stats returns a snapshot of the solver's counters.
func (ctx *Context) Stats() Stats { return ctx.stats }

// Status reports the most recent Solve outcome.
func (ctx *Context) Status() Status { return ctx.status }

// FreshAtom allocates a new atom with the given initial phase hint.
func (ctx *Context) FreshAtom(hint Phase) (Atom, error) {
	a, err := ctx.atoms.FreshAtom(hint)
	if err != nil {
		return 0, err
	}
	ctx.resBuf.ensureSize(int(ctx.atoms.NumAtoms()))
	return a, nil
}

// EnsureAtom widens internal storage so atom a is addressable, for callers
// that mint their own dense atom ids (a DIMACS loader, for instance).
func (ctx *Context) EnsureAtom(a Atom) error {
	if err := ctx.atoms.EnsureAtom(a); err != nil {
		return err
	}
	ctx.resBuf.ensureSize(int(ctx.atoms.NumAtoms()))
	return nil
}

// NumAtoms reports the number of atoms currently tracked.
func (ctx *Context) NumAtoms() int { return ctx.atoms.NumAtoms() }

// ValueOf reports atom a's current truth value.
func (ctx *Context) ValueOf(a Atom) Value { return ctx.atoms.ValueOf(a) }

// Valuation returns every assigned atom as a satisfying literal, suitable
// for a SAT witness.
func (ctx *Context) Valuation() []Literal {
	out := make([]Literal, 0, ctx.atoms.NumAtoms())
	for a := Atom(1); int(a) <= ctx.atoms.NumAtoms(); a++ {
		switch ctx.atoms.ValueOf(a) {
		case True:
			out = append(out, Lit(a))
		case False:
			out = append(out, Neg(a))
		}
	}
	return out
}

// AddClause stores an original clause after removing duplicate literals and
// rejecting tautologies. An empty result is reported as ErrBuildEmpty; a
// unit clause conflicting with an existing level-zero assignment is
// reported as ErrBuildUnsatisfiable.
func (ctx *Context) AddClause(lits []Literal) (ClauseKey, error) {
	clean, tautology := normalizeClause(lits)
	if tautology {
		return ClauseKey{}, ErrBuildTautology
	}
	if len(clean) == 0 {
		return ClauseKey{}, ErrBuildEmpty
	}
	if len(clean) == 1 {
		lit := clean[0]
		switch ctx.atoms.LiteralValue(lit) {
		case False:
			return ClauseKey{}, ErrBuildUnsatisfiable
		case True:
			return OriginalUnitKey(lit), nil
		}
	}
	key, clause, plan := ctx.clauses.StoreOriginal(clean, ctx.atoms.LiteralValue)
	ctx.applyWatchPlan(plan)
	ctx.bus.emit(Delta{Kind: DeltaClauseOriginal, Key: key, Clause: clause.Lits})
	if len(clean) == 1 {
		lit := clean[0]
		src := Source{Kind: SourceBCP, Key: key}
		if err := ctx.atoms.SetValue(lit, 0, src); err != nil {
			return key, err
		}
		ctx.trail.PushUnit(lit, src)
		ctx.queue.PushBack(lit)
	}
	return key, nil
}

// normalizeClause removes duplicate literals and reports whether the
// clause contains both polarities of some atom (a tautology).
func normalizeClause(lits []Literal) ([]Literal, bool) {
	seen := make(map[Atom]bool, len(lits))
	out := make([]Literal, 0, len(lits))
	for _, l := range lits {
		if pos, ok := seen[l.A]; ok {
			if pos != l.Pos {
				return nil, true
			}
			continue
		}
		seen[l.A] = l.Pos
		out = append(out, l)
	}
	return out, false
}

// AddClauseUnchecked stores clean like AddClause, but a unit clause that
// conflicts with an existing assignment sets the solver to Unsatisfiable
// instead of returning an error, matching callers (e.g. a DIMACS loader
// applying a trusted, already-validated problem) that would rather check
// Status once at the end than handle every clause's error individually.
func (ctx *Context) AddClauseUnchecked(lits []Literal) (ClauseKey, error) {
	key, err := ctx.AddClause(lits)
	if err == ErrBuildUnsatisfiable {
		ctx.status = StatusUnsatisfiable
		return key, nil
	}
	return key, err
}

// AddAssumption stacks lit as a trail-level assumption, to be asserted at
// the start of the next Solve call and again whenever a backjump undoes it.
// Valid only before the first decision.
func (ctx *Context) AddAssumption(lit Literal) error {
	if ctx.trail.CurrentLevel() > 0 {
		return ErrDecisionMade
	}
	ctx.trail.PushAssumption(lit)
	return nil
}

// RemoveAssumptions drops every pending assumption value without touching
// original unit clauses.
func (ctx *Context) RemoveAssumptions() { ctx.trail.ClearAssumptions() }

// ClearDecisions truncates the trail back to level zero, preserving every
// original and addition clause, so the same Context can be resolved under
// a fresh set of assumptions.
func (ctx *Context) ClearDecisions() {
	ctx.trail.TruncateTo(0, func(lit Literal) { ctx.atoms.DropValue(lit.A) })
	ctx.queue.Clear()
	ctx.status = StatusUnknown
}

// getAnyClause fetches a clause regardless of whether key addresses a unit,
// binary, or long arena, so resolution.go need not care which.
func (ctx *Context) getAnyClause(key ClauseKey) (*Clause, error) {
	if key.IsUnit() {
		return ctx.clauses.GetUnit(key)
	}
	return ctx.clauses.Get(key)
}

// applyWatchPlan performs the AtomDB-side mutations a ClauseDB operation
// reported as necessary. ClauseDB cannot do this itself: it has no
// reference to AtomDB, so the two stores stay independently testable.
func (ctx *Context) applyWatchPlan(plan *WatchPlan) {
	if plan == nil {
		return
	}
	for _, rm := range plan.RemoveBinary {
		removeBinaryWatch(ctx.atoms.watchesFor(rm.Lit.A), rm.Lit, rm.Key)
	}
	for _, add := range plan.AddBinary {
		ctx.atoms.watchesFor(add.Lit.A).addBinary(add.Lit, BinaryWatch{Other: add.Other, Key: add.Key})
	}
	for _, rm := range plan.RemoveLong {
		removeLongWatch(ctx.atoms.watchesFor(rm.Lit.A), rm.Lit, rm.Key)
	}
	for _, add := range plan.AddLong {
		ctx.atoms.watchesFor(add.Lit.A).addLong(add.Lit, LongWatch{Key: add.Key})
	}
}

func removeBinaryWatch(ws *watchSet, lit Literal, key ClauseKey) {
	slot := slotFor(lit)
	list := ws.binary[slot]
	for i, w := range list {
		if w.Key == key {
			ws.removeBinaryAt(slot, i)
			return
		}
	}
}

func removeLongWatch(ws *watchSet, lit Literal, key ClauseKey) {
	slot := slotFor(lit)
	list := ws.long[slot]
	for i, w := range list {
		if w.Key == key {
			ws.removeLongAt(slot, i)
			return
		}
	}
}

// trySelfSubsume attempts to strengthen reasonKey by removing consequence's
// atom, as the resolution buffer requests mid-analysis when merging reason
// in shrank the constructed clause below reason's original length. Failure
// (too-short clause, stale key) is silent: subsumption is an optimization,
// never required for correctness.
func (ctx *Context) trySelfSubsume(reasonKey ClauseKey, consequence Literal) {
	newKey, plan, err := ctx.clauses.Subsume(reasonKey, consequence.Negation(), ctx.atoms.LiteralValue)
	if err != nil {
		return
	}
	ctx.applyWatchPlan(plan)
	ctx.stats.recordSubsumed()
	ctx.bus.emit(Delta{Kind: DeltaClauseSubsumed, Key: newKey})
}
