package cdcl

// TrailEntry is a single recorded assignment: the literal made true and why.
type TrailEntry struct {
	Lit    Literal
	Source Source
}

// Trail is the ordered record of assigned literals, partitioned by decision
// level via a sidecar index of where each level begins. Assumptions are
// kept in a separate pending list; they are not valued at level 0. Solve
// asserts each one as its own decision level (PushAssumptionDecision), so
// a backjump or ClearDecisions undoes their values, and clearing the list
// never disturbs original unit clauses.
type Trail struct {
	entries     []TrailEntry
	levelStarts []int // levelStarts[k] = index of the first entry at level k+1

	assumptions []Literal
}

// NewTrail builds an empty trail.
func NewTrail() *Trail {
	return &Trail{
		entries:     make([]TrailEntry, 0, 256),
		levelStarts: make([]int, 0, 16),
	}
}

// CurrentLevel is the current decision level (0 = no open decision).
func (t *Trail) CurrentLevel() int { return len(t.levelStarts) }

// Len is the number of entries on the trail, asserted assumptions included
// (pending assumptions not yet asserted are not counted).
func (t *Trail) Len() int { return len(t.entries) }

// PushAssumption records lit in the pending assumption list; it assigns
// nothing.
func (t *Trail) PushAssumption(lit Literal) {
	t.assumptions = append(t.assumptions, lit)
}

// Assumptions returns the current assumption literals.
func (t *Trail) Assumptions() []Literal { return t.assumptions }

// ClearAssumptions drops the assumption layer.
func (t *Trail) ClearAssumptions() { t.assumptions = t.assumptions[:0] }

// PushDecision opens a new decision level and records lit as its decision
// literal.
func (t *Trail) PushDecision(lit Literal) {
	t.levelStarts = append(t.levelStarts, len(t.entries))
	t.entries = append(t.entries, TrailEntry{Lit: lit, Source: Source{Kind: SourceDecision}})
}

// PushAssumptionDecision opens a new decision level for an assumption
// literal, tagged SourceAssumption rather than SourceDecision so callers
// (e.g. a FRAT writer) can tell the two apart; conflict analysis treats
// both identically, since neither is a BCP pivot.
func (t *Trail) PushAssumptionDecision(lit Literal) {
	t.levelStarts = append(t.levelStarts, len(t.entries))
	t.entries = append(t.entries, TrailEntry{Lit: lit, Source: Source{Kind: SourceAssumption}})
}

// PushConsequence records lit at the current level with the given source
// (Pure or BCP).
func (t *Trail) PushConsequence(lit Literal, src Source) {
	t.entries = append(t.entries, TrailEntry{Lit: lit, Source: src})
}

// PushUnit records lit at level 0 (units and pure literals found before the
// first decision).
func (t *Trail) PushUnit(lit Literal, src Source) {
	t.entries = append(t.entries, TrailEntry{Lit: lit, Source: src})
}

// At returns the entry at position i.
func (t *Trail) At(i int) TrailEntry { return t.entries[i] }

// LevelEntries returns the trail slice for decision level (1-based). Level
// 0 entries (units, before any decision) are those with index below
// levelStarts[0] (or all entries if no decision has been made).
func (t *Trail) LevelEntries(level int) []TrailEntry {
	if level <= 0 {
		end := len(t.entries)
		if len(t.levelStarts) > 0 {
			end = t.levelStarts[0]
		}
		return t.entries[:end]
	}
	start := t.levelStarts[level-1]
	end := len(t.entries)
	if level < len(t.levelStarts) {
		end = t.levelStarts[level]
	}
	return t.entries[start:end]
}

// ReverseEachAtLevel iterates the given level's entries back-to-front,
// calling f for each; f returns false to stop early. Used by conflict
// analysis to walk the current level looking for resolution pivots.
func (t *Trail) ReverseEachAtLevel(level int, f func(TrailEntry) bool) {
	entries := t.LevelEntries(level)
	for i := len(entries) - 1; i >= 0; i-- {
		if !f(entries[i]) {
			return
		}
	}
}

// TruncateTo discards every entry above the given level, invoking undo for
// each literal dropped (most-recent first) so callers can unassign atoms
// and reactivate decision-heuristic state. Decision levels above level are
// closed.
func (t *Trail) TruncateTo(level int, undo func(Literal)) {
	if level >= t.CurrentLevel() {
		return
	}
	start := len(t.entries)
	if level < len(t.levelStarts) {
		start = t.levelStarts[level]
	}
	for i := len(t.entries) - 1; i >= start; i-- {
		undo(t.entries[i].Lit)
	}
	t.entries = t.entries[:start]
	t.levelStarts = t.levelStarts[:level]
}
