package cdcl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestContext builds a Context with n fresh atoms over cfg.
func newTestContext(t *testing.T, cfg Config, n int) *Context {
	t.Helper()
	ctx := NewContext(cfg, nil)
	for i := 0; i < n; i++ {
		_, err := ctx.FreshAtom(PhaseNone)
		require.NoError(t, err)
	}
	return ctx
}

// satisfies reports whether ctx's current valuation makes every clause true.
func satisfies(ctx *Context, clauses [][]Literal) bool {
	for _, clause := range clauses {
		ok := false
		for _, l := range clause {
			if ctx.ValueOf(l.A) == l.truthValue() {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// truthValue is the Value a literal demands to be satisfied.
func (l Literal) truthValue() Value {
	if l.Pos {
		return True
	}
	return False
}

func TestSolveSingleUnitClause(t *testing.T) {
	ctx := newTestContext(t, DefaultConfig(), 1)
	_, err := ctx.AddClause([]Literal{Lit(1)})
	require.NoError(t, err)

	status, err := ctx.Solve()
	require.NoError(t, err)
	assert.Equal(t, StatusSatisfiable, status)
	assert.Equal(t, True, ctx.ValueOf(1))
}

func TestAddClauseRejectsTautology(t *testing.T) {
	ctx := newTestContext(t, DefaultConfig(), 1)
	_, err := ctx.AddClause([]Literal{Lit(1), Neg(1)})
	assert.Equal(t, ErrBuildTautology, err)
}

func TestAddClauseDetectsLevelZeroConflict(t *testing.T) {
	ctx := newTestContext(t, DefaultConfig(), 1)
	_, err := ctx.AddClause([]Literal{Lit(1)})
	require.NoError(t, err)

	_, err = ctx.AddClause([]Literal{Neg(1)})
	assert.Equal(t, ErrBuildUnsatisfiable, err)
}

func TestAddClauseUncheckedSetsUnsatisfiableInsteadOfErroring(t *testing.T) {
	ctx := newTestContext(t, DefaultConfig(), 1)
	_, err := ctx.AddClause([]Literal{Lit(1)})
	require.NoError(t, err)

	_, err = ctx.AddClauseUnchecked([]Literal{Neg(1)})
	require.NoError(t, err)
	assert.Equal(t, StatusUnsatisfiable, ctx.Status())
}

func TestSolveSatisfiableTwoClauseFormula(t *testing.T) {
	clauses := [][]Literal{
		{Lit(1), Lit(2)},
		{Neg(1), Neg(2)},
	}
	ctx := newTestContext(t, DefaultConfig(), 2)
	for _, c := range clauses {
		_, err := ctx.AddClause(c)
		require.NoError(t, err)
	}

	status, err := ctx.Solve()
	require.NoError(t, err)
	require.Equal(t, StatusSatisfiable, status)
	assert.True(t, satisfies(ctx, clauses))
}

func TestSolveValuationMatchesExpectedModel(t *testing.T) {
	ctx := newTestContext(t, DefaultConfig(), 3)
	for _, c := range [][]Literal{{Lit(1)}, {Lit(2)}, {Neg(3)}} {
		_, err := ctx.AddClause(c)
		require.NoError(t, err)
	}

	status, err := ctx.Solve()
	require.NoError(t, err)
	require.Equal(t, StatusSatisfiable, status)

	want := []Literal{Lit(1), Lit(2), Neg(3)}
	if diff := cmp.Diff(want, ctx.Valuation()); diff != "" {
		t.Errorf("valuation mismatch (-want +got):\n%s", diff)
	}
}

// pigeonholeClauses builds the standard pigeonhole-principle CNF for
// pigeons pigeons and holes holes: every pigeon in some hole, no hole
// holding two pigeons. It is unsatisfiable whenever pigeons > holes.
func pigeonholeClauses(pigeons, holes int) [][]Literal {
	atom := func(p, h int) Atom { return Atom(p*holes + h + 1) }

	var clauses [][]Literal
	for p := 0; p < pigeons; p++ {
		var c []Literal
		for h := 0; h < holes; h++ {
			c = append(c, Lit(atom(p, h)))
		}
		clauses = append(clauses, c)
	}
	for h := 0; h < holes; h++ {
		for p1 := 0; p1 < pigeons; p1++ {
			for p2 := p1 + 1; p2 < pigeons; p2++ {
				clauses = append(clauses, []Literal{Neg(atom(p1, h)), Neg(atom(p2, h))})
			}
		}
	}
	return clauses
}

func TestSolvePigeonholeIsUnsatisfiable(t *testing.T) {
	const pigeons, holes = 4, 3
	clauses := pigeonholeClauses(pigeons, holes)
	ctx := newTestContext(t, DefaultConfig(), pigeons*holes)
	for _, c := range clauses {
		_, err := ctx.AddClause(c)
		require.NoError(t, err)
	}

	status, err := ctx.Solve()
	require.NoError(t, err)
	assert.Equal(t, StatusUnsatisfiable, status)
}

func TestSolvePigeonholeWithAggressiveRestartsAndReduction(t *testing.T) {
	const pigeons, holes = 5, 4
	clauses := pigeonholeClauses(pigeons, holes)

	cfg := DefaultConfig()
	cfg.LubyMod = 1
	cfg.LubyU = 1
	cfg.ConflictMod = 2
	cfg.LBDBound = 1

	ctx := newTestContext(t, cfg, pigeons*holes)
	for _, c := range clauses {
		_, err := ctx.AddClause(c)
		require.NoError(t, err)
	}

	status, err := ctx.Solve()
	require.NoError(t, err)
	assert.Equal(t, StatusUnsatisfiable, status)

	stats := ctx.Stats()
	assert.Greater(t, stats.Conflicts, int64(0))
}

func TestAssumptionsDriveSatisfiability(t *testing.T) {
	ctx := newTestContext(t, DefaultConfig(), 2)
	_, err := ctx.AddClause([]Literal{Lit(1), Lit(2)})
	require.NoError(t, err)
	_, err = ctx.AddClause([]Literal{Neg(1), Neg(2)})
	require.NoError(t, err)

	require.NoError(t, ctx.AddAssumption(Lit(1)))
	require.NoError(t, ctx.AddAssumption(Lit(2)))

	status, err := ctx.Solve()
	require.NoError(t, err)
	assert.Equal(t, StatusUnsatisfiable, status, "both pigeons true violates the exclusivity clause")

	ctx.RemoveAssumptions()
	ctx.ClearDecisions()

	status, err = ctx.Solve()
	require.NoError(t, err)
	assert.Equal(t, StatusSatisfiable, status)
}

func TestAddAssumptionRejectedAfterDecision(t *testing.T) {
	ctx := newTestContext(t, DefaultConfig(), 2)
	ctx.trail.PushDecision(Lit(1))
	err := ctx.AddAssumption(Lit(2))
	assert.Equal(t, ErrDecisionMade, err)
}

func TestPreprocessingAssignsPureLiterals(t *testing.T) {
	cfg := DefaultConfig()
	ctx := newTestContext(t, cfg, 2)
	_, err := ctx.AddClause([]Literal{Lit(1), Lit(2)})
	require.NoError(t, err)
	_, err = ctx.AddClause([]Literal{Lit(1), Neg(2)})
	require.NoError(t, err)

	status, err := ctx.Solve()
	require.NoError(t, err)
	assert.Equal(t, StatusSatisfiable, status)
	assert.Equal(t, True, ctx.ValueOf(1), "atom 1 occurs only positively and should be assigned true by preprocessing")
}

func TestClearDecisionsPreservesOriginalClauses(t *testing.T) {
	ctx := newTestContext(t, DefaultConfig(), 1)
	_, err := ctx.AddClause([]Literal{Lit(1)})
	require.NoError(t, err)

	status, err := ctx.Solve()
	require.NoError(t, err)
	require.Equal(t, StatusSatisfiable, status)

	ctx.ClearDecisions()
	assert.Equal(t, StatusUnknown, ctx.Status())

	status, err = ctx.Solve()
	require.NoError(t, err)
	assert.Equal(t, StatusSatisfiable, status)
	assert.Equal(t, True, ctx.ValueOf(1))
}
