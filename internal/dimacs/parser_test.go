package dimacs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/cdclsat/internal/cdcl"
)

func TestParseBasicProblem(t *testing.T) {
	input := `c a comment line
p cnf 3 2
1 -2 0
2 3 0
`
	p, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, p.NumAtoms)
	assert.Equal(t, 2, p.NumClauses)
	require.Len(t, p.Clauses, 2)
	assert.Equal(t, []cdcl.Literal{cdcl.Lit(1), cdcl.Neg(2)}, p.Clauses[0])
	assert.Equal(t, []cdcl.Literal{cdcl.Lit(2), cdcl.Lit(3)}, p.Clauses[1])
}

func TestParseClauseSpanningMultipleLines(t *testing.T) {
	input := "p cnf 2 1\n1\n-2\n0\n"
	p, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, p.Clauses, 1)
	assert.Equal(t, []cdcl.Literal{cdcl.Lit(1), cdcl.Neg(2)}, p.Clauses[0])
}

func TestParseStopsAtPercentMarker(t *testing.T) {
	input := "p cnf 1 1\n1 0\n%\ngarbage that is not DIMACS\n"
	p, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, p.Clauses, 1)
}

func TestParseRejectsMissingProblemLine(t *testing.T) {
	_, err := Parse(strings.NewReader("1 2 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MissingProblemLine")
}

func TestParseRejectsEmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MissingProblemLine")
}

func TestParseRejectsMalformedProblemLine(t *testing.T) {
	_, err := Parse(strings.NewReader("p cnf three 2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ProblemLine")
}

func TestParseRejectsNonIntegerToken(t *testing.T) {
	_, err := Parse(strings.NewReader("p cnf 2 1\n1 x 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Token")
}

func TestParseRejectsUnterminatedClause(t *testing.T) {
	_, err := Parse(strings.NewReader("p cnf 2 1\n1 2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UnterminatedClause")
}

func TestLoadIntoAllocatesAtomsAndClauses(t *testing.T) {
	input := "p cnf 2 2\n1 2 0\n-1 -2 0\n"
	p, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	ctx := cdcl.NewContext(cdcl.DefaultConfig(), nil)
	require.NoError(t, LoadInto(ctx, p))
	assert.Equal(t, 2, ctx.NumAtoms())

	status, err := ctx.Solve()
	require.NoError(t, err)
	assert.Equal(t, cdcl.StatusSatisfiable, status)
}

func TestLoadIntoReportsConflictingUnitClauses(t *testing.T) {
	input := "p cnf 1 2\n1 0\n-1 0\n"
	p, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	ctx := cdcl.NewContext(cdcl.DefaultConfig(), nil)
	err = LoadInto(ctx, p)
	assert.Equal(t, cdcl.ErrBuildUnsatisfiable, err)
}

func TestLoadIntoSkipsTautologicalClause(t *testing.T) {
	input := "p cnf 2 2\n1 -1 0\n1 2 0\n"
	p, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	ctx := cdcl.NewContext(cdcl.DefaultConfig(), nil)
	require.NoError(t, LoadInto(ctx, p))

	status, err := ctx.Solve()
	require.NoError(t, err)
	assert.Equal(t, cdcl.StatusSatisfiable, status)
}
