package cdcl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailLevelPartitioning(t *testing.T) {
	tr := NewTrail()
	tr.PushUnit(Lit(1), Source{Kind: SourcePure})
	tr.PushDecision(Lit(2))
	tr.PushConsequence(Lit(3), Source{Kind: SourceBCP})
	tr.PushDecision(Lit(4))
	tr.PushConsequence(Lit(5), Source{Kind: SourceBCP})
	tr.PushConsequence(Lit(6), Source{Kind: SourceBCP})

	require.Equal(t, 2, tr.CurrentLevel())

	level0 := tr.LevelEntries(0)
	require.Len(t, level0, 1)
	assert.Equal(t, Lit(1), level0[0].Lit)

	level1 := tr.LevelEntries(1)
	require.Len(t, level1, 2)
	assert.Equal(t, Lit(2), level1[0].Lit)
	assert.Equal(t, Lit(3), level1[1].Lit)

	level2 := tr.LevelEntries(2)
	require.Len(t, level2, 3)
	assert.Equal(t, Lit(4), level2[0].Lit)
	assert.Equal(t, Lit(6), level2[2].Lit)
}

func TestTrailTruncateToRestoresLowerLevel(t *testing.T) {
	tr := NewTrail()
	tr.PushDecision(Lit(1))
	tr.PushDecision(Lit(2))
	tr.PushConsequence(Lit(3), Source{Kind: SourceBCP})

	var undone []Literal
	tr.TruncateTo(1, func(l Literal) { undone = append(undone, l) })

	assert.Equal(t, 1, tr.CurrentLevel())
	assert.Equal(t, []Literal{Lit(3), Lit(2)}, undone)
	assert.Equal(t, 1, tr.Len())
}

func TestTrailReverseEachAtLevelStopsEarly(t *testing.T) {
	tr := NewTrail()
	tr.PushDecision(Lit(1))
	tr.PushConsequence(Lit(2), Source{Kind: SourceBCP})
	tr.PushConsequence(Lit(3), Source{Kind: SourceBCP})

	var seen []Literal
	tr.ReverseEachAtLevel(1, func(e TrailEntry) bool {
		seen = append(seen, e.Lit)
		return e.Lit != Lit(2)
	})
	assert.Equal(t, []Literal{Lit(3), Lit(2)}, seen)
}
