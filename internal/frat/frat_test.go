package frat

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/cdclsat/internal/cdcl"
)

func TestEncodeIDDistinguishesUnitPolarity(t *testing.T) {
	pos := cdcl.OriginalUnitKey(cdcl.Lit(3))
	neg := cdcl.OriginalUnitKey(cdcl.Neg(3))
	assert.NotEqual(t, encodeID(pos), encodeID(neg))
	assert.Equal(t, "ou+3", encodeID(pos))
	assert.Equal(t, "ou--3", encodeID(neg))
}

func TestEncodeIDDistinguishesOriginalFromAddition(t *testing.T) {
	original := cdcl.OriginalUnitKey(cdcl.Lit(1))
	addition := cdcl.AdditionUnitKey(cdcl.Lit(1))
	assert.NotEqual(t, encodeID(original), encodeID(addition))
}

func TestEncodeIDDistinguishesArenaKinds(t *testing.T) {
	keys := map[string]cdcl.ClauseKey{
		"original-unit":     cdcl.OriginalUnitKey(cdcl.Lit(1)),
		"addition-unit":     cdcl.AdditionUnitKey(cdcl.Lit(1)),
		"original-binary":   {Kind: cdcl.KindOriginalBinary, Index: 0},
		"addition-binary":   {Kind: cdcl.KindAdditionBinary, Index: 0},
		"original-long":     {Kind: cdcl.KindOriginalLong, Index: 0},
		"addition-long":     {Kind: cdcl.KindAdditionLong, Index: 0, Token: 0},
	}
	seen := make(map[string]string)
	for name, k := range keys {
		id := encodeID(k)
		if other, ok := seen[id]; ok {
			t.Fatalf("%s and %s both encode to %q", name, other, id)
		}
		seen[id] = name
	}
}

func TestWriterEmitsOriginalAdditionAndDeletionSteps(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	originalKey := cdcl.OriginalUnitKey(cdcl.Lit(1))
	w.Record(cdcl.Delta{Kind: cdcl.DeltaClauseOriginal, Key: originalKey, Clause: []cdcl.Literal{cdcl.Lit(1)}})

	additionKey := cdcl.ClauseKey{Kind: cdcl.KindAdditionLong, Index: 0, Token: 0}
	w.Record(cdcl.Delta{Kind: cdcl.DeltaResolutionBegin})
	w.Record(cdcl.Delta{Kind: cdcl.DeltaResolutionUsed, Key: originalKey})
	w.Record(cdcl.Delta{Kind: cdcl.DeltaClauseAdded, Key: additionKey, Clause: []cdcl.Literal{cdcl.Lit(2), cdcl.Lit(3)}})

	w.Record(cdcl.Delta{Kind: cdcl.DeltaClauseDeleted, Key: additionKey, Clause: []cdcl.Literal{cdcl.Lit(2), cdcl.Lit(3)}})

	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "o ou+1 1 0", lines[0])
	assert.Equal(t, "a al0.0 2 3 l ou+1 0", lines[1])
	assert.Equal(t, "d al0.0 2 3 0", lines[2])
}

func TestWriterFinalizesEmptyClauseOnRefutation(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	w.Record(cdcl.Delta{Kind: cdcl.DeltaResolutionBegin})
	w.Record(cdcl.Delta{Kind: cdcl.DeltaResolutionUsed, Key: cdcl.OriginalUnitKey(cdcl.Lit(1))})
	w.Record(cdcl.Delta{Kind: cdcl.DeltaClauseAdded})

	require.NoError(t, w.Flush())
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "a 1 l ou+1 0", lines[0])
	assert.Equal(t, "f 1 0", lines[1])
}

func TestCoreBuilderWalksBackToOriginals(t *testing.T) {
	cb := NewCoreBuilder()

	unit1 := cdcl.OriginalUnitKey(cdcl.Lit(1))
	unit2 := cdcl.OriginalUnitKey(cdcl.Neg(2))
	learned := cdcl.ClauseKey{Kind: cdcl.KindAdditionLong, Index: 0, Token: 0}

	cb.Record(cdcl.Delta{Kind: cdcl.DeltaClauseOriginal, Key: unit1, Clause: []cdcl.Literal{cdcl.Lit(1)}})
	cb.Record(cdcl.Delta{Kind: cdcl.DeltaClauseOriginal, Key: unit2, Clause: []cdcl.Literal{cdcl.Neg(2)}})

	cb.Record(cdcl.Delta{Kind: cdcl.DeltaResolutionBegin})
	cb.Record(cdcl.Delta{Kind: cdcl.DeltaResolutionUsed, Key: unit1})
	cb.Record(cdcl.Delta{Kind: cdcl.DeltaResolutionUsed, Key: unit2})
	cb.Record(cdcl.Delta{Kind: cdcl.DeltaClauseAdded, Key: learned, Clause: []cdcl.Literal{cdcl.Lit(3)}})

	cb.Record(cdcl.Delta{Kind: cdcl.DeltaResolutionBegin})
	cb.Record(cdcl.Delta{Kind: cdcl.DeltaResolutionUsed, Key: learned})
	cb.Record(cdcl.Delta{Kind: cdcl.DeltaClauseAdded}) // empty clause: refutation

	core := cb.Core()
	require.Len(t, core, 2)
}

func TestCoreBuilderReturnsNilWithoutRefutation(t *testing.T) {
	cb := NewCoreBuilder()
	cb.Record(cdcl.Delta{Kind: cdcl.DeltaClauseOriginal, Key: cdcl.OriginalUnitKey(cdcl.Lit(1)), Clause: []cdcl.Literal{cdcl.Lit(1)}})
	assert.Nil(t, cb.Core())
}
