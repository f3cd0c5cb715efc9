// Package frat writes an FRAT-style proof log from a cdcl.Context's
// dispatch stream, and reconstructs an unsatisfiable core from it.
package frat

import (
	"bufio"
	"fmt"
	"io"

	"github.com/xDarkicex/cdclsat/internal/cdcl"
)

// idEncoding externalizes a cdcl.ClauseKey into a proof step id, using a
// distinct prefix per clause kind so a consumer never needs internal
// knowledge of the arena layout to tell two keys apart.
const (
	prefixOriginalUnitPos  = "ou+"
	prefixOriginalUnitNeg  = "ou-"
	prefixAdditionUnitPos  = "au+"
	prefixAdditionUnitNeg  = "au-"
	prefixOriginalBinary   = "ob"
	prefixAdditionBinary   = "ab"
	prefixOriginalLong     = "ol"
	prefixAdditionLong     = "al"
	emptyClauseID          = "1"
)

// encodeID renders key as a step id string. Unit clauses are additionally
// tagged by polarity so the positive and negative unit over the same atom
// never collide.
func encodeID(key cdcl.ClauseKey) string {
	switch key.Kind {
	case cdcl.KindOriginalUnit:
		if key.Lit.Pos {
			return prefixOriginalUnitPos + key.Lit.String()
		}
		return prefixOriginalUnitNeg + key.Lit.String()
	case cdcl.KindAdditionUnit:
		if key.Lit.Pos {
			return prefixAdditionUnitPos + key.Lit.String()
		}
		return prefixAdditionUnitNeg + key.Lit.String()
	case cdcl.KindOriginalBinary:
		return fmt.Sprintf("%s%d", prefixOriginalBinary, key.Index)
	case cdcl.KindAdditionBinary:
		return fmt.Sprintf("%s%d", prefixAdditionBinary, key.Index)
	case cdcl.KindOriginalLong:
		return fmt.Sprintf("%s%d", prefixOriginalLong, key.Index)
	default:
		return fmt.Sprintf("%s%d.%d", prefixAdditionLong, key.Index, key.Token)
	}
}

// Writer accumulates FRAT step lines as dispatches arrive and flushes them
// to an io.Writer. It is meant to be driven by subscribing Record to a
// cdcl.Context's dispatch bus.
type Writer struct {
	out       *bufio.Writer
	premises  []string
	err       error
	unsatDone bool
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{out: bufio.NewWriter(w)}
}

// Record is a cdcl.Observer: pass it to Context.Subscribe.
func (fw *Writer) Record(d cdcl.Delta) {
	if fw.err != nil {
		return
	}
	switch d.Kind {
	case cdcl.DeltaClauseOriginal:
		fw.writeStep("o", encodeID(d.Key), d.Clause, nil)
	case cdcl.DeltaResolutionBegin:
		fw.premises = fw.premises[:0]
	case cdcl.DeltaResolutionUsed:
		fw.premises = append(fw.premises, encodeID(d.Key))
	case cdcl.DeltaClauseAdded:
		if len(d.Clause) == 0 && !fw.unsatDone {
			fw.writeStep("a", emptyClauseID, nil, fw.premises)
			fw.writeStep("f", emptyClauseID, nil, nil)
			fw.unsatDone = true
			return
		}
		fw.writeStep("a", encodeID(d.Key), d.Clause, fw.premises)
	case cdcl.DeltaClauseDeleted:
		fw.writeStep("d", encodeID(d.Key), d.Clause, nil)
	}
}

func (fw *Writer) writeStep(tag, id string, lits []cdcl.Literal, premises []string) {
	if fw.err != nil {
		return
	}
	fmt.Fprintf(fw.out, "%s %s", tag, id)
	for _, l := range lits {
		fmt.Fprintf(fw.out, " %s", l)
	}
	if len(premises) > 0 {
		fmt.Fprint(fw.out, " l")
		for _, p := range premises {
			fmt.Fprintf(fw.out, " %s", p)
		}
	}
	if _, err := fmt.Fprint(fw.out, " 0\n"); err != nil {
		fw.err = err
	}
}

// Flush writes any buffered bytes, reporting the first write error seen.
func (fw *Writer) Flush() error {
	if fw.err != nil {
		return fw.err
	}
	return fw.out.Flush()
}

// Finalize emits an "f" step for every clause key still active at search
// termination, so a consumer can distinguish "deleted" from "still live
// but unused by the final proof".
func (fw *Writer) Finalize(keys []cdcl.ClauseKey) {
	for _, k := range keys {
		fw.writeStep("f", encodeID(k), nil, nil)
	}
}
