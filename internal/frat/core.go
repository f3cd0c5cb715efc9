package frat

import "github.com/xDarkicex/cdclsat/internal/cdcl"

// CoreBuilder replays ClauseAdded/ResolutionUsed deltas to compute the
// minimal set of original clauses a refutation actually depends on,
// independent of whether a proof file is ever written to disk.
type CoreBuilder struct {
	premisesOf map[string][]cdcl.ClauseKey
	originals  map[string][]cdcl.Literal
	pending    []cdcl.ClauseKey
	refutation string
}

// NewCoreBuilder returns an empty builder.
func NewCoreBuilder() *CoreBuilder {
	return &CoreBuilder{
		premisesOf: make(map[string][]cdcl.ClauseKey),
		originals:  make(map[string][]cdcl.Literal),
	}
}

// Record is a cdcl.Observer: pass it to Context.Subscribe.
func (cb *CoreBuilder) Record(d cdcl.Delta) {
	switch d.Kind {
	case cdcl.DeltaClauseOriginal:
		cb.originals[encodeID(d.Key)] = d.Clause
	case cdcl.DeltaResolutionBegin:
		cb.pending = cb.pending[:0]
	case cdcl.DeltaResolutionUsed:
		cb.pending = append(cb.pending, d.Key)
	case cdcl.DeltaClauseAdded:
		id := emptyClauseID
		if len(d.Clause) != 0 {
			id = encodeID(d.Key)
		}
		premises := make([]cdcl.ClauseKey, len(cb.pending))
		copy(premises, cb.pending)
		cb.premisesOf[id] = premises
		if len(d.Clause) == 0 {
			cb.refutation = id
		}
	}
}

// Core walks the premise graph backward from the refutation (the empty
// clause) to every original clause it transitively depends on. It returns
// nil if no refutation has been recorded.
func (cb *CoreBuilder) Core() [][]cdcl.Literal {
	if cb.refutation == "" {
		return nil
	}
	seen := make(map[string]bool)
	var core [][]cdcl.Literal
	var walk func(id string)
	walk = func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		if lits, ok := cb.originals[id]; ok {
			core = append(core, lits)
			return
		}
		for _, premise := range cb.premisesOf[id] {
			walk(encodeID(premise))
		}
	}
	walk(cb.refutation)
	return core
}
