package cdcl

import "go.uber.org/zap"

// DeltaKind tags the kind of change a Delta reports.
type DeltaKind uint8

const (
	DeltaAssignment DeltaKind = iota
	DeltaUnassignment
	DeltaClauseOriginal
	DeltaClauseAdded
	DeltaClauseDeleted
	DeltaClauseSubsumed
	DeltaResolutionBegin
	DeltaResolutionUsed
	DeltaResolutionEnd
	DeltaRestart
	DeltaLevelZero
)

func (k DeltaKind) String() string {
	switch k {
	case DeltaAssignment:
		return "assignment"
	case DeltaUnassignment:
		return "unassignment"
	case DeltaClauseOriginal:
		return "clause_original"
	case DeltaClauseAdded:
		return "clause_added"
	case DeltaClauseDeleted:
		return "clause_deleted"
	case DeltaClauseSubsumed:
		return "clause_subsumed"
	case DeltaResolutionBegin:
		return "resolution_begin"
	case DeltaResolutionUsed:
		return "resolution_used"
	case DeltaResolutionEnd:
		return "resolution_end"
	case DeltaRestart:
		return "restart"
	case DeltaLevelZero:
		return "level_zero"
	default:
		return "unknown"
	}
}

// Delta is one observable step of the solve, handed to every registered
// Observer. Fields not meaningful for a given Kind are left zero.
type Delta struct {
	Kind    DeltaKind
	Lit     Literal
	Source  Source
	Key     ClauseKey
	Clause  []Literal
	Level   int
}

// Observer receives every Delta the solver emits, in emission order.
type Observer func(Delta)

// Terminate is polled between decisions; returning true stops the solve
// loop with StatusTerminated regardless of its progress.
type Terminate func() bool

// Dispatch is the solver's event bus: a small observer list plus a zap
// logger for the ambient structured-logging trail kept alongside solver
// state changes.
type Dispatch struct {
	observers []Observer
	log       *zap.Logger
}

// NewDispatch builds a bus backed by log. A nil logger falls back to zap.NewNop().
func NewDispatch(log *zap.Logger) *Dispatch {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatch{log: log}
}

// Subscribe registers obs to receive every future Delta.
func (d *Dispatch) Subscribe(obs Observer) {
	d.observers = append(d.observers, obs)
}

func (d *Dispatch) emit(delta Delta) {
	if d == nil {
		return
	}
	for _, obs := range d.observers {
		obs(delta)
	}
	if ce := d.log.Check(zap.DebugLevel, "delta"); ce != nil {
		ce.Write(
			zap.String("kind", delta.Kind.String()),
			zap.Uint32("atom", uint32(delta.Lit.A)),
			zap.Bool("pos", delta.Lit.Pos),
			zap.Int("level", delta.Level),
		)
	}
}
