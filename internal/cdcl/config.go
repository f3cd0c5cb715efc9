package cdcl

import "fmt"

// VSIDSVariant selects which atoms a conflict bumps.
type VSIDSVariant uint8

const (
	VSIDSMiniSAT VSIDSVariant = iota // bump only the learned clause's atoms
	VSIDSChaff                       // bump every atom touched during resolution
)

// StoppingCriteria selects when conflict analysis stops resolving.
type StoppingCriteria uint8

const (
	StoppingFirstUIP StoppingCriteria = iota
	StoppingNone
)

// Config enumerates every tunable knob the solve loop consults, each with
// the valid range validated eagerly rather than failing deep in the solve
// loop.
type Config struct {
	AtomBump  float64
	AtomDecay float64 // [0, 1)

	ClauseBump  float64
	ClauseDecay float64 // [0, 1)

	LBDBound int // retain addition clauses with LBD <= bound during reduction

	ConflictMod int64 // conflicts between reduction passes
	LubyMod     int64 // restarts per step of the Luby sequence
	LubyU       int64 // Luby scale factor: conflicts per Luby unit

	PhaseSaving bool

	PolarityLean float64 // [0, 1]: probability of choosing true with no phase memory

	Preprocessing bool // enable pure-literal elimination before first decision

	RandomDecisionBias float64 // [0, 1]: probability of a uniform random decision

	Restarts bool

	StoppingCriteria StoppingCriteria

	Subsumption bool

	TimeLimitSeconds float64 // 0 = unlimited

	VSIDS VSIDSVariant
}

// DefaultConfig returns the conventional MiniSAT-family defaults.
func DefaultConfig() Config {
	return Config{
		AtomBump:           1.0,
		AtomDecay:          0.95,
		ClauseBump:         1.0,
		ClauseDecay:        0.999,
		LBDBound:           4,
		ConflictMod:        15000,
		LubyMod:            512,
		LubyU:              32,
		PhaseSaving:        true,
		PolarityLean:       0.5,
		Preprocessing:      true,
		RandomDecisionBias: 0.0,
		Restarts:           true,
		StoppingCriteria:   StoppingFirstUIP,
		Subsumption:        true,
		TimeLimitSeconds:   0,
		VSIDS:              VSIDSMiniSAT,
	}
}

// Validate checks every ranged option, returning the first violation found.
func (c Config) Validate() error {
	inUnit := func(name string, v float64) error {
		if v < 0 || v > 1 {
			return fmt.Errorf("config: %s must be in [0,1], got %v", name, v)
		}
		return nil
	}
	if err := inUnit("atom_decay", c.AtomDecay); err != nil {
		return err
	}
	if c.AtomDecay >= 1 {
		return fmt.Errorf("config: atom_decay must be < 1, got %v", c.AtomDecay)
	}
	if err := inUnit("clause_decay", c.ClauseDecay); err != nil {
		return err
	}
	if c.ClauseDecay >= 1 {
		return fmt.Errorf("config: clause_decay must be < 1, got %v", c.ClauseDecay)
	}
	if err := inUnit("polarity_lean", c.PolarityLean); err != nil {
		return err
	}
	if err := inUnit("random_decision_bias", c.RandomDecisionBias); err != nil {
		return err
	}
	if c.LBDBound < 0 {
		return fmt.Errorf("config: lbd_bound must be >= 0, got %d", c.LBDBound)
	}
	if c.ConflictMod <= 0 || c.LubyMod <= 0 || c.LubyU <= 0 {
		return fmt.Errorf("config: conflict_mod, luby_mod, and luby_u must be positive")
	}
	if c.TimeLimitSeconds < 0 {
		return fmt.Errorf("config: time_limit must be >= 0, got %v", c.TimeLimitSeconds)
	}
	if c.AtomBump <= 0 || c.ClauseBump <= 0 {
		return fmt.Errorf("config: atom_bump and clause_bump must be positive")
	}
	return nil
}
