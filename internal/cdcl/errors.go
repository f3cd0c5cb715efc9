package cdcl

import "fmt"

// kindError is a small typed-error shape shared by every error family
// below: a namespaced kind plus a human-readable detail.
type kindError struct {
	family string
	kind   string
	detail string
}

func (e *kindError) Error() string {
	if e.detail == "" {
		return fmt.Sprintf("%s: %s", e.family, e.kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.family, e.kind, e.detail)
}

func newErr(family, kind, detail string) *kindError {
	return &kindError{family: family, kind: kind, detail: detail}
}

// BuildError is returned during clause ingestion (add_clause and friends).
type BuildError struct{ *kindError }

func buildErr(kind, detail string) *BuildError {
	return &BuildError{newErr("build", kind, detail)}
}

var (
	ErrBuildEmpty        = buildErr("Empty", "clause has no literals")
	ErrBuildTautology    = buildErr("Tautology", "clause contains a literal and its negation")
	ErrBuildUnsatisfiable = buildErr("Unsatisfiable", "clause forces a conflict at level zero")
)

// ClauseDBError is returned by clause-store operations.
type ClauseDBError struct{ *kindError }

func clauseDBErr(kind, detail string) *ClauseDBError {
	return &ClauseDBError{newErr("clausedb", kind, detail)}
}

var (
	ErrEmptyClause      = clauseDBErr("EmptyClause", "")
	ErrStorageExhausted = clauseDBErr("StorageExhausted", "no free slot and arena at capacity")
	ErrMissing          = clauseDBErr("Missing", "no clause stored for key")
	ErrInvalidKeyIndex  = clauseDBErr("InvalidKeyIndex", "index out of range for arena")
	ErrInvalidKeyToken  = clauseDBErr("InvalidKeyToken", "slot token does not match key: clause was evicted")
	ErrGetUnitKey       = clauseDBErr("GetUnitKey", "unit clauses are not retrieved by arena lookup")
	ErrValuationConflict = clauseDBErr("ValuationConflict", "literal already falsified at level zero")
	ErrDecisionMade     = clauseDBErr("DecisionMade", "operation only valid before the first decision")
)

// AtomDBError is returned by the atom store.
type AtomDBError struct{ *kindError }

var ErrAtomsExhausted = &AtomDBError{newErr("atomdb", "AtomsExhausted", "no more atom ids available")}

// BCPError is returned by the propagation engine.
type BCPError struct {
	*kindError
	Key ClauseKey
}

// ErrConflict reports that propagating the watches of Key falsified the
// clause entirely.
func ErrConflict(key ClauseKey) *BCPError {
	return &BCPError{newErr("bcp", "Conflict", key.String()), key}
}

var ErrCorruptWatch = &BCPError{newErr("bcp", "CorruptWatch", "watch list referenced a clause that could not be loaded")}

// ResolutionBufferError is returned while driving conflict analysis.
type ResolutionBufferError struct{ *kindError }

var (
	ErrSatisfiedClause = &ResolutionBufferError{newErr("resolution", "SatisfiedClause", "merged clause is satisfied on the target valuation")}
	ErrLostClause       = &ResolutionBufferError{newErr("resolution", "LostClause", "a premise clause could not be loaded during resolution")}
)

// SubsumptionError is returned by ClauseDB.Subsume.
type SubsumptionError struct{ *kindError }

var (
	ErrClauseTooShort = &SubsumptionError{newErr("subsumption", "ClauseTooShort", "unit and binary clauses cannot be strengthened further")}
	ErrTransferFailure = &SubsumptionError{newErr("subsumption", "TransferFailure", "failed to transfer clause to binary arena")}
)

// WrapClauseDB adapts a ClauseDBError into a SubsumptionError, used when
// Subsume's in-place strengthening hits a store-level failure.
func WrapClauseDB(err error) *SubsumptionError {
	return &SubsumptionError{newErr("subsumption", "ClauseDB", err.Error())}
}

// ParseError is returned by the DIMACS parser collaborator (internal/dimacs),
// declared here so both packages share one vocabulary.
type ParseError struct{ *kindError }

func NewParseError(kind, detail string) *ParseError {
	return &ParseError{newErr("parse", kind, detail)}
}

// FRATError is returned by the FRAT writer/core-builder collaborator.
type FRATError struct{ *kindError }

func NewFRATError(kind, detail string) *FRATError {
	return &FRATError{newErr("frat", kind, detail)}
}
