package cdcl

// Stats accumulates observable outcomes of a solve: nothing here drives
// solver behaviour, it is read-only bookkeeping surfaced to callers
// through Context.Stats (tests read it; the CLI does not).
type Stats struct {
	Decisions     int64
	Propagations  int64
	Conflicts     int64
	Restarts      int64
	Reductions    int64
	LearnedTotal  int64
	DeletedTotal  int64
	SubsumedTotal int64
	MaxDecisionDepth int
}

func (s *Stats) recordDecision(depth int) {
	s.Decisions++
	if depth > s.MaxDecisionDepth {
		s.MaxDecisionDepth = depth
	}
}

func (s *Stats) recordConflict() { s.Conflicts++ }
func (s *Stats) recordRestart()  { s.Restarts++ }
func (s *Stats) recordReduction(deleted int) {
	s.Reductions++
	s.DeletedTotal += int64(deleted)
}
func (s *Stats) recordLearned()   { s.LearnedTotal++ }
func (s *Stats) recordSubsumed()  { s.SubsumedTotal++ }
