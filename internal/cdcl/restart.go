package cdcl

// luby computes the i-th term (0-indexed) of the Luby sequence: luby(0),
// luby(1), luby(2), ... yield 1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8,
// ..., used to schedule restarts. Computed iteratively so arbitrarily large
// i never overflows the recursion depth a naive recursive definition would
// hit.
func luby(i int64) int64 {
	// Find the sequence length 2^k - 1 that contains i.
	var size, seq int64 = 1, 0
	for size < i+1 {
		seq++
		size = 2*size + 1
	}
	for size != i+1 {
		size = (size - 1) / 2
		seq--
		i = i % size
	}
	return 1 << uint(seq)
}

// restartScheduler tracks conflict counts and decides when the solve loop
// should restart (undo every decision, keep learned clauses) or reduce
// (evict low-activity addition-long clauses).
type restartScheduler struct {
	lubyIndex       int64
	conflictsSince  int64
	conflictsTotal  int64
}

func newRestartScheduler() *restartScheduler { return &restartScheduler{} }

// onConflict records one conflict and reports whether a restart is due.
func (s *restartScheduler) onConflict(cfg Config) bool {
	s.conflictsSince++
	s.conflictsTotal++
	if !cfg.Restarts {
		return false
	}
	threshold := cfg.LubyU * luby(s.lubyIndex/cfg.LubyMod)
	if s.conflictsSince >= threshold {
		s.conflictsSince = 0
		s.lubyIndex++
		return true
	}
	return false
}

// dueForReduction reports whether enough conflicts have passed since the
// last clause-database reduction, per the configured conflict_mod.
func (s *restartScheduler) dueForReduction(cfg Config, last int64) bool {
	return s.conflictsTotal-last >= cfg.ConflictMod
}
