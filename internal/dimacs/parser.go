// Package dimacs reads the DIMACS CNF format: comment lines starting with
// "c", a single problem line "p cnf <atoms> <clauses>", and a body of
// clauses terminated by 0, optionally followed by a "%" end marker.
package dimacs

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/xDarkicex/cdclsat/internal/cdcl"
)

// Problem is the parsed result: the declared atom and clause counts plus
// every clause as a slice of cdcl.Literal, ready for cdcl.Context.AddClause.
type Problem struct {
	NumAtoms   int
	NumClauses int
	Clauses    [][]cdcl.Literal
}

// Parse reads a DIMACS CNF stream from r.
func Parse(r io.Reader) (*Problem, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	p := &Problem{}
	sawProblemLine := false
	var pending []cdcl.Literal

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		if line == "%" {
			break
		}
		if strings.HasPrefix(line, "p") {
			fields := strings.Fields(line)
			if len(fields) != 4 || fields[0] != "p" || fields[1] != "cnf" {
				return nil, cdcl.NewParseError("ProblemLine", "expected \"p cnf <atoms> <clauses>\", got: "+line)
			}
			atoms, err1 := strconv.Atoi(fields[2])
			clauses, err2 := strconv.Atoi(fields[3])
			if err1 != nil || err2 != nil || atoms < 0 || clauses < 0 {
				return nil, cdcl.NewParseError("ProblemLine", "atom/clause counts must be non-negative integers")
			}
			p.NumAtoms = atoms
			p.NumClauses = clauses
			p.Clauses = make([][]cdcl.Literal, 0, clauses)
			sawProblemLine = true
			continue
		}
		if !sawProblemLine {
			return nil, cdcl.NewParseError("MissingProblemLine", "clause data appeared before the \"p cnf\" line")
		}
		for _, tok := range strings.Fields(line) {
			n, err := strconv.Atoi(tok)
			if err != nil {
				return nil, cdcl.NewParseError("Token", "not an integer: "+tok)
			}
			if n == 0 {
				p.Clauses = append(p.Clauses, pending)
				pending = nil
				continue
			}
			atom := cdcl.Atom(n)
			pos := true
			if n < 0 {
				atom = cdcl.Atom(-n)
				pos = false
			}
			pending = append(pending, cdcl.Literal{A: atom, Pos: pos})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !sawProblemLine {
		return nil, cdcl.NewParseError("MissingProblemLine", "input contained no \"p cnf\" line")
	}
	if len(pending) > 0 {
		return nil, cdcl.NewParseError("UnterminatedClause", "final clause was not terminated by 0")
	}
	return p, nil
}

// LoadInto allocates every atom the problem declares in ctx and stores each
// clause via ctx.AddClause, stopping at the first build error (typically a
// conflicting unit clause, reported as cdcl.ErrBuildUnsatisfiable). A
// tautological clause is not an error: it is satisfied by construction and
// skipped rather than loaded.
func LoadInto(ctx *cdcl.Context, p *Problem) error {
	for a := 1; a <= p.NumAtoms; a++ {
		if _, err := ctx.FreshAtom(cdcl.PhaseNone); err != nil {
			return err
		}
	}
	for _, lits := range p.Clauses {
		if _, err := ctx.AddClause(lits); err != nil && err != cdcl.ErrBuildTautology {
			return err
		}
	}
	return nil
}
