package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/xDarkicex/cdclsat/internal/cdcl"
	"github.com/xDarkicex/cdclsat/internal/dimacs"
	"github.com/xDarkicex/cdclsat/internal/frat"
)

// exitCode carries the process exit status out of runE, since cobra itself
// only distinguishes "error" from "no error" and this command needs the
// competition exit codes (10/20/0) on the success path too.
var exitCode int

// cliConfig is the YAML overlay shape for --config, one field per
// cdcl.Config knob. Driver-only options (frat path, core, verbosity) are
// flags only and cannot be set from the overlay.
type cliConfig struct {
	AtomBump           *float64 `yaml:"atom_bump"`
	AtomDecay          *float64 `yaml:"atom_decay"`
	ClauseBump         *float64 `yaml:"clause_bump"`
	ClauseDecay        *float64 `yaml:"clause_decay"`
	LBDBound           *int     `yaml:"lbd_bound"`
	ConflictMod        *int64   `yaml:"conflict_mod"`
	LubyMod            *int64   `yaml:"luby_mod"`
	LubyU              *int64   `yaml:"luby_u"`
	PhaseSaving        *bool    `yaml:"phase_saving"`
	PolarityLean       *float64 `yaml:"polarity_lean"`
	Preprocessing      *bool    `yaml:"preprocessing"`
	RandomDecisionBias *float64 `yaml:"random_decision_bias"`
	Restarts           *bool    `yaml:"restarts"`
	StoppingCriteria   *string  `yaml:"stopping_criteria"`
	Subsumption        *bool    `yaml:"subsumption"`
	TimeLimitSeconds   *float64 `yaml:"time_limit"`
	VSIDS              *string  `yaml:"vsids"`
}

func (c cliConfig) applyTo(cfg *cdcl.Config) error {
	if c.AtomBump != nil {
		cfg.AtomBump = *c.AtomBump
	}
	if c.AtomDecay != nil {
		cfg.AtomDecay = *c.AtomDecay
	}
	if c.ClauseBump != nil {
		cfg.ClauseBump = *c.ClauseBump
	}
	if c.ClauseDecay != nil {
		cfg.ClauseDecay = *c.ClauseDecay
	}
	if c.LBDBound != nil {
		cfg.LBDBound = *c.LBDBound
	}
	if c.ConflictMod != nil {
		cfg.ConflictMod = *c.ConflictMod
	}
	if c.LubyMod != nil {
		cfg.LubyMod = *c.LubyMod
	}
	if c.LubyU != nil {
		cfg.LubyU = *c.LubyU
	}
	if c.PhaseSaving != nil {
		cfg.PhaseSaving = *c.PhaseSaving
	}
	if c.PolarityLean != nil {
		cfg.PolarityLean = *c.PolarityLean
	}
	if c.Preprocessing != nil {
		cfg.Preprocessing = *c.Preprocessing
	}
	if c.RandomDecisionBias != nil {
		cfg.RandomDecisionBias = *c.RandomDecisionBias
	}
	if c.Restarts != nil {
		cfg.Restarts = *c.Restarts
	}
	if c.StoppingCriteria != nil {
		sc, err := parseStoppingCriteria(*c.StoppingCriteria)
		if err != nil {
			return err
		}
		cfg.StoppingCriteria = sc
	}
	if c.Subsumption != nil {
		cfg.Subsumption = *c.Subsumption
	}
	if c.TimeLimitSeconds != nil {
		cfg.TimeLimitSeconds = *c.TimeLimitSeconds
	}
	if c.VSIDS != nil {
		v, err := parseVSIDS(*c.VSIDS)
		if err != nil {
			return err
		}
		cfg.VSIDS = v
	}
	return nil
}

func parseStoppingCriteria(s string) (cdcl.StoppingCriteria, error) {
	switch s {
	case "FirstUIP", "":
		return cdcl.StoppingFirstUIP, nil
	case "None":
		return cdcl.StoppingNone, nil
	default:
		return 0, fmt.Errorf("stopping_criteria: want FirstUIP or None, got %q", s)
	}
}

func parseVSIDS(s string) (cdcl.VSIDSVariant, error) {
	switch s {
	case "MiniSAT", "":
		return cdcl.VSIDSMiniSAT, nil
	case "Chaff":
		return cdcl.VSIDSChaff, nil
	default:
		return 0, fmt.Errorf("vsids: want MiniSAT or Chaff, got %q", s)
	}
}

type rootOptions struct {
	configPath string
	fratPath   string
	printCore  bool
	verbose    bool

	cfg cdcl.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{cfg: cdcl.DefaultConfig()}

	cmd := &cobra.Command{
		Use:   "cdclsat [flags] <file.cnf>",
		Short: "Solve a DIMACS CNF formula with a conflict-driven clause-learning engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(opts, args[0])
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.cfg.AtomBump, "atom-bump", opts.cfg.AtomBump, "VSIDS bump increment for atoms")
	f.Float64Var(&opts.cfg.AtomDecay, "atom-decay", opts.cfg.AtomDecay, "VSIDS decay factor for atoms")
	f.Float64Var(&opts.cfg.ClauseBump, "clause-bump", opts.cfg.ClauseBump, "activity bump increment for addition clauses")
	f.Float64Var(&opts.cfg.ClauseDecay, "clause-decay", opts.cfg.ClauseDecay, "activity decay factor for addition clauses")
	f.IntVar(&opts.cfg.LBDBound, "lbd-bound", opts.cfg.LBDBound, "retain addition clauses with LBD <= bound during reduction")
	f.Int64Var(&opts.cfg.ConflictMod, "conflict-mod", opts.cfg.ConflictMod, "conflicts between reduction passes")
	f.Int64Var(&opts.cfg.LubyMod, "luby-mod", opts.cfg.LubyMod, "restarts per step of the Luby sequence")
	f.Int64Var(&opts.cfg.LubyU, "luby-u", opts.cfg.LubyU, "Luby sequence scale factor (conflicts per Luby unit)")
	f.BoolVar(&opts.cfg.PhaseSaving, "phase-saving", opts.cfg.PhaseSaving, "reuse an atom's previous polarity on decision")
	f.Float64Var(&opts.cfg.PolarityLean, "polarity-lean", opts.cfg.PolarityLean, "probability of choosing true polarity with no phase memory")
	f.BoolVar(&opts.cfg.Preprocessing, "preprocessing", opts.cfg.Preprocessing, "enable pure-literal elimination before the first decision")
	f.Float64Var(&opts.cfg.RandomDecisionBias, "random-decision-bias", opts.cfg.RandomDecisionBias, "probability of a uniform random decision")
	f.BoolVar(&opts.cfg.Restarts, "restarts", opts.cfg.Restarts, "enable Luby-scheduled restarts")
	f.String("stopping-criteria", "FirstUIP", "resolution stop condition: FirstUIP or None")
	f.BoolVar(&opts.cfg.Subsumption, "subsumption", opts.cfg.Subsumption, "enable on-the-fly self-subsumption during analysis")
	f.Float64Var(&opts.cfg.TimeLimitSeconds, "time-limit", opts.cfg.TimeLimitSeconds, "seconds before giving up (0 = unlimited)")
	f.String("vsids", "MiniSAT", "which atoms a conflict bumps: MiniSAT or Chaff")
	f.StringVar(&opts.configPath, "config", "", "YAML file overlaying these options")
	f.StringVar(&opts.fratPath, "frat", "", "write an FRAT proof log to this path")
	f.BoolVar(&opts.printCore, "core", false, "on UNSATISFIABLE, print the unsat core in DIMACS form")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cobra.OnInitialize(func() {
		if sc, _ := f.GetString("stopping-criteria"); sc != "" {
			if v, err := parseStoppingCriteria(sc); err == nil {
				opts.cfg.StoppingCriteria = v
			}
		}
		if vs, _ := f.GetString("vsids"); vs != "" {
			if v, err := parseVSIDS(vs); err == nil {
				opts.cfg.VSIDS = v
			}
		}
	})

	return cmd
}

func runSolve(opts *rootOptions, path string) error {
	if opts.configPath != "" {
		raw, err := os.ReadFile(opts.configPath)
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
		var overlay cliConfig
		if err := yaml.Unmarshal(raw, &overlay); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
		if err := overlay.applyTo(&opts.cfg); err != nil {
			return fmt.Errorf("applying config: %w", err)
		}
	}
	if err := opts.cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	f, err := os.Open(path)
	if err != nil {
		exitCode = 1
		return err
	}
	defer f.Close()

	problem, err := dimacs.Parse(f)
	if err != nil {
		exitCode = 1
		return err
	}

	ctx := cdcl.NewContext(opts.cfg, log)

	var fratWriter *frat.Writer
	var fratFile *os.File
	if opts.fratPath != "" {
		fratFile, err = os.Create(opts.fratPath)
		if err != nil {
			return fmt.Errorf("creating frat file: %w", err)
		}
		defer fratFile.Close()
		fratWriter = frat.NewWriter(fratFile)
		ctx.Subscribe(fratWriter.Record)
	}
	core := frat.NewCoreBuilder()
	ctx.Subscribe(core.Record)

	if err := dimacs.LoadInto(ctx, problem); err != nil {
		exitCode = 1
		return err
	}

	status, err := ctx.Solve()
	if err != nil {
		exitCode = 1
		return err
	}

	if fratWriter != nil {
		fratWriter.Flush()
	}

	switch status {
	case cdcl.StatusSatisfiable:
		fmt.Println("s SATISFIABLE")
		printValuation(ctx)
		exitCode = 10
	case cdcl.StatusUnsatisfiable:
		fmt.Println("s UNSATISFIABLE")
		if opts.printCore {
			printCore(core)
		}
		exitCode = 20
	default:
		fmt.Println("s", status.String())
		exitCode = 0
	}
	return nil
}

func printCore(core *frat.CoreBuilder) {
	clauses := core.Core()
	fmt.Printf("c core %d clauses\n", len(clauses))
	for _, lits := range clauses {
		fmt.Print("c")
		for _, l := range lits {
			fmt.Print(" ", l.String())
		}
		fmt.Println(" 0")
	}
}

func printValuation(ctx *cdcl.Context) {
	fmt.Print("v")
	for _, lit := range ctx.Valuation() {
		fmt.Print(" ", lit.String())
	}
	fmt.Println(" 0")
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}
