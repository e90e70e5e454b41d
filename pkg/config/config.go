// Package config builds the single immutable Config every firmament
// process starts from, following the flag-based construction style
// glog itself registers into the default FlagSet (spec.md §10.2).
//
// Grounded on NickrenREN-firmament-go/cmd/firmament/main.go, which
// constructs its dependencies inline with no flags of its own; this
// package extends the same stdlib flag.FlagSet glog already populates
// rather than introducing a second configuration convention.
package config

import (
	"flag"
	"time"

	"github.com/ms705/firmament/pkg/scheduling/costmodel"
)

// Config is built once at process start and never mutated afterwards;
// every field is read by value wherever it's needed.
type Config struct {
	// CostModel selects the CostModeler the scheduler runs (spec.md §4.2).
	CostModel costmodel.CostModelType

	// MaxTasksPerPu bounds how many tasks may share a single processing
	// unit (spec.md §4.1 leaf capacity).
	MaxTasksPerPu uint64

	// TimeDependentCostUpdateFrequency is how often arc costs that decay
	// with task waiting time are refreshed, independent of any event
	// triggering a scheduling round.
	TimeDependentCostUpdateFrequency time.Duration

	// DebugCostModel turns on the CostModeler's DebugInfo/DebugInfoCSV
	// dumps after every solver run.
	DebugCostModel bool

	// DebugOutputDir is where cost model debug output
	// (cost_model_<n>.txt/.csv) is written when DebugCostModel is set.
	DebugOutputDir string

	// SolverBinary is the path to the external flowlessly/cs2-compatible
	// min-cost max-flow solver executable.
	SolverBinary string

	// SolverTimeout bounds how long a single solver invocation may run
	// before it is killed and the scheduling round abandoned.
	SolverTimeout time.Duration
}

const defaultTimeDependentCostUpdateFrequencyMicros = 10000000

// New registers its flags into the default FlagSet and builds a Config
// from them, calling flag.Parse itself when the command line has not
// been parsed yet. Call it once, before any other flag.Parse: a parse
// that runs before New does not know these flags.
func New() *Config {
	costModel := flag.Int64("cost_model", int64(costmodel.CostModelTrivial),
		"cost model to run the scheduler with (see pkg/scheduling/costmodel.CostModelType)")
	maxTasksPerPu := flag.Uint64("max_tasks_per_pu", 1,
		"maximum number of tasks that may be scheduled onto a single processing unit")
	updateFreqMicros := flag.Int64("time_dependent_cost_update_frequency_us",
		defaultTimeDependentCostUpdateFrequencyMicros,
		"how often, in microseconds, time-dependent arc costs are refreshed")
	debugCostModel := flag.Bool("debug_cost_model", false,
		"dump cost model debug info after every solver run")
	debugOutputDir := flag.String("debug_output_dir", "/tmp/firmament",
		"directory for cost model debug dumps")
	solverBinary := flag.String("solver_binary", "flowlessly",
		"path to the external min-cost max-flow solver binary")
	solverTimeout := flag.Duration("solver_timeout", 30*time.Second,
		"maximum duration a single solver invocation may run")

	if !flag.Parsed() {
		flag.Parse()
	}

	return &Config{
		CostModel:                        costmodel.CostModelType(*costModel),
		MaxTasksPerPu:                    *maxTasksPerPu,
		TimeDependentCostUpdateFrequency: time.Duration(*updateFreqMicros) * time.Microsecond,
		DebugCostModel:                   *debugCostModel,
		DebugOutputDir:                   *debugOutputDir,
		SolverBinary:                     *solverBinary,
		SolverTimeout:                    *solverTimeout,
	}
}
