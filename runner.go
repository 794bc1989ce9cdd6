package numbench

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
)

// Runner executes plans sequentially. Trials never overlap.
type Runner struct {
	// Trials per (operation, size) pair; DefaultTrials when zero.
	Trials int
	// Library is recorded in every report this runner produces.
	Library string
	// Rand drives input generation. A nil Rand is replaced by an unseeded
	// generator on first use.
	Rand   *rand.Rand
	Logger *slog.Logger
	// Observe, if set, is called after every (operation, size) summary.
	Observe func(family Family, label string, size Size, s Summary)
}

// NewRunner returns a runner with default trial count. A non-zero seed
// makes input generation deterministic.
func NewRunner(library string, seed uint64) *Runner {
	r := &Runner{
		Trials:  DefaultTrials,
		Library: library,
		Logger:  slog.Default(),
	}
	if seed != 0 {
		r.Rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	return r
}

// RunPlan benchmarks every op of the plan at every size and returns the
// report. The first failing operation aborts the whole plan.
func (r *Runner) RunPlan(plan Plan) (*Report, error) {
	if r.Rand == nil {
		r.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if r.Logger == nil {
		r.Logger = slog.Default()
	}
	trials := r.Trials
	if trials <= 0 {
		trials = DefaultTrials
	}

	report := &Report{
		Family:  plan.Family,
		Library: r.Library,
		Sizes:   make([]string, 0, len(plan.Sizes)),
		Rows:    make([]Row, 0, len(plan.Ops)),
	}
	for _, sz := range plan.Sizes {
		report.Sizes = append(report.Sizes, sz.Label)
	}

	for _, op := range plan.Ops {
		label := op.Label.String()
		row := Row{Label: label, Stats: make([]Summary, 0, len(plan.Sizes))}
		for _, sz := range plan.Sizes {
			samples, err := Sample(trials, func() (Call, error) {
				return op.Prepare(r.Rand, sz)
			})
			if err != nil {
				return nil, fmt.Errorf("%s %s at size %s: %w", plan.Family, label, sz.Label, err)
			}
			s, err := Summarize(samples)
			if err != nil {
				return nil, fmt.Errorf("%s %s at size %s: %w", plan.Family, label, sz.Label, err)
			}
			r.Logger.Debug("measured", "family", plan.Family, "op", label, "size", sz.Label,
				"mean_ms", s.Mean, "std_ms", s.Std)
			if r.Observe != nil {
				r.Observe(plan.Family, label, sz, s)
			}
			row.Stats = append(row.Stats, s)
		}
		r.Logger.Info("op done", "family", plan.Family, "op", label)
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}
