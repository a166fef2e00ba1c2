package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/logger"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/opt"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem/bbob"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem/pbo"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/suite"
)

// Summary is the outcome of one run on one problem instance.
type Summary struct {
	logger.Key
	Run          int     `json:"run"`
	Evaluations  int     `json:"evaluations"`
	BestY        float64 `json:"bestY"`
	Optimum      float64 `json:"optimum"`
	OptimumFound bool    `json:"optimumFound"`
}

// Progress is reported after every finished run.
type Progress struct {
	Summary
	Done  int `json:"done"`
	Total int `json:"total"`
}

// Options supplies the collaborators of a run.
type Options struct {
	// Optimizer builds the algorithm of each run. Defaults to mayfly with
	// the configured iterations and population.
	Optimizer opt.Factory
	// Observers receive the evaluation stream next to the attainment
	// loggers, e.g. a trace writer.
	Observers []suite.Observer
	// OnProgress is called after every run.
	OnProgress func(Progress)
}

// Outcome holds everything an experiment produced.
type Outcome struct {
	Config   Config        `json:"config"`
	Maximize bool          `json:"maximize"`
	Runs     []Summary     `json:"runs"`
	Elapsed  time.Duration `json:"elapsed"`
	EAH      *logger.EAH   `json:"-"`
	EAF      *logger.EAF   `json:"-"`
}

// Run executes the experiment described by cfg. Problems are handled in
// suite order; every problem gets cfg.Runs runs seeded cfg.Seed+run.
// Cancelling ctx stops the experiment between runs.
func Run(ctx context.Context, cfg Config, opts Options) (*Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Optimizer == nil {
		opts.Optimizer = opt.MayflyFactory(cfg.Iterations, cfg.Population)
	}

	perf, budget, err := cfg.Scales()
	if err != nil {
		return nil, err
	}
	var loggerOpts []logger.Option
	if cfg.RawObjective {
		loggerOpts = append(loggerOpts, logger.WithRawObjective())
	}

	out := &Outcome{
		Config: cfg,
		EAH:    logger.NewEAH(perf, budget, loggerOpts...),
		EAF:    logger.NewEAF(loggerOpts...),
	}
	observers := append([]suite.Observer{out.EAH, out.EAF}, opts.Observers...)
	observer := suite.Tee(observers...)

	start := time.Now()
	slog.Info("Starting experiment",
		"name", cfg.Name,
		"family", cfg.Family,
		"runs", cfg.Runs,
		"budget", cfg.Budget,
	)

	switch cfg.Family {
	case FamilyBBOB:
		s, err := suite.New(bbob.NewRegistry(), cfg.IDs, cfg.Instances, cfg.Dimensions)
		if err != nil {
			return nil, err
		}
		if err := runSuite(ctx, s, observer, cfg, opts, out, identity); err != nil {
			return out, err
		}
	case FamilyPBO:
		s, err := suite.New(pbo.NewRegistry(), cfg.IDs, cfg.Instances, cfg.Dimensions)
		if err != nil {
			return nil, err
		}
		if err := runSuite(ctx, s, observer, cfg, opts, out, Binarize); err != nil {
			return out, err
		}
	default:
		return nil, &problem.ConfigurationError{Field: "family", Value: cfg.Family, Reason: "is not registered"}
	}

	out.EAH.Close()
	out.EAF.Close()
	out.Elapsed = time.Since(start)
	slog.Info("Experiment complete",
		"name", cfg.Name,
		"runs", len(out.Runs),
		"elapsed", out.Elapsed,
	)
	return out, nil
}

func identity(x []float64) []float64 { return x }

// Binarize maps a continuous point to bits: coordinates >= 0.5 become 1.
func Binarize(x []float64) []int {
	bits := make([]int, len(x))
	for i, v := range x {
		if v >= 0.5 {
			bits[i] = 1
		}
	}
	return bits
}

func runSuite[T problem.Number](ctx context.Context, s *suite.Suite[T], observer suite.Observer,
	cfg Config, opts Options, out *Outcome, decode func([]float64) []T) error {
	if err := s.Attach(observer); err != nil {
		return err
	}

	total := s.Len() * cfg.Runs
	for p, ok := s.Next(); ok; p, ok = s.Next() {
		meta := p.Meta()
		out.Maximize = meta.Maximize

		objective := func(x []float64) float64 {
			y := p.Evaluate(decode(x))
			if meta.Maximize {
				return -y
			}
			return y
		}
		stop := func() bool {
			return cfg.StopOnOptimum && p.State().OptimumFound
		}

		for run := 0; run < cfg.Runs; run++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if run > 0 {
				p.Reset()
			}

			b := opt.NewBudget(objective, cfg.Budget, stop)
			lower, upper := p.Bounds()
			if _, err := opts.Optimizer(cfg.Seed+int64(run)).Run(b.Objective(), lower, upper, meta.Dimension); err != nil {
				return fmt.Errorf("problem %d instance %d dimension %d run %d: %w",
					meta.ID, meta.Instance, meta.Dimension, run, err)
			}

			state := p.State()
			summary := Summary{
				Key:          logger.Key{ProblemID: meta.ID, Instance: meta.Instance, Dimension: meta.Dimension},
				Run:          run,
				Evaluations:  state.Evaluations,
				BestY:        state.BestY,
				Optimum:      meta.Optimum.Y,
				OptimumFound: state.OptimumFound,
			}
			out.Runs = append(out.Runs, summary)

			slog.Debug("Run complete",
				"problem_id", meta.ID,
				"instance", meta.Instance,
				"dimension", meta.Dimension,
				"run", run,
				"evaluations", state.Evaluations,
				"best", state.BestY,
			)
			if opts.OnProgress != nil {
				opts.OnProgress(Progress{Summary: summary, Done: len(out.Runs), Total: total})
			}
		}
	}
	return nil
}
