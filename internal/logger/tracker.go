package logger

import (
	"cmp"
	"log/slog"
	"math"
	"slices"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
)

// State is the position of a logger in its tracking life cycle.
type State int

const (
	Idle State = iota
	TrackingSuite
	TrackingProblem
)

func (s State) String() string {
	switch s {
	case TrackingSuite:
		return "tracking_suite"
	case TrackingProblem:
		return "tracking_problem"
	default:
		return "idle"
	}
}

// Key identifies the runs of one problem instance.
type Key struct {
	ProblemID int `json:"problemId"`
	Instance  int `json:"instance"`
	Dimension int `json:"dimension"`
}

func compareKeys(a, b Key) int {
	if c := cmp.Compare(a.ProblemID, b.ProblemID); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Instance, b.Instance); c != 0 {
		return c
	}
	return cmp.Compare(a.Dimension, b.Dimension)
}

// Option configures a logger.
type Option func(*options)

type options struct {
	raw bool
}

// WithRawObjective aggregates kernel values instead of transformed ones.
func WithRawObjective() Option {
	return func(o *options) { o.raw = true }
}

// tracker is the state machine shared by the attainment loggers: it binds
// to suite selectors, numbers runs and validates the record stream.
type tracker struct {
	opts  options
	state State

	ids, instances, dimensions []int

	meta     problem.Metadata
	key      Key
	run      int
	runs     map[Key]int
	lastEval int
	best     float64
}

func newTracker(opts []Option) tracker {
	t := tracker{runs: make(map[Key]int), best: math.NaN()}
	for _, opt := range opts {
		opt(&t.opts)
	}
	return t
}

// TrackSuite binds the logger to the selectors of a suite. Problems
// tracked afterwards must fall inside them.
func (t *tracker) TrackSuite(info problem.SuiteInfo) error {
	t.ids = info.ProblemIDs()
	t.instances = info.Instances()
	t.dimensions = info.Dimensions()
	t.state = TrackingSuite
	return nil
}

// open starts a new run for meta.
func (t *tracker) open(meta problem.Metadata) error {
	if t.ids != nil {
		switch {
		case !slices.Contains(t.ids, meta.ID):
			return &problem.ConfigurationError{Field: "id", Value: meta.ID, Reason: "is not part of the tracked suite"}
		case !slices.Contains(t.instances, meta.Instance):
			return &problem.ConfigurationError{Field: "instance", Value: meta.Instance, Reason: "is not part of the tracked suite"}
		case !slices.Contains(t.dimensions, meta.Dimension):
			return &problem.ConfigurationError{Field: "dimension", Value: meta.Dimension, Reason: "is not part of the tracked suite"}
		}
	}

	t.meta = meta
	t.key = Key{ProblemID: meta.ID, Instance: meta.Instance, Dimension: meta.Dimension}
	t.run = t.runs[t.key]
	t.runs[t.key]++
	t.lastEval = 0
	t.best = math.NaN()
	t.state = TrackingProblem

	slog.Debug("Run opened",
		"problem_id", meta.ID,
		"instance", meta.Instance,
		"dimension", meta.Dimension,
		"run", t.run,
	)
	return nil
}

// accept validates a record and folds its value into the run's best so
// far, which it returns.
func (t *tracker) accept(rec problem.EvaluationRecord) (float64, error) {
	if t.state != TrackingProblem {
		return math.NaN(), &NotTrackingError{Op: "Log"}
	}
	if rec.Evaluation <= t.lastEval {
		return t.best, &MalformedRecordError{Evaluation: rec.Evaluation, Previous: t.lastEval}
	}
	t.lastEval = rec.Evaluation

	y := rec.TransformedY
	if t.opts.raw {
		y = rec.RawY
	}
	if !math.IsNaN(y) && (math.IsNaN(t.best) || t.meta.Better(y, t.best)) {
		t.best = y
	}
	return t.best, nil
}

// Close ends tracking and returns the logger to Idle. Collected data is
// kept.
func (t *tracker) Close() {
	t.state = Idle
	t.ids, t.instances, t.dimensions = nil, nil, nil
}

// State returns the current life-cycle state.
func (t *tracker) State() State {
	return t.state
}

// Maximize reports the direction of the problem tracked last.
func (t *tracker) Maximize() bool {
	return t.meta.Maximize
}

// size counts the distinct problem ids, dimensions and instances in keys.
func size(keys []Key) (problems, dimensions, instances int) {
	ids := make(map[int]struct{})
	dims := make(map[int]struct{})
	insts := make(map[int]struct{})
	for _, k := range keys {
		ids[k.ProblemID] = struct{}{}
		dims[k.Dimension] = struct{}{}
		insts[k.Instance] = struct{}{}
	}
	return len(ids), len(dims), len(insts)
}

func sortedKeys[V any](m map[Key]V) []Key {
	keys := make([]Key, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}
