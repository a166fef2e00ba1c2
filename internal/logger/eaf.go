package logger

import (
	"math"
	"slices"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
)

// Point is an improvement of the best-so-far value at an evaluation.
type Point struct {
	Evaluation int     `json:"evaluation"`
	Value      float64 `json:"value"`
}

// Run is the sequence of improvements of one run, in evaluation order.
type Run []Point

// Best returns the best value reached within budget evaluations, or false
// when nothing was reached yet.
func (r Run) Best(budget int) (float64, bool) {
	i, _ := slices.BinarySearchFunc(r, budget+1, func(p Point, target int) int {
		return p.Evaluation - target
	})
	if i == 0 {
		return 0, false
	}
	return r[i-1].Value, true
}

// EAF is the exact attainment logger. It keeps the improvement points of
// every run, from which the attainment surface is computed analytically.
type EAF struct {
	tracker
	data map[Key][]Run
}

// NewEAF creates an attainment-function logger.
func NewEAF(opts ...Option) *EAF {
	return &EAF{
		tracker: newTracker(opts),
		data:    make(map[Key][]Run),
	}
}

// TrackProblem opens a new run for the problem.
func (l *EAF) TrackProblem(meta problem.Metadata) error {
	if err := l.open(meta); err != nil {
		return err
	}
	l.data[l.key] = append(l.data[l.key], Run{})
	return nil
}

// Log records the evaluation if it improved the best-so-far value.
func (l *EAF) Log(rec problem.EvaluationRecord) error {
	prev := l.best
	best, err := l.accept(rec)
	if err != nil {
		return err
	}
	if math.IsNaN(best) || best == prev {
		return nil
	}
	runs := l.data[l.key]
	runs[l.run] = append(runs[l.run], Point{Evaluation: rec.Evaluation, Value: best})
	return nil
}

// Size returns the number of distinct problems, dimensions and instances
// with data.
func (l *EAF) Size() (problems, dimensions, instances int) {
	return size(l.Keys())
}

// Keys returns the keys with data, ordered by problem, instance and
// dimension.
func (l *EAF) Keys() []Key {
	return sortedKeys(l.data)
}

// At returns a copy of the improvement points of one run.
func (l *EAF) At(problemID, instance, dimension, run int) (Run, bool) {
	runs := l.data[Key{ProblemID: problemID, Instance: instance, Dimension: dimension}]
	if run < 0 || run >= len(runs) {
		return nil, false
	}
	return slices.Clone(runs[run]), true
}

// Runs returns copies of every run of a key.
func (l *EAF) Runs(key Key) []Run {
	runs := l.data[key]
	out := make([]Run, len(runs))
	for i, r := range runs {
		out[i] = slices.Clone(r)
	}
	return out
}

// All returns copies of every run of every key.
func (l *EAF) All() []Run {
	var out []Run
	for _, k := range l.Keys() {
		out = append(out, l.Runs(k)...)
	}
	return out
}
