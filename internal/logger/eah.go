package logger

import (
	"math"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
)

// Matrix is the attainment histogram of one run, indexed
// [performance bucket][budget bucket].
//
// Every logged record marks its budget bucket and all later ones, so
// column j counts the records that arrived within budget bucket j or
// earlier, placed at the best value known when they arrived. Records whose
// best so far is not finite are counted in Undefined instead. At the last
// budget column the counts plus Undefined equal the number of records.
type Matrix struct {
	Counts    [][]int `json:"counts"`
	Undefined []int   `json:"undefined"`
}

// NewMatrix allocates a zero histogram.
func NewMatrix(rows, cols int) *Matrix {
	m := &Matrix{
		Counts:    make([][]int, rows),
		Undefined: make([]int, cols),
	}
	for i := range m.Counts {
		m.Counts[i] = make([]int, cols)
	}
	return m
}

// Rows returns the number of performance buckets.
func (m *Matrix) Rows() int { return len(m.Counts) }

// Cols returns the number of budget buckets.
func (m *Matrix) Cols() int { return len(m.Undefined) }

// Total returns the number of records counted in budget column j,
// including undefined ones.
func (m *Matrix) Total(j int) int {
	total := m.Undefined[j]
	for _, row := range m.Counts {
		total += row[j]
	}
	return total
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	out := NewMatrix(m.Rows(), m.Cols())
	for i, row := range m.Counts {
		copy(out.Counts[i], row)
	}
	copy(out.Undefined, m.Undefined)
	return out
}

// EAH is the attainment-histogram logger. It implements problem.Observer
// and suite.Observer.
//
// An EAH assumes a single writer; concurrent calls need external locking.
type EAH struct {
	tracker
	perf, budget *Scale
	data         map[Key][]*Matrix
	current      *Matrix
}

// NewEAH creates a histogram logger over a performance and a budget scale.
func NewEAH(perf, budget *Scale, opts ...Option) *EAH {
	return &EAH{
		tracker: newTracker(opts),
		perf:    perf,
		budget:  budget,
		data:    make(map[Key][]*Matrix),
	}
}

// TrackProblem opens a new run for the problem.
func (l *EAH) TrackProblem(meta problem.Metadata) error {
	if err := l.open(meta); err != nil {
		return err
	}
	l.current = NewMatrix(l.perf.Size(), l.budget.Size())
	l.data[l.key] = append(l.data[l.key], l.current)
	return nil
}

// Log adds one evaluation record to the current run.
func (l *EAH) Log(rec problem.EvaluationRecord) error {
	best, err := l.accept(rec)
	if err != nil {
		return err
	}

	j := l.budget.Index(float64(rec.Evaluation))
	if math.IsNaN(best) || math.IsInf(best, 0) {
		for c := j; c < len(l.current.Undefined); c++ {
			l.current.Undefined[c]++
		}
		return nil
	}

	row := l.current.Counts[l.perf.Index(best)]
	for c := j; c < len(row); c++ {
		row[c]++
	}
	return nil
}

// Scales returns the performance and budget scales.
func (l *EAH) Scales() (perf, budget *Scale) {
	return l.perf, l.budget
}

// Size returns the number of distinct problems, dimensions and instances
// with data.
func (l *EAH) Size() (problems, dimensions, instances int) {
	return size(l.Keys())
}

// Keys returns the keys with data, ordered by problem, instance and
// dimension.
func (l *EAH) Keys() []Key {
	return sortedKeys(l.data)
}

// At returns a copy of the histogram of one run.
func (l *EAH) At(problemID, instance, dimension, run int) (*Matrix, bool) {
	runs := l.data[Key{ProblemID: problemID, Instance: instance, Dimension: dimension}]
	if run < 0 || run >= len(runs) {
		return nil, false
	}
	return runs[run].Clone(), true
}

// Runs returns copies of every run histogram of a key.
func (l *EAH) Runs(key Key) []*Matrix {
	runs := l.data[key]
	out := make([]*Matrix, len(runs))
	for i, m := range runs {
		out[i] = m.Clone()
	}
	return out
}

// All returns copies of every run histogram of every key.
func (l *EAH) All() []*Matrix {
	var out []*Matrix
	for _, k := range l.Keys() {
		out = append(out, l.Runs(k)...)
	}
	return out
}
