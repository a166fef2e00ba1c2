package problem

import (
	"log/slog"
	"math"
	"reflect"
	"slices"
)

// optimumTolerance is the distance to the known optimum below which a run is
// considered to have found it.
const optimumTolerance = 1e-8

// Problem is a configured problem instance: a kernel, its transformation
// pipeline and the bookkeeping of the current run.
//
// A Problem is not safe for concurrent use; each goroutine needs its own.
type Problem[T Number] struct {
	meta      Metadata
	kernel    Kernel[T]
	pipeline  Pipeline[T]
	state     State
	observers []Observer
}

// New creates a problem from its metadata, kernel and pipeline.
func New[T Number](meta Metadata, kernel Kernel[T], pipeline Pipeline[T]) *Problem[T] {
	if meta.NumObjectives == 0 {
		meta.NumObjectives = 1
	}
	p := &Problem[T]{
		meta:     meta,
		kernel:   kernel,
		pipeline: pipeline,
	}
	p.resetState()
	return p
}

// Evaluate computes the objective value of x, updates the run state and
// notifies attached observers. A point of the wrong dimension yields NaN and
// is not counted.
func (p *Problem[T]) Evaluate(x []T) float64 {
	if len(x) != p.meta.Dimension {
		slog.Warn("Evaluation skipped, dimension mismatch",
			"problem_id", p.meta.ID,
			"dimension", p.meta.Dimension,
			"got", len(x),
		)
		return math.NaN()
	}

	raw, y := p.pipeline.Evaluate(p.kernel, x)
	p.state.Evaluations++

	if p.improves(y) {
		p.state.BestY = y
		p.state.BestRawY = raw
		p.state.BestX = toFloats(x)
		if p.meta.Optimum.Known && !p.state.OptimumFound {
			p.state.OptimumFound = math.Abs(y-p.meta.Optimum.Y) < optimumTolerance ||
				p.meta.Better(y, p.meta.Optimum.Y)
		}
	}

	rec := EvaluationRecord{
		Evaluation:       p.state.Evaluations,
		RawY:             raw,
		TransformedY:     y,
		BestTransformedY: p.state.BestY,
	}
	for _, o := range p.observers {
		if err := o.Log(rec); err != nil {
			slog.Warn("Evaluation record dropped",
				"problem_id", p.meta.ID,
				"instance", p.meta.Instance,
				"dimension", p.meta.Dimension,
				"evaluations", rec.Evaluation,
				"error", err,
			)
		}
	}
	return y
}

// EvaluateAll is the sequence form of Evaluate; the result has one entry
// per objective.
func (p *Problem[T]) EvaluateAll(x []T) []float64 {
	return []float64{p.Evaluate(x)}
}

func (p *Problem[T]) improves(y float64) bool {
	if math.IsNaN(y) {
		return false
	}
	if math.IsNaN(p.state.BestY) {
		return true
	}
	return p.meta.Better(y, p.state.BestY)
}

// Reset clears the evaluation counter and best-so-far tracking. Instance
// parameters are untouched. Attached observers are asked to open a new run.
func (p *Problem[T]) Reset() {
	p.resetState()
	for _, o := range p.observers {
		if err := o.TrackProblem(p.meta); err != nil {
			slog.Warn("Observer refused new run", "problem_id", p.meta.ID, "error", err)
		}
	}
}

func (p *Problem[T]) resetState() {
	p.state = State{
		BestY:    math.NaN(),
		BestRawY: math.NaN(),
	}
}

// Attach registers an observer and opens its run context for this problem.
func (p *Problem[T]) Attach(o Observer) error {
	if err := o.TrackProblem(p.meta); err != nil {
		return err
	}
	p.observers = append(p.observers, o)
	return nil
}

// Detach removes an observer. Detaching an unknown observer is a no-op.
// Observers of an uncomparable dynamic type never match.
func (p *Problem[T]) Detach(o Observer) {
	p.observers = slices.DeleteFunc(p.observers, func(x Observer) bool {
		return sameObserver(x, o)
	})
}

func sameObserver(a, b Observer) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || ta == nil || !ta.Comparable() {
		return false
	}
	return a == b
}

// Observers returns the number of attached observers.
func (p *Problem[T]) Observers() int {
	return len(p.observers)
}

// Meta returns the problem metadata.
func (p *Problem[T]) Meta() Metadata {
	return p.meta
}

// Bounds returns copies of the lower and upper variable bounds.
func (p *Problem[T]) Bounds() (lower, upper []float64) {
	return slices.Clone(p.meta.Bounds.Lower), slices.Clone(p.meta.Bounds.Upper)
}

// Optimum returns the known optimum location and value.
func (p *Problem[T]) Optimum() ([]float64, float64) {
	return slices.Clone(p.meta.Optimum.X), p.meta.Optimum.Y
}

// State returns a copy of the current run state.
func (p *Problem[T]) State() State {
	s := p.state
	s.BestX = slices.Clone(p.state.BestX)
	return s
}

func toFloats[T Number](x []T) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = float64(v)
	}
	return out
}
