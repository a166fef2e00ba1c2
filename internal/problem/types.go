// Package problem couples evaluation kernels with their transformation
// pipelines and exposes them to optimizers and loggers.
package problem

// Number is the set of variable types a Problem can be defined over:
// float64 for continuous families, int for pseudo-Boolean ones.
type Number interface {
	~int | ~float64
}

// Bounds holds per-variable box constraints.
type Bounds struct {
	Lower []float64 `json:"lower"`
	Upper []float64 `json:"upper"`
}

// NewBounds creates bounds of the given dimension with identical limits.
func NewBounds(dim int, lo, hi float64) Bounds {
	b := Bounds{
		Lower: make([]float64, dim),
		Upper: make([]float64, dim),
	}
	for i := 0; i < dim; i++ {
		b.Lower[i] = lo
		b.Upper[i] = hi
	}
	return b
}

// Contains reports whether x lies inside the box.
func (b Bounds) Contains(x []float64) bool {
	for i, v := range x {
		if v < b.Lower[i] || v > b.Upper[i] {
			return false
		}
	}
	return true
}

// Optimum is the known optimum of an instance. X may be nil when only the
// value is known.
type Optimum struct {
	X     []float64 `json:"x,omitempty"`
	Y     float64   `json:"y"`
	Known bool      `json:"known"`
}

// Metadata describes a problem instance.
type Metadata struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Family        string  `json:"family"`
	Instance      int     `json:"instance"`
	Dimension     int     `json:"dimension"`
	Bounds        Bounds  `json:"bounds"`
	NumObjectives int     `json:"numObjectives"`
	Maximize      bool    `json:"maximize"`
	Optimum       Optimum `json:"optimum"`
}

// Better reports whether a is strictly better than b under the problem's
// optimization direction. NaN is never better than anything.
func (m Metadata) Better(a, b float64) bool {
	if m.Maximize {
		return a > b
	}
	return a < b
}

// EvaluationRecord is emitted once per evaluation to attached observers.
type EvaluationRecord struct {
	// Evaluation is the 1-based evaluation index within the current run.
	Evaluation int `json:"evaluation"`
	// RawY is the kernel output before objective transforms.
	RawY float64 `json:"rawY"`
	// TransformedY is the value returned to the caller.
	TransformedY float64 `json:"transformedY"`
	// BestTransformedY is the best TransformedY seen so far in the run.
	BestTransformedY float64 `json:"bestTransformedY"`
}

// Observer receives the evaluation stream of a problem.
type Observer interface {
	// TrackProblem opens a new run context for the problem.
	TrackProblem(meta Metadata) error
	// Log consumes one evaluation record.
	Log(rec EvaluationRecord) error
}

// SuiteInfo is the selector view of a suite that observers bind to.
type SuiteInfo interface {
	Name() string
	ProblemIDs() []int
	Instances() []int
	Dimensions() []int
}

// State is the mutable per-run bookkeeping of a problem.
type State struct {
	Evaluations  int       `json:"evaluations"`
	BestY        float64   `json:"bestY"`
	BestRawY     float64   `json:"bestRawY"`
	BestX        []float64 `json:"bestX,omitempty"`
	OptimumFound bool      `json:"optimumFound"`
}
