package store

import (
	"strconv"
	"time"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/experiment"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/logger"
)

// Histogram is the attainment histogram of one problem instance summed over
// its runs.
type Histogram struct {
	logger.Key
	Runs   int            `json:"runs"`
	Matrix *logger.Matrix `json:"matrix"`
}

// Result is a finished experiment as persisted on disk.
type Result struct {
	// ID is the unique identifier of the experiment.
	ID string `json:"id"`

	// CreatedAt records when the result was assembled.
	CreatedAt time.Time `json:"createdAt"`

	Config   experiment.Config `json:"config"`
	Maximize bool              `json:"maximize"`

	// Elapsed is the wall-clock time of the experiment.
	Elapsed time.Duration `json:"elapsed"`

	// Runs holds one summary per optimizer run, in suite order.
	Runs []experiment.Summary `json:"runs"`

	// Stats holds per-instance statistics plus the aggregate entry.
	Stats []experiment.Stats `json:"stats"`

	// PerfEdges and BudgetEdges are the bucket edges of the histograms.
	PerfEdges   []float64   `json:"perfEdges"`
	BudgetEdges []float64   `json:"budgetEdges"`
	Histograms  []Histogram `json:"histograms"`

	// ECDF is the fraction of (run, target) pairs attained at each budget
	// edge.
	ECDF []float64 `json:"ecdf,omitempty"`
}

// ResultInfo contains metadata about a result without runs and histograms.
// Used for listing results efficiently.
type ResultInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Family      string    `json:"family"`
	CreatedAt   time.Time `json:"createdAt"`
	Problems    int       `json:"problems"`
	Runs        int       `json:"runs"`
	Evaluations int       `json:"evaluations"`
	EAHVolume   float64   `json:"eahVolume"`
	// Size is the size of the stored result in bytes. It is filled in by
	// stores.
	Size int64 `json:"size"`
}

// NewResult assembles a persistable result from an experiment outcome.
func NewResult(id string, out *experiment.Outcome) *Result {
	perf, budget := out.EAH.Scales()
	r := &Result{
		ID:          id,
		CreatedAt:   time.Now(),
		Config:      out.Config,
		Maximize:    out.Maximize,
		Elapsed:     out.Elapsed,
		Runs:        out.Runs,
		Stats:       out.Stats(),
		PerfEdges:   perf.Edges(),
		BudgetEdges: budget.Edges(),
		ECDF:        out.ECDF(),
	}
	for _, k := range out.EAH.Keys() {
		runs := out.EAH.Runs(k)
		r.Histograms = append(r.Histograms, Histogram{
			Key:    k,
			Runs:   len(runs),
			Matrix: logger.EAHHistogram(runs),
		})
	}
	return r
}

// Distribution is the attainment histogram averaged over all runs of the
// result, or nil when it holds none.
func (r *Result) Distribution() [][]float64 {
	var runs int
	matrices := make([]*logger.Matrix, 0, len(r.Histograms))
	for _, h := range r.Histograms {
		matrices = append(matrices, h.Matrix)
		runs += h.Runs
	}
	sum := logger.EAHHistogram(matrices)
	if sum == nil || runs == 0 {
		return nil
	}

	out := make([][]float64, sum.Rows())
	for i, row := range sum.Counts {
		out[i] = make([]float64, len(row))
		for j, c := range row {
			out[i][j] = float64(c) / float64(runs)
		}
	}
	return out
}

// ToInfo converts a full Result to ResultInfo (metadata only).
func (r *Result) ToInfo() ResultInfo {
	info := ResultInfo{
		ID:        r.ID,
		Name:      r.Config.Name,
		Family:    r.Config.Family,
		CreatedAt: r.CreatedAt,
		Problems:  len(r.Histograms),
		Runs:      len(r.Runs),
	}
	for _, run := range r.Runs {
		info.Evaluations += run.Evaluations
	}
	if n := len(r.Stats); n > 0 {
		info.EAHVolume = r.Stats[n-1].EAHVolume
	}
	return info
}

// Validate checks if the result has valid data.
// Returns an error if any required field is missing or invalid.
func (r *Result) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "ID", Reason: "cannot be empty"}
	}
	if r.CreatedAt.IsZero() {
		return &ValidationError{Field: "CreatedAt", Reason: "cannot be zero"}
	}
	if r.Config.Family == "" {
		return &ValidationError{Field: "Config.Family", Reason: "cannot be empty"}
	}
	if len(r.PerfEdges) < 2 || len(r.BudgetEdges) < 2 {
		return &ValidationError{Field: "Edges", Reason: "need at least two edges per scale"}
	}
	if len(r.ECDF) > 0 && len(r.ECDF) != len(r.BudgetEdges) {
		return &ValidationError{Field: "ECDF", Reason: "does not match the budget edges"}
	}
	for i, h := range r.Histograms {
		if h.Matrix == nil {
			return &ValidationError{Field: "Histograms", Reason: "contain a nil matrix"}
		}
		if h.Matrix.Rows() != len(r.PerfEdges)-1 || h.Matrix.Cols() != len(r.BudgetEdges)-1 {
			return &ValidationError{
				Field:  "Histograms",
				Reason: "entry " + strconv.Itoa(i) + " does not match the bucket edges",
			}
		}
	}
	return nil
}

// ValidationError represents a result validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}
