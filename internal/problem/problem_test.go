package problem

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sphere(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}

// recorder is an Observer that keeps everything it sees.
type recorder struct {
	tracked []Metadata
	records []EvaluationRecord
	fail    error
}

func (r *recorder) TrackProblem(meta Metadata) error {
	r.tracked = append(r.tracked, meta)
	return nil
}

func (r *recorder) Log(rec EvaluationRecord) error {
	if r.fail != nil {
		return r.fail
	}
	r.records = append(r.records, rec)
	return nil
}

func newSphere(dim int) *Problem[float64] {
	meta := Metadata{
		ID:        1,
		Name:      "Sphere",
		Family:    "test",
		Instance:  1,
		Dimension: dim,
		Bounds:    NewBounds(dim, -5, 5),
		Optimum:   Optimum{X: make([]float64, dim), Y: 10, Known: true},
	}
	pipeline := Pipeline[float64]{
		Objectives: []ObjectiveTransform[float64]{
			func(_ []float64, y float64) float64 { return y + 10 },
		},
	}
	return New(meta, sphere, pipeline)
}

func TestPipeline_Order(t *testing.T) {
	var trace []string
	p := Pipeline[float64]{
		Variables: []VariableTransform[float64]{
			func(x []float64) []float64 {
				trace = append(trace, "shift")
				out := make([]float64, len(x))
				for i := range x {
					out[i] = x[i] - 1
				}
				return out
			},
			func(x []float64) []float64 {
				trace = append(trace, "scale")
				out := make([]float64, len(x))
				for i := range x {
					out[i] = 2 * x[i]
				}
				return out
			},
		},
		Objectives: []ObjectiveTransform[float64]{
			func(x []float64, y float64) float64 {
				trace = append(trace, "penalty")
				// sees the untransformed point
				return y + x[0]
			},
		},
	}

	x := []float64{3}
	raw, y := p.Evaluate(sphere, x)

	assert.Equal(t, 16.0, raw)
	assert.Equal(t, 19.0, y)
	assert.Equal(t, []string{"shift", "scale", "penalty"}, trace)
	assert.Equal(t, []float64{3}, x, "input must not be modified")
}

func TestPipeline_ThenCopies(t *testing.T) {
	base := Pipeline[float64]{}
	ext := base.Then(func(x []float64) []float64 { return x }).
		ThenObjective(func(_ []float64, y float64) float64 { return y })

	assert.Empty(t, base.Variables)
	assert.Empty(t, base.Objectives)
	assert.Len(t, ext.Variables, 1)
	assert.Len(t, ext.Objectives, 1)
}

func TestProblem_EvaluateAndState(t *testing.T) {
	p := newSphere(2)

	assert.Equal(t, 12.0, p.Evaluate([]float64{1, 1}))
	assert.Equal(t, 15.0, p.Evaluate([]float64{1, -2}))
	assert.Equal(t, []float64{10.5}, p.EvaluateAll([]float64{0.5, 0.5}))

	s := p.State()
	assert.Equal(t, 3, s.Evaluations)
	assert.Equal(t, 10.5, s.BestY)
	assert.Equal(t, 0.5, s.BestRawY)
	assert.Equal(t, []float64{0.5, 0.5}, s.BestX)
	assert.False(t, s.OptimumFound)

	p.Evaluate([]float64{0, 0})
	assert.True(t, p.State().OptimumFound)
}

func TestProblem_DimensionMismatch(t *testing.T) {
	p := newSphere(3)
	y := p.Evaluate([]float64{1, 2})

	assert.True(t, math.IsNaN(y))
	assert.Equal(t, 0, p.State().Evaluations)
}

func TestProblem_ResetKeepsInstance(t *testing.T) {
	p := newSphere(2)
	rec := &recorder{}
	require.NoError(t, p.Attach(rec))

	before := p.Evaluate([]float64{1, 2})
	p.Reset()

	s := p.State()
	assert.Equal(t, 0, s.Evaluations)
	assert.True(t, math.IsNaN(s.BestY))
	assert.Nil(t, s.BestX)

	assert.Equal(t, before, p.Evaluate([]float64{1, 2}))
	assert.Len(t, rec.tracked, 2, "reset opens a new run on attached observers")
}

func TestProblem_ObserverRecords(t *testing.T) {
	p := newSphere(1)
	rec := &recorder{}
	require.NoError(t, p.Attach(rec))

	for _, x := range []float64{3, 1, 2} {
		p.Evaluate([]float64{x})
	}

	want := []EvaluationRecord{
		{Evaluation: 1, RawY: 9, TransformedY: 19, BestTransformedY: 19},
		{Evaluation: 2, RawY: 1, TransformedY: 11, BestTransformedY: 11},
		{Evaluation: 3, RawY: 4, TransformedY: 14, BestTransformedY: 11},
	}
	if diff := cmp.Diff(want, rec.records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}

	p.Detach(rec)
	p.Evaluate([]float64{0})
	assert.Len(t, rec.records, 3)
	assert.Equal(t, 0, p.Observers())
}

// counters is an Observer of a slice type, which cannot be compared.
type counters []int

func (c counters) TrackProblem(Metadata) error { return nil }

func (c counters) Log(EvaluationRecord) error {
	c[0]++
	return nil
}

func TestProblem_DetachUncomparableObserver(t *testing.T) {
	p := newSphere(1)
	obs := counters{0}
	rec := &recorder{}
	require.NoError(t, p.Attach(obs))
	require.NoError(t, p.Attach(rec))

	assert.NotPanics(t, func() { p.Detach(obs) })
	assert.NotPanics(t, func() { p.Detach(rec) })
	assert.Equal(t, 1, p.Observers(), "only the comparable observer is removed")

	p.Evaluate([]float64{1})
	assert.Equal(t, 1, obs[0])
	assert.Empty(t, rec.records)
}

func TestProblem_ObserverErrorDoesNotStopRun(t *testing.T) {
	p := newSphere(1)
	rec := &recorder{fail: errors.New("boom")}
	require.NoError(t, p.Attach(rec))

	assert.Equal(t, 11.0, p.Evaluate([]float64{1}))
	assert.Equal(t, 1, p.State().Evaluations)
}

func TestProblem_NaNNeverImproves(t *testing.T) {
	meta := Metadata{ID: 1, Dimension: 1, Bounds: NewBounds(1, -1, 1)}
	p := New(meta, func(x []float64) float64 {
		if x[0] < 0 {
			return math.NaN()
		}
		return x[0]
	}, Pipeline[float64]{})

	p.Evaluate([]float64{-1})
	assert.True(t, math.IsNaN(p.State().BestY))

	p.Evaluate([]float64{0.5})
	p.Evaluate([]float64{-1})
	assert.Equal(t, 0.5, p.State().BestY)
}

func TestProblem_Maximize(t *testing.T) {
	meta := Metadata{
		ID:        1,
		Dimension: 3,
		Maximize:  true,
		Bounds:    NewBounds(3, 0, 1),
		Optimum:   Optimum{Y: 3, Known: true},
	}
	onemax := func(x []int) float64 {
		var s int
		for _, v := range x {
			s += v
		}
		return float64(s)
	}
	p := New(meta, onemax, Pipeline[int]{})

	p.Evaluate([]int{1, 0, 0})
	p.Evaluate([]int{0, 0, 0})
	assert.Equal(t, 1.0, p.State().BestY)
	assert.Equal(t, []float64{1, 0, 0}, p.State().BestX)

	p.Evaluate([]int{1, 1, 1})
	assert.True(t, p.State().OptimumFound)
}

func TestProblem_AccessorsReturnCopies(t *testing.T) {
	p := newSphere(2)

	lo, hi := p.Bounds()
	lo[0] = 100
	hi[0] = 100
	lo2, hi2 := p.Bounds()
	assert.Equal(t, -5.0, lo2[0])
	assert.Equal(t, 5.0, hi2[0])

	x, y := p.Optimum()
	x[0] = 42
	x2, _ := p.Optimum()
	assert.Equal(t, 0.0, x2[0])
	assert.Equal(t, 10.0, y)
}

func TestBounds_Contains(t *testing.T) {
	b := NewBounds(2, -1, 1)
	assert.True(t, b.Contains([]float64{0, 1}))
	assert.False(t, b.Contains([]float64{0, 1.5}))
}
