package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
)

func TestOscillation(t *testing.T) {
	assert.Equal(t, 0.0, Oscillation(0))
	assert.InDelta(t, 1.0, Oscillation(1), 1e-15)
	assert.InDelta(t, -1.0, Oscillation(-1), 1e-15)

	prev := Oscillation(-100)
	for v := -99.5; v <= 100; v += 0.5 {
		cur := Oscillation(v)
		assert.Greater(t, cur, prev, "T_osz must be strictly increasing at %v", v)
		prev = cur
	}
}

func TestVariableTransforms(t *testing.T) {
	x := []float64{1, 4, -2}

	tests := []struct {
		name string
		tf   problem.VariableTransform[float64]
		want []float64
	}{
		{"shift", Shift([]float64{1, 1, 1}), []float64{0, 3, -3}},
		{"scale", Scale(2), []float64{2, 8, -4}},
		{"sign flip", SignFlip([]float64{-1, 2, -3}, 2), []float64{-2, 8, 4}},
		{"conditioning", Conditioning(100), []float64{1, 4 * math.Sqrt(10), -20}},
		{"asymmetric", Asymmetric(0.5), []float64{1, math.Pow(4, 1+0.5*0.5*2), -2}},
		{"affine", Affine(mat.NewDense(3, 3, []float64{0, 1, 0, 1, 0, 0, 0, 0, 1}), []float64{0.5, 0.5, 0.5}), []float64{4.5, 1.5, -1.5}},
		{"rotate", Rotate(mat.NewDense(3, 3, []float64{-1, 0, 0, 0, 1, 0, 0, 0, 1})), []float64{-1, 4, -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tf(x)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-12)
			}
			assert.Equal(t, []float64{1, 4, -2}, x, "input must not be modified")
		})
	}
}

func TestConditionedRotation(t *testing.T) {
	id := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	m := ConditionedRotation(id, id, 100)

	assert.InDelta(t, 1.0, m.At(0, 0), 1e-15)
	assert.InDelta(t, 10.0, m.At(1, 1), 1e-12)
	assert.Zero(t, m.At(0, 1))
}

func TestObjectiveTransforms(t *testing.T) {
	bounds := problem.NewBounds(2, -5, 5)

	assert.Equal(t, 13.0, ShiftObjective(3)(nil, 10))
	assert.InDelta(t, math.Pow(16, 0.9), PowerObjective(0.9)(nil, 16), 1e-12)
	assert.InDelta(t, Oscillation(7), OscillateObjective()(nil, 7), 1e-15)

	penalty := Penalty(10, bounds)
	assert.Equal(t, 1.0, penalty([]float64{0, 5}, 1), "no violation on the boundary")
	assert.Equal(t, 1+10*(1+4.0), penalty([]float64{-6, 7}, 1))
}

func TestDiscreteTransforms(t *testing.T) {
	x := []int{1, 0, 1, 1}

	assert.Equal(t, []int{0, 0, 0, 1}, XOR([]int{1, 0, 1, 0})(x))
	assert.Equal(t, []int{1, 1, 0, 1}, Permute([]int{3, 2, 1, 0})(x))
	assert.Equal(t, 7.0, ScaleObjective(2, 1)(x, 3))
	assert.Equal(t, []int{1, 0, 1, 1}, x)
}

func TestBuildBits(t *testing.T) {
	limits := problem.Limits{MaxID: 25, MinInstance: 1, MaxInstance: 100, MinDim: 1, MaxDim: 20000}
	b := NewBuilder("pbo", limits)

	identity, err := b.BuildBits(1, 1, 16)
	require.NoError(t, err)
	assert.True(t, identity.Identity())

	xor, err := b.BuildBits(1, 2, 16)
	require.NoError(t, err)
	assert.Len(t, xor.Mask, 16)
	assert.Nil(t, xor.Perm)
	for _, bit := range xor.Mask {
		assert.Contains(t, []int{0, 1}, bit)
	}
	assert.GreaterOrEqual(t, xor.A, 0.2)
	assert.Less(t, xor.A, 5.0)
	assert.GreaterOrEqual(t, xor.B, -1000.0)
	assert.Less(t, xor.B, 1000.0)

	perm, err := b.BuildBits(1, 51, 16)
	require.NoError(t, err)
	assert.Nil(t, perm.Mask)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, perm.Perm)

	again, err := b.BuildBits(1, 51, 16)
	require.NoError(t, err)
	assert.Equal(t, perm, again)
	again.Perm[0] = -1
	assert.NotEqual(t, -1, perm.Perm[0])

	_, err = b.BuildBits(1, 101, 16)
	assert.ErrorIs(t, err, problem.ErrConfiguration)
}
