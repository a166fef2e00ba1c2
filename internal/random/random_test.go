package random

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Deterministic(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 3*LongLag; i++ {
		va, vb := a.Uniform(), b.Uniform()
		if math.Float64bits(va) != math.Float64bits(vb) {
			t.Fatalf("draw %d differs: %v != %v", i, va, vb)
		}
	}
}

func TestEngine_KnownValues(t *testing.T) {
	e := New(42)

	// The first draw is the normalized seed itself.
	assert.Equal(t, 42.0/float64(1<<32-1), e.Uniform())
	assert.InDelta(t, 0.7235800371793052, e.Uniform(), 1e-15)
	assert.InDelta(t, 0.44142557481337, e.Uniform(), 1e-15)
}

func TestEngine_RefillBoundary(t *testing.T) {
	e := New(7)
	first := make([]float64, LongLag)
	for i := range first {
		first[i] = e.Uniform()
	}

	// The 608th draw is the first value of the regenerated array.
	want := first[0] + first[LongLag-ShortLag]
	if want >= 1.0 {
		want -= 1.0
	}
	got := e.Uniform()
	assert.Equal(t, want, got)

	// The second half of the refill lags on already regenerated slots.
	for i := 1; i < ShortLag; i++ {
		e.Uniform()
	}
	regenerated0 := got
	want = first[ShortLag] + regenerated0
	if want >= 1.0 {
		want -= 1.0
	}
	assert.Equal(t, want, e.Uniform())
}

func TestEngine_UniformRange(t *testing.T) {
	for _, seed := range []uint32{1, 2, 1000, 1 << 31, math.MaxUint32} {
		e := New(seed)
		for i := 0; i < 5000; i++ {
			v := e.Uniform()
			require.GreaterOrEqual(t, v, 0.0)
			require.Less(t, v, 1.0+1e-12)
		}
	}
}

func TestEngine_Normal(t *testing.T) {
	e := New(42)
	assert.InDelta(t, -1.0035681795375324, e.Normal(), 1e-12)
	assert.InDelta(t, 1.0716277717677436, e.Normal(), 1e-12)

	// Rough moment check over a long stream.
	e = New(12345)
	n := 20000
	var sum, sq float64
	for i := 0; i < n; i++ {
		v := e.Normal()
		sum += v
		sq += v * v
	}
	mean := sum / float64(n)
	variance := sq/float64(n) - mean*mean
	assert.InDelta(t, 0.0, mean, 0.05)
	assert.InDelta(t, 1.0, variance, 0.1)
}

func TestEngine_Permutation(t *testing.T) {
	p1 := New(99).Permutation(50)
	p2 := New(99).Permutation(50)
	assert.Equal(t, p1, p2)

	seen := make(map[int]bool, len(p1))
	for _, v := range p1 {
		require.False(t, seen[v], "duplicate index %d", v)
		require.True(t, v >= 0 && v < 50)
		seen[v] = true
	}
	assert.Len(t, seen, 50)
}

func TestEngine_Seed(t *testing.T) {
	assert.Equal(t, uint32(17), New(17).Seed())
}
