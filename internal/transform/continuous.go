package transform

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
)

// Exponent returns i/(n-1), the position of coordinate i on [0, 1].
// A single coordinate sits at 0.
func Exponent(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}

// Shift subtracts offset from every point.
func Shift(offset []float64) problem.VariableTransform[float64] {
	offset = append([]float64(nil), offset...)
	return func(x []float64) []float64 {
		z := make([]float64, len(x))
		for i := range x {
			z[i] = x[i] - offset[i]
		}
		return z
	}
}

// Affine maps x to m·x + b. A nil b is treated as zero.
func Affine(m mat.Matrix, b []float64) problem.VariableTransform[float64] {
	m = mat.DenseCopyOf(m)
	b = append([]float64(nil), b...)
	return func(x []float64) []float64 {
		var out mat.VecDense
		out.MulVec(m, mat.NewVecDense(len(x), append([]float64(nil), x...)))
		z := out.RawVector().Data
		for i := range b {
			z[i] += b[i]
		}
		return z
	}
}

// Rotate maps x to m·x.
func Rotate(m mat.Matrix) problem.VariableTransform[float64] {
	return Affine(m, nil)
}

// Scale multiplies every coordinate by factor.
func Scale(factor float64) problem.VariableTransform[float64] {
	return func(x []float64) []float64 {
		z := make([]float64, len(x))
		for i := range x {
			z[i] = factor * x[i]
		}
		return z
	}
}

// SignFlip multiplies coordinate i by factor times the sign of reference[i].
func SignFlip(reference []float64, factor float64) problem.VariableTransform[float64] {
	signs := make([]float64, len(reference))
	for i, r := range reference {
		signs[i] = factor
		if r < 0 {
			signs[i] = -factor
		}
	}
	return func(x []float64) []float64 {
		z := make([]float64, len(x))
		for i := range x {
			z[i] = signs[i] * x[i]
		}
		return z
	}
}

// Oscillation is the smooth, symmetry-breaking T_osz map.
func Oscillation(v float64) float64 {
	if v == 0 {
		return 0
	}
	c1, c2 := 10.0, 7.9
	if v < 0 {
		c1, c2 = 5.5, 3.1
	}
	h := math.Log(math.Abs(v))
	r := math.Exp(h + 0.049*(math.Sin(c1*h)+math.Sin(c2*h)))
	if v < 0 {
		return -r
	}
	return r
}

// Oscillate applies T_osz to every coordinate.
func Oscillate() problem.VariableTransform[float64] {
	return func(x []float64) []float64 {
		z := make([]float64, len(x))
		for i := range x {
			z[i] = Oscillation(x[i])
		}
		return z
	}
}

// Asymmetric applies T_asy with strength beta; positive coordinates are
// raised to 1 + beta·i/(n-1)·sqrt(x_i).
func Asymmetric(beta float64) problem.VariableTransform[float64] {
	return func(x []float64) []float64 {
		z := make([]float64, len(x))
		for i, v := range x {
			z[i] = v
			if v > 0 {
				z[i] = math.Pow(v, 1+beta*Exponent(i, len(x))*math.Sqrt(v))
			}
		}
		return z
	}
}

// Conditioning scales coordinate i by alpha^(0.5·i/(n-1)).
func Conditioning(alpha float64) problem.VariableTransform[float64] {
	return func(x []float64) []float64 {
		z := make([]float64, len(x))
		for i, v := range x {
			z[i] = math.Pow(alpha, 0.5*Exponent(i, len(x))) * v
		}
		return z
	}
}

// Conditioned returns Λ·r, scaling row k of r by condition^(0.5·k/(n-1)).
func Conditioned(r *mat.Dense, condition float64) *mat.Dense {
	n, cols := r.Dims()
	out := mat.NewDense(n, cols, nil)
	for k := 0; k < n; k++ {
		f := math.Pow(condition, 0.5*Exponent(k, n))
		for j := 0; j < cols; j++ {
			out.Set(k, j, f*r.At(k, j))
		}
	}
	return out
}

// ConditionedRotation returns r1·Λ·r2.
func ConditionedRotation(r1, r2 *mat.Dense, condition float64) *mat.Dense {
	var m mat.Dense
	m.Mul(r1, Conditioned(r2, condition))
	return &m
}

// ShiftObjective adds the reference optimum value.
func ShiftObjective(fopt float64) problem.ObjectiveTransform[float64] {
	return func(_ []float64, y float64) float64 {
		return y + fopt
	}
}

// OscillateObjective applies T_osz to the objective value.
func OscillateObjective() problem.ObjectiveTransform[float64] {
	return func(_ []float64, y float64) float64 {
		return Oscillation(y)
	}
}

// PowerObjective raises the objective value to p.
func PowerObjective(p float64) problem.ObjectiveTransform[float64] {
	return func(_ []float64, y float64) float64 {
		return math.Pow(y, p)
	}
}

// BoundaryViolation returns the sum of squared distances of x to the box.
func BoundaryViolation(x []float64, bounds problem.Bounds) float64 {
	var sum float64
	for i, v := range x {
		d := math.Max(0, math.Max(bounds.Lower[i]-v, v-bounds.Upper[i]))
		sum += d * d
	}
	return sum
}

// Penalty adds factor times the boundary violation of the untransformed
// point to the objective value.
func Penalty(factor float64, bounds problem.Bounds) problem.ObjectiveTransform[float64] {
	return func(x []float64, y float64) float64 {
		return y + factor*BoundaryViolation(x, bounds)
	}
}
