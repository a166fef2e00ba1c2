package bbob

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/transform"
)

func rosenbrock(x []float64) float64 {
	var sum float64
	for i := 0; i < len(x)-1; i++ {
		a := x[i]*x[i] - x[i+1]
		b := x[i] - 1
		sum += 100*a*a + b*b
	}
	return sum
}

// rosenbrockFactor rescales the search space so that the valley stays
// inside the box in large dimensions.
func rosenbrockFactor(n int) float64 {
	return math.Max(1, math.Sqrt(float64(n))/8)
}

// newAttractiveSector penalizes the half-space facing away from the optimum
// a hundredfold.
func newAttractiveSector(in *transform.Instance, _ problem.Bounds) function {
	xopt := in.XOpt
	kernel := func(x []float64) float64 {
		var sum float64
		for i, v := range x {
			if xopt[i]*v > 0 {
				v *= 100
			}
			sum += v * v
		}
		return sum
	}

	m := transform.ConditionedRotation(in.Rot1, in.Rot2, 10)
	return function{
		kernel: kernel,
		pipeline: problem.Pipeline[float64]{
			Variables: []problem.VariableTransform[float64]{
				transform.Shift(xopt),
				transform.Rotate(m),
			},
			Objectives: []problem.ObjectiveTransform[float64]{
				transform.OscillateObjective(),
				transform.PowerObjective(0.9),
				transform.ShiftObjective(in.FOpt),
			},
		},
		xopt: xopt,
	}
}

// newStepEllipsoid evaluates the function in its kernel: the plateaus need
// the unrounded first coordinate, so shift, rotations and penalty are
// applied there instead of in the pipeline. Only the optimum value is left
// to the pipeline, keeping the raw value zero at the optimum.
func newStepEllipsoid(in *transform.Instance, bounds problem.Bounds) function {
	const (
		condition = 100.0
		alpha     = 10.0
	)
	xopt, fopt, rot1, rot2 := in.XOpt, in.FOpt, in.Rot1, in.Rot2

	kernel := func(x []float64) float64 {
		n := len(x)
		penalty := transform.BoundaryViolation(x, bounds)

		t := make([]float64, n)
		for i := range t {
			c := math.Sqrt(math.Pow(condition/10, transform.Exponent(i, n)))
			for j := range x {
				t[i] += c * rot2.At(i, j) * (x[j] - xopt[j])
			}
		}
		first := t[0]
		for i, v := range t {
			if math.Abs(v) > 0.5 {
				t[i] = round(v)
			} else {
				t[i] = round(alpha*v) / alpha
			}
		}

		var sum float64
		for i := 0; i < n; i++ {
			var z float64
			for j := range t {
				z += rot1.At(i, j) * t[j]
			}
			sum += math.Pow(condition, transform.Exponent(i, n)) * z * z
		}
		return 10*math.Max(math.Abs(first)/1e4, sum) + penalty
	}
	return function{
		kernel: kernel,
		pipeline: problem.Pipeline[float64]{
			Objectives: []problem.ObjectiveTransform[float64]{transform.ShiftObjective(fopt)},
		},
		xopt: xopt,
	}
}

func newRosenbrock(in *transform.Instance, _ problem.Bounds) function {
	n := len(in.XOpt)
	for i := range in.XOpt {
		in.XOpt[i] *= 0.75
	}
	return function{
		kernel: rosenbrock,
		pipeline: shifted(in,
			transform.Scale(rosenbrockFactor(n)),
			transform.Shift(constant(n, -1)),
		),
		xopt: in.XOpt,
	}
}

// newRosenbrockRotated maps x to factor·R·x + 0.5; the optimum is the
// preimage of the all-ones vector.
func newRosenbrockRotated(in *transform.Instance, _ problem.Bounds) function {
	n := len(in.XOpt)
	factor := rosenbrockFactor(n)

	var m mat.Dense
	m.Scale(factor, in.Rot1)

	return function{
		kernel: rosenbrock,
		pipeline: problem.Pipeline[float64]{
			Variables:  []problem.VariableTransform[float64]{transform.Affine(&m, constant(n, 0.5))},
			Objectives: []problem.ObjectiveTransform[float64]{transform.ShiftObjective(in.FOpt)},
		},
		xopt: preimage(in.Rot1, factor, 0.5),
	}
}

// preimage solves factor·R·x + b = 1 for an orthonormal R.
func preimage(r *mat.Dense, factor, b float64) []float64 {
	n, _ := r.Dims()
	rhs := mat.NewVecDense(n, constant(n, (1-b)/factor))
	var x mat.VecDense
	x.MulVec(r.T(), rhs)
	return x.RawVector().Data
}
