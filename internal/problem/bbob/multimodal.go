package bbob

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/transform"
)

const weierstrassTerms = 12

// weierstrassBase is the kernel sum at the origin.
var weierstrassBase = func() float64 {
	var f0 float64
	for k := 0; k < weierstrassTerms; k++ {
		f0 += math.Pow(0.5, float64(k)) * math.Cos(math.Pi*math.Pow(3, float64(k)))
	}
	return f0
}()

func weierstrass(x []float64) float64 {
	var sum float64
	for _, v := range x {
		for k := 0; k < weierstrassTerms; k++ {
			sum += math.Pow(0.5, float64(k)) * math.Cos(2*math.Pi*math.Pow(3, float64(k))*(v+0.5))
		}
	}
	return 10 * math.Pow(sum/float64(len(x))-weierstrassBase, 3)
}

func schaffers(x []float64) float64 {
	var sum float64
	for i := 0; i < len(x)-1; i++ {
		t := x[i]*x[i] + x[i+1]*x[i+1]
		s := math.Sin(50 * math.Pow(t, 0.1))
		sum += math.Pow(t, 0.25) * (1 + s*s)
	}
	v := sum / float64(len(x)-1)
	return v * v
}

func griewankRosenbrock(x []float64) float64 {
	var sum float64
	for i := 0; i < len(x)-1; i++ {
		a := x[i]*x[i] - x[i+1]
		b := 1 - x[i]
		t := 100*a*a + b*b
		sum += t/4000 - math.Cos(t)
	}
	return 10 + 10*sum/float64(len(x)-1)
}

func newRastriginRotated(in *transform.Instance, _ problem.Bounds) function {
	return function{
		kernel: rastrigin,
		pipeline: shifted(in,
			transform.Rotate(in.Rot1),
			transform.Oscillate(),
			transform.Asymmetric(0.2),
			transform.Rotate(transform.ConditionedRotation(in.Rot1, in.Rot2, 10)),
		),
		xopt: in.XOpt,
	}
}

func newWeierstrass(in *transform.Instance, bounds problem.Bounds) function {
	n := len(in.XOpt)
	return function{
		kernel: weierstrass,
		pipeline: penalized(in, bounds, 10/float64(n),
			transform.Rotate(in.Rot1),
			transform.Oscillate(),
			transform.Rotate(transform.ConditionedRotation(in.Rot1, in.Rot2, 0.01)),
		),
		xopt: in.XOpt,
	}
}

// newSchaffers returns the Schaffers F7 constructor for an ill-conditioning
// of the given strength.
func newSchaffers(condition float64) func(*transform.Instance, problem.Bounds) function {
	return func(in *transform.Instance, bounds problem.Bounds) function {
		return function{
			kernel: schaffers,
			pipeline: penalized(in, bounds, 10,
				transform.Rotate(in.Rot1),
				transform.Asymmetric(0.5),
				transform.Rotate(transform.Conditioned(in.Rot2, condition)),
			),
			xopt: in.XOpt,
		}
	}
}

// newGriewankRosenbrock is not shifted; the rotation alone moves the
// optimum away from the origin.
func newGriewankRosenbrock(in *transform.Instance, _ problem.Bounds) function {
	n := len(in.XOpt)
	factor := rosenbrockFactor(n)

	var m mat.Dense
	m.Scale(factor, in.Rot2)

	return function{
		kernel: griewankRosenbrock,
		pipeline: problem.Pipeline[float64]{
			Variables:  []problem.VariableTransform[float64]{transform.Affine(&m, constant(n, 0.5))},
			Objectives: []problem.ObjectiveTransform[float64]{transform.ShiftObjective(in.FOpt)},
		},
		xopt: preimage(in.Rot2, factor, 0.5),
	}
}
