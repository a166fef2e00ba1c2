package bbob

import (
	"math"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/transform"
)

func sphere(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}

func ellipsoid(x []float64) float64 {
	var sum float64
	for i, v := range x {
		sum += math.Pow(1e6, transform.Exponent(i, len(x))) * v * v
	}
	return sum
}

func rastrigin(x []float64) float64 {
	var cosines, squares float64
	for _, v := range x {
		cosines += math.Cos(2 * math.Pi * v)
		squares += v * v
	}
	return 10*(float64(len(x))-cosines) + squares
}

func newSphere(in *transform.Instance, _ problem.Bounds) function {
	return function{kernel: sphere, pipeline: shifted(in), xopt: in.XOpt}
}

func newEllipsoid(in *transform.Instance, _ problem.Bounds) function {
	return function{
		kernel:   ellipsoid,
		pipeline: shifted(in, transform.Oscillate()),
		xopt:     in.XOpt,
	}
}

func newRastrigin(in *transform.Instance, _ problem.Bounds) function {
	return function{
		kernel: rastrigin,
		pipeline: shifted(in,
			transform.Oscillate(),
			transform.Asymmetric(0.2),
			transform.Conditioning(10),
		),
		xopt: in.XOpt,
	}
}

// newBuecheRastrigin places the optimum in the positive half of every even
// coordinate and stretches positive even coordinates tenfold.
func newBuecheRastrigin(in *transform.Instance, bounds problem.Bounds) function {
	for i := 0; i < len(in.XOpt); i += 2 {
		in.XOpt[i] = math.Abs(in.XOpt[i])
	}
	stretch := func(x []float64) []float64 {
		z := make([]float64, len(x))
		for i, v := range x {
			f := math.Pow(10, 0.5*transform.Exponent(i, len(x)))
			if v > 0 && i%2 == 0 {
				f *= 10
			}
			z[i] = f * v
		}
		return z
	}
	return function{
		kernel:   rastrigin,
		pipeline: penalized(in, bounds, 100, transform.Oscillate(), stretch),
		xopt:     in.XOpt,
	}
}

// newLinearSlope puts the optimum in a corner of the box. Coordinates past
// the optimum's boundary contribute nothing.
func newLinearSlope(in *transform.Instance, _ problem.Bounds) function {
	n := len(in.XOpt)
	xopt := make([]float64, n)
	slopes := make([]float64, n)
	for i, v := range in.XOpt {
		xopt[i] = upperBound
		if v < 0 {
			xopt[i] = lowerBound
		}
		slopes[i] = math.Copysign(math.Pow(10, transform.Exponent(i, n)), xopt[i])
	}

	kernel := func(x []float64) float64 {
		var sum float64
		for i, v := range x {
			if v*xopt[i] < upperBound*upperBound {
				sum += upperBound*math.Abs(slopes[i]) - slopes[i]*v
			} else {
				sum += upperBound*math.Abs(slopes[i]) - slopes[i]*xopt[i]
			}
		}
		return sum
	}
	return function{
		kernel: kernel,
		pipeline: problem.Pipeline[float64]{
			Objectives: []problem.ObjectiveTransform[float64]{transform.ShiftObjective(in.FOpt)},
		},
		xopt: xopt,
	}
}
