package bbob

import (
	"math"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/transform"
)

const rotationOffset = 1000000

func discus(x []float64) float64 {
	sum := 1e6 * x[0] * x[0]
	for _, v := range x[1:] {
		sum += v * v
	}
	return sum
}

func bentCigar(x []float64) float64 {
	var tail float64
	for _, v := range x[1:] {
		tail += v * v
	}
	return x[0]*x[0] + 1e6*tail
}

func sharpRidge(x []float64) float64 {
	var tail float64
	for _, v := range x[1:] {
		tail += v * v
	}
	return x[0]*x[0] + 100*math.Sqrt(tail)
}

func differentPowers(x []float64) float64 {
	var sum float64
	for i, v := range x {
		sum += math.Pow(math.Abs(v), 2+4*transform.Exponent(i, len(x)))
	}
	return math.Sqrt(sum)
}

func newEllipsoidRotated(in *transform.Instance, _ problem.Bounds) function {
	return function{
		kernel:   ellipsoid,
		pipeline: shifted(in, transform.Rotate(in.Rot1), transform.Oscillate()),
		xopt:     in.XOpt,
	}
}

func newDiscus(in *transform.Instance, _ problem.Bounds) function {
	return function{
		kernel:   discus,
		pipeline: shifted(in, transform.Rotate(in.Rot1), transform.Oscillate()),
		xopt:     in.XOpt,
	}
}

// newBentCigar draws its shift from the rotation seed.
func newBentCigar(in *transform.Instance, _ problem.Bounds) function {
	in.XOpt = transform.XOpt(in.Seed+rotationOffset, len(in.XOpt))
	return function{
		kernel: bentCigar,
		pipeline: shifted(in,
			transform.Rotate(in.Rot1),
			transform.Asymmetric(0.5),
			transform.Rotate(in.Rot1),
		),
		xopt: in.XOpt,
	}
}

func newSharpRidge(in *transform.Instance, _ problem.Bounds) function {
	return function{
		kernel:   sharpRidge,
		pipeline: shifted(in, transform.Rotate(transform.ConditionedRotation(in.Rot1, in.Rot2, 10))),
		xopt:     in.XOpt,
	}
}

func newDifferentPowers(in *transform.Instance, _ problem.Bounds) function {
	return function{
		kernel:   differentPowers,
		pipeline: shifted(in, transform.Rotate(in.Rot1)),
		xopt:     in.XOpt,
	}
}
