// Package opt adapts external optimization algorithms to benchmark problems.
package opt

// Objective is a function to minimize.
type Objective func(x []float64) float64

// Result is the outcome of one optimizer run.
type Result struct {
	X []float64
	Y float64
}

// Optimizer defines an optimization algorithm interface
type Optimizer interface {
	// Run minimizes eval inside the box [lower, upper] of dimension dim.
	Run(eval Objective, lower, upper []float64, dim int) (Result, error)
	// Name identifies the algorithm in results and logs.
	Name() string
}

// Factory builds a fresh optimizer for one run seeded with seed.
type Factory func(seed int64) Optimizer
