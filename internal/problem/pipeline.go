package problem

// Kernel is the untransformed mathematical function of a problem.
type Kernel[T Number] func(x []T) float64

// VariableTransform maps a search point to the kernel's input space.
// Implementations must not modify x; they return a new slice.
type VariableTransform[T Number] func(x []T) []T

// ObjectiveTransform maps a kernel value to the reported objective.
// It receives the untransformed search point so that boundary penalties
// can be computed from it.
type ObjectiveTransform[T Number] func(x []T, y float64) float64

// Pipeline is an ordered chain of variable and objective transforms wrapped
// around a kernel. Variables run in order before the kernel, Objectives in
// order after it.
type Pipeline[T Number] struct {
	Variables  []VariableTransform[T]
	Objectives []ObjectiveTransform[T]
}

// Evaluate applies the pipeline and returns both the kernel value and the
// transformed objective.
func (p Pipeline[T]) Evaluate(kernel Kernel[T], x []T) (raw, transformed float64) {
	z := x
	for _, tf := range p.Variables {
		z = tf(z)
	}
	raw = kernel(z)
	transformed = raw
	for _, tf := range p.Objectives {
		transformed = tf(x, transformed)
	}
	return raw, transformed
}

// Then returns a copy of the pipeline with more variable transforms
// appended.
func (p Pipeline[T]) Then(vars ...VariableTransform[T]) Pipeline[T] {
	out := Pipeline[T]{
		Variables:  append(append([]VariableTransform[T]{}, p.Variables...), vars...),
		Objectives: append([]ObjectiveTransform[T]{}, p.Objectives...),
	}
	return out
}

// ThenObjective returns a copy of the pipeline with more objective
// transforms appended.
func (p Pipeline[T]) ThenObjective(objs ...ObjectiveTransform[T]) Pipeline[T] {
	out := Pipeline[T]{
		Variables:  append([]VariableTransform[T]{}, p.Variables...),
		Objectives: append(append([]ObjectiveTransform[T]{}, p.Objectives...), objs...),
	}
	return out
}
