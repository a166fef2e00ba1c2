// Package suite builds the cross product of problem ids, instances and
// dimensions of one family and hands the problems out in a fixed order.
package suite

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
)

// Observer is a problem observer that can also bind to a whole suite.
type Observer interface {
	problem.Observer
	TrackSuite(info problem.SuiteInfo) error
}

// Suite is an eagerly constructed, restartable sequence of problems.
//
// Problems are ordered by id (outer), instance (middle) and dimension
// (inner). A Suite is not safe for concurrent use.
type Suite[T problem.Number] struct {
	name       string
	ids        []int
	instances  []int
	dimensions []int

	problems []*problem.Problem[T]
	cursor   int
	current  *problem.Problem[T]
	observer Observer
}

// New validates the selectors against the registry's limits and creates
// every problem of the cross product. Any failure aborts construction.
func New[T problem.Number](reg *problem.Registry[T], ids, instances, dimensions []int) (*Suite[T], error) {
	if err := validate(reg, ids, instances, dimensions); err != nil {
		return nil, err
	}

	s := &Suite[T]{
		name:       reg.Family(),
		ids:        slices.Clone(ids),
		instances:  slices.Clone(instances),
		dimensions: slices.Clone(dimensions),
		problems:   make([]*problem.Problem[T], 0, len(ids)*len(instances)*len(dimensions)),
	}
	for _, id := range ids {
		for _, instance := range instances {
			for _, dim := range dimensions {
				p, err := reg.Create(id, instance, dim)
				if err != nil {
					return nil, fmt.Errorf("failed to build suite %s: %w", s.name, err)
				}
				s.problems = append(s.problems, p)
			}
		}
	}

	slog.Debug("Suite created",
		"family", s.name,
		"problems", len(s.problems),
		"ids", len(ids),
		"instances", len(instances),
		"dimensions", len(dimensions),
	)
	return s, nil
}

func validate[T problem.Number](reg *problem.Registry[T], ids, instances, dimensions []int) error {
	family := reg.Family()
	limits := reg.Limits()

	switch {
	case len(ids) == 0:
		return &problem.ConfigurationError{Field: "ids", Value: ids, Reason: "must not be empty"}
	case len(instances) == 0:
		return &problem.ConfigurationError{Field: "instances", Value: instances, Reason: "must not be empty"}
	case len(dimensions) == 0:
		return &problem.ConfigurationError{Field: "dimensions", Value: dimensions, Reason: "must not be empty"}
	}

	for _, id := range ids {
		if id < 1 || id > limits.MaxID {
			return &problem.OutOfRangeError{Family: family, Field: "id", Value: id, Min: 1, Max: limits.MaxID}
		}
	}
	for _, instance := range instances {
		if instance < limits.MinInstance || instance > limits.MaxInstance {
			return &problem.OutOfRangeError{Family: family, Field: "instance", Value: instance, Min: limits.MinInstance, Max: limits.MaxInstance}
		}
	}
	for _, dim := range dimensions {
		if dim < limits.MinDim || dim > limits.MaxDim {
			return &problem.OutOfRangeError{Family: family, Field: "dimension", Value: dim, Min: limits.MinDim, Max: limits.MaxDim}
		}
	}
	return nil
}

// Next returns the next problem, or false once the sequence is exhausted.
// An attached observer follows the problem being handed out.
func (s *Suite[T]) Next() (*problem.Problem[T], bool) {
	s.release()
	if s.cursor >= len(s.problems) {
		return nil, false
	}

	p := s.problems[s.cursor]
	s.cursor++
	s.current = p

	if s.observer != nil {
		if err := p.Attach(s.observer); err != nil {
			meta := p.Meta()
			slog.Warn("Observer refused problem",
				"problem_id", meta.ID,
				"instance", meta.Instance,
				"dimension", meta.Dimension,
				"error", err,
			)
		}
	}
	return p, true
}

// release detaches the observer from the problem handed out last.
func (s *Suite[T]) release() {
	if s.current != nil && s.observer != nil {
		s.current.Detach(s.observer)
	}
	s.current = nil
}

// Reset rewinds the sequence and resets every problem.
func (s *Suite[T]) Reset() {
	s.release()
	s.cursor = 0
	for _, p := range s.problems {
		p.Reset()
	}
}

// Attach binds an observer to the suite. Problems handed out by Next are
// attached to it until the next call to Next or Reset.
func (s *Suite[T]) Attach(o Observer) error {
	if err := o.TrackSuite(s); err != nil {
		return err
	}
	s.release()
	s.observer = o
	return nil
}

// Problems returns the problems in iteration order.
func (s *Suite[T]) Problems() []*problem.Problem[T] {
	return slices.Clone(s.problems)
}

// Len returns the number of problems.
func (s *Suite[T]) Len() int {
	return len(s.problems)
}

// Name returns the family name.
func (s *Suite[T]) Name() string {
	return s.name
}

// ProblemIDs returns the id selector.
func (s *Suite[T]) ProblemIDs() []int {
	return slices.Clone(s.ids)
}

// Instances returns the instance selector.
func (s *Suite[T]) Instances() []int {
	return slices.Clone(s.instances)
}

// Dimensions returns the dimension selector.
func (s *Suite[T]) Dimensions() []int {
	return slices.Clone(s.dimensions)
}
