// Package logger aggregates evaluation records of many runs into empirical
// attainment histograms (EAH) and attainment functions (EAF) and derives
// summary statistics from them.
package logger

import (
	"fmt"
	"math"
	"strings"
)

// Kind selects how a Scale spaces its bucket edges.
type Kind int

const (
	Linear Kind = iota
	Log2
	Log10
)

func (k Kind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Log2:
		return "log2"
	case Log10:
		return "log10"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses the name of a scale kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "linear", "":
		return Linear, nil
	case "log2":
		return Log2, nil
	case "log10":
		return Log10, nil
	}
	return Linear, fmt.Errorf("unknown scale kind %q", s)
}

func (k Kind) forward(v float64) float64 {
	switch k {
	case Log2:
		return math.Log2(v)
	case Log10:
		return math.Log10(v)
	default:
		return v
	}
}

func (k Kind) inverse(v float64) float64 {
	switch k {
	case Log2:
		return math.Exp2(v)
	case Log10:
		return math.Pow(10, v)
	default:
		return v
	}
}

// Scale partitions [Min, Max) into Size buckets, evenly spaced in the
// space selected by its Kind. A Scale is immutable.
type Scale struct {
	kind     Kind
	min, max float64
	size     int
	lo, hi   float64
}

// NewScale creates a scale. It fails with an InvalidRangeError when
// max <= min or size <= 0, and with an ArithmeticDomainError when a
// logarithmic scale has a non-positive lower bound.
func NewScale(kind Kind, min, max float64, size int) (*Scale, error) {
	if size <= 0 || !(max > min) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return nil, &InvalidRangeError{Min: min, Max: max, Size: size}
	}
	if kind != Linear && min <= 0 {
		return nil, &ArithmeticDomainError{Kind: kind, Value: min}
	}
	return &Scale{
		kind: kind,
		min:  min,
		max:  max,
		size: size,
		lo:   kind.forward(min),
		hi:   kind.forward(max),
	}, nil
}

// Index returns the bucket of v. Values at or below Min map to 0, values at
// or above Max map to Size-1. NaN maps to 0.
func (s *Scale) Index(v float64) int {
	if !(v > s.min) {
		return 0
	}
	if v >= s.max {
		return s.size - 1
	}
	t := (s.kind.forward(v) - s.lo) / (s.hi - s.lo)
	i := int(math.Floor(t * float64(s.size)))
	return min(max(i, 0), s.size-1)
}

// Bounds returns the edges of bucket i.
func (s *Scale) Bounds(i int) (lo, hi float64) {
	return s.edge(i), s.edge(i + 1)
}

func (s *Scale) edge(i int) float64 {
	switch i {
	case 0:
		return s.min
	case s.size:
		return s.max
	}
	return s.kind.inverse(s.lo + float64(i)*(s.hi-s.lo)/float64(s.size))
}

// Edges returns the Size+1 bucket edges in increasing order.
func (s *Scale) Edges() []float64 {
	edges := make([]float64, s.size+1)
	for i := range edges {
		edges[i] = s.edge(i)
	}
	return edges
}

// Width returns the extent of bucket i in the original units.
func (s *Scale) Width(i int) float64 {
	lo, hi := s.Bounds(i)
	return hi - lo
}

func (s *Scale) Kind() Kind   { return s.kind }
func (s *Scale) Size() int    { return s.size }
func (s *Scale) Min() float64 { return s.min }
func (s *Scale) Max() float64 { return s.max }

// Range returns Max - Min.
func (s *Scale) Range() float64 { return s.max - s.min }

// ScaledRange returns the extent of the scale in the space its buckets are
// evenly spaced in, e.g. the number of decades for Log10.
func (s *Scale) ScaledRange() float64 { return s.hi - s.lo }

// scaled maps v into the space of the scale.
func (s *Scale) scaled(v float64) float64 { return s.kind.forward(v) }
