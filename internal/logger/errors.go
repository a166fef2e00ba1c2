package logger

import (
	"fmt"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
)

// NotTrackingError is returned when a record arrives outside an active
// problem context.
type NotTrackingError struct {
	Op string
}

func (e *NotTrackingError) Error() string {
	return fmt.Sprintf("logger: %s called before TrackProblem", e.Op)
}

func (e *NotTrackingError) Is(target error) bool {
	_, ok := target.(*NotTrackingError)
	return ok
}

// ErrNotTracking can be used with errors.Is.
var ErrNotTracking = &NotTrackingError{}

// InvalidRangeError is returned for bucket scales with an empty range or no
// buckets. It is also a configuration error.
type InvalidRangeError struct {
	Min, Max float64
	Size     int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("logger: invalid bucket range [%g, %g) with %d buckets", e.Min, e.Max, e.Size)
}

func (e *InvalidRangeError) Is(target error) bool {
	switch target.(type) {
	case *InvalidRangeError, *problem.ConfigurationError:
		return true
	}
	return false
}

// ArithmeticDomainError is returned when a logarithmic scale would need the
// logarithm of a non-positive bound.
type ArithmeticDomainError struct {
	Kind  Kind
	Value float64
}

func (e *ArithmeticDomainError) Error() string {
	return fmt.Sprintf("logger: %s scale is undefined at %g", e.Kind, e.Value)
}

func (e *ArithmeticDomainError) Is(target error) bool {
	_, ok := target.(*ArithmeticDomainError)
	return ok
}

// ErrArithmeticDomain can be used with errors.Is.
var ErrArithmeticDomain = &ArithmeticDomainError{}

// MalformedRecordError is returned for records whose evaluation index is not
// positive or does not increase within a run.
type MalformedRecordError struct {
	Evaluation int
	Previous   int
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("logger: malformed record: evaluation %d after %d", e.Evaluation, e.Previous)
}

func (e *MalformedRecordError) Is(target error) bool {
	_, ok := target.(*MalformedRecordError)
	return ok
}

// ErrMalformedRecord can be used with errors.Is.
var ErrMalformedRecord = &MalformedRecordError{}
