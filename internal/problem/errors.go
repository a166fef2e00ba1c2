package problem

import "fmt"

// ErrConfiguration matches every configuration error, including
// OutOfRangeError. Use errors.Is(err, ErrConfiguration) to check for it.
var ErrConfiguration = &ConfigurationError{}

// ErrDuplicateRegistration is returned when a name or id is registered twice.
var ErrDuplicateRegistration = &DuplicateRegistrationError{}

// ConfigurationError reports an invalid problem selector or parameter.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "configuration error"
	}
	return fmt.Sprintf("configuration error: %s=%v %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	_, ok := target.(*ConfigurationError)
	return ok
}

// OutOfRangeError reports a suite selector beyond its family bound.
type OutOfRangeError struct {
	Family string
	Field  string
	Value  int
	Min    int
	Max    int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %s=%d out of range [%d, %d]", e.Family, e.Field, e.Value, e.Min, e.Max)
}

// Is reports OutOfRangeError as both itself and a ConfigurationError.
func (e *OutOfRangeError) Is(target error) bool {
	switch target.(type) {
	case *OutOfRangeError, *ConfigurationError:
		return true
	}
	return false
}

// DuplicateRegistrationError reports a registry name or id collision.
type DuplicateRegistrationError struct {
	Family string
	Name   string
	ID     int
}

func (e *DuplicateRegistrationError) Error() string {
	if e.Name == "" {
		return "duplicate registration"
	}
	return fmt.Sprintf("duplicate registration in %s: %s (id %d)", e.Family, e.Name, e.ID)
}

func (e *DuplicateRegistrationError) Is(target error) bool {
	_, ok := target.(*DuplicateRegistrationError)
	return ok
}
