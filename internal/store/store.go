// Package store persists experiment results and evaluation traces.
package store

// Store defines the interface for result persistence operations.
// Implementations must be safe for concurrent use.
//
// Error handling conventions:
//   - Return ErrNotFound if a result doesn't exist (for Load/Delete)
//   - Wrap underlying errors with context using fmt.Errorf("context: %w", err)
type Store interface {
	// SaveResult atomically saves a result, replacing any earlier one with
	// the same ID.
	SaveResult(result *Result) error

	// LoadResult retrieves the result with the given ID.
	LoadResult(id string) (*Result, error)

	// ListResults returns metadata for all stored results, newest first.
	ListResults() ([]ResultInfo, error)

	// DeleteResult removes a result and all associated artifacts, including
	// its evaluation trace.
	DeleteResult(id string) error
}

// ErrNotFound is returned when a requested result does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing result error.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return "result not found: " + e.ID
	}
	return "result not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
