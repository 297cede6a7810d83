package engine

import (
	"errors"
	"fmt"
)

// SchedulerError wraps a failure from the scheduler delegate.
//
// The engine guarantees that when a SchedulerError is returned from a
// grading attempt, no store state was mutated and no undo frame was
// left dangling for that attempt.
type SchedulerError struct {
	ItemID string
	Err    error
}

// Error implements the error interface.
func (e *SchedulerError) Error() string {
	return fmt.Sprintf("scheduler delegate failed for item %s: %v", e.ItemID, e.Err)
}

// Unwrap returns the underlying delegate error.
func (e *SchedulerError) Unwrap() error {
	return e.Err
}

// IsSchedulerError reports whether err is (or wraps) a SchedulerError.
func IsSchedulerError(err error) bool {
	var se *SchedulerError
	return errors.As(err, &se)
}
