// ABOUTME: Validation error type returned by model checks
// ABOUTME: Callers convert it to the shared error taxonomy at the API boundary

package models

import "fmt"

// ValidationError describes input rejected before any request is sent
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func errorf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
