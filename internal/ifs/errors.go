package ifs

import (
	"errors"
	"fmt"
)

// Domain errors for transform validation.
var (
	// ErrInvalidWeight indicates a negative, NaN or infinite selection weight.
	ErrInvalidWeight = errors.New("ifs: weight must be a finite non-negative number")

	// ErrInvalidCoefficient indicates a NaN or infinite matrix or translation entry.
	ErrInvalidCoefficient = errors.New("ifs: coefficient must be finite")

	// ErrInvalidColor indicates a color string that is not #rrggbb.
	ErrInvalidColor = errors.New("ifs: color must have the form #rrggbb")
)

// TransformError wraps a validation error with the offending transform.
type TransformError struct {
	Index   int
	Name    string
	Wrapped error
}

func (e *TransformError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("transform %d (%s): %v", e.Index, e.Name, e.Wrapped)
	}
	return fmt.Sprintf("transform %d: %v", e.Index, e.Wrapped)
}

func (e *TransformError) Unwrap() error {
	return e.Wrapped
}
