package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSpecification marks caller errors: unknown catalog ids or a
	// quantity below one.
	ErrInvalidSpecification = errors.New("invalid specification")

	// ErrIncompleteDimensions means a custom size lacks a positive width or
	// height. It is the "nothing to show yet" outcome, not a failure.
	ErrIncompleteDimensions = errors.New("custom size needs positive width and height")
)

// SpecError names the field that made a specification invalid.
type SpecError struct {
	Field  string
	Value  string
	Reason string
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("%s: %s %q: %s", ErrInvalidSpecification, e.Field, e.Value, e.Reason)
}

func (e *SpecError) Unwrap() error {
	return ErrInvalidSpecification
}

func invalid(field, value, reason string) error {
	return &SpecError{Field: field, Value: value, Reason: reason}
}

// IsIncomplete reports whether err is the custom-dimension gate.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncompleteDimensions)
}

// IsInvalid reports whether err is a specification error.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidSpecification)
}
