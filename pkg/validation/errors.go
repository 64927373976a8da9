package validation

import (
	"errors"
	"fmt"
)

// InvalidParameterError reports an engine input that cannot be evaluated.
// It is never transient; callers surface it to whoever supplied the input.
type InvalidParameterError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *InvalidParameterError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// NewInvalidParameter builds an InvalidParameterError.
func NewInvalidParameter(field string, value interface{}, reason string) error {
	return &InvalidParameterError{Field: field, Value: value, Reason: reason}
}

// IsInvalidParameter reports whether err, or any error it wraps, is an
// InvalidParameterError.
func IsInvalidParameter(err error) bool {
	var target *InvalidParameterError
	return errors.As(err, &target)
}

// Positive returns an InvalidParameterError unless value > 0.
func Positive(field string, value float64) error {
	if value <= 0 {
		return NewInvalidParameter(field, value, "must be positive")
	}
	return nil
}

// NonNegative returns an InvalidParameterError unless value >= 0.
func NonNegative(field string, value float64) error {
	if value < 0 {
		return NewInvalidParameter(field, value, "must not be negative")
	}
	return nil
}
