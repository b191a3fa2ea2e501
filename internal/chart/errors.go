package chart

import (
	"errors"
	"fmt"
)

// ErrMalformed is wrapped by every DecodeError.
var ErrMalformed = errors.New("malformed chart payload")

// DecodeError reports a payload field that is present but cannot be decoded.
type DecodeError struct {
	Surface string
	Field   string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("surface %q field %q: %v", e.Surface, e.Field, e.Err)
}

// Unwrap returns both the cause and ErrMalformed so callers can match either.
func (e *DecodeError) Unwrap() []error {
	return []error{ErrMalformed, e.Err}
}
