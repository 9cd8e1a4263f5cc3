package maintenance

import (
	"errors"
	"fmt"
)

// ErrNoCurrentService is returned when completing or editing with nothing pending.
var ErrNoCurrentService = errors.New("no pending service")

// ErrInvalidInput is matched by every ValidationError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError reports a user-supplied field that was rejected. The
// mutation it guards is never applied.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is lets callers test errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
