package statement

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidRange   = errors.New("invalid range")
	ErrUnknownSortKey = errors.New("unknown sort key")
)

// RangeError reports a filter bound that failed validation.
// Message is the text shown to the user.
type RangeError struct {
	Field   string
	Message string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidRange, e.Field, e.Message)
}

// Is lets errors.Is match ErrInvalidRange
func (e *RangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

func newRangeError(field, message string) *RangeError {
	return &RangeError{Field: field, Message: message}
}

// UserMessage returns the user-facing text of a validation error
func UserMessage(err error) string {
	var rangeErr *RangeError
	if errors.As(err, &rangeErr) {
		return rangeErr.Message
	}
	return err.Error()
}
