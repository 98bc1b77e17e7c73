package core

import (
	"errors"
	"fmt"
)

// ErrInvalidInput reports malformed or empty arguments. It is always raised
// before any output is produced.
var ErrInvalidInput = errors.New("invalid input")

// Invalidf returns an error wrapping [ErrInvalidInput] with a formatted detail.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
