package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput wraps request validation failures
var ErrInvalidInput = errors.New("invalid input")

// Invalid marks err as a validation failure while keeping it reachable
// through errors.As.
func Invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}
