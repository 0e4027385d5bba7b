package service

import (
	"errors"
	"fmt"

	"debt-planner/projection"
)

// ErrValidation marks requests rejected before reaching the engine.
var ErrValidation = errors.New("validation failed")

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// IsBadRequest reports whether err is the caller's fault.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, projection.ErrInvalidInput)
}
