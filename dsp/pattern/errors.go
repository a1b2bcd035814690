package pattern

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCapacity is returned when a store capacity is not positive.
	ErrInvalidCapacity = errors.New("pattern: capacity must be >= 1")

	// ErrEmptyTemplate is returned when a pattern template has no samples.
	ErrEmptyTemplate = errors.New("pattern: template must not be empty")

	// ErrUnknownKey is returned when no pattern exists for the given key.
	ErrUnknownKey = errors.New("pattern: unknown key")

	// ErrLengthMismatch is returned when an observation does not match the
	// template length of the pattern it refines.
	ErrLengthMismatch = errors.New("pattern: observation length mismatch")

	// ErrInvalidLearningRate is returned when a learning rate is outside (0, 1].
	ErrInvalidLearningRate = errors.New("pattern: learning rate must be in (0, 1]")
)

func validateLearningRate(lr float64) error {
	if lr <= 0 || lr > 1 {
		return fmt.Errorf("%w: %f", ErrInvalidLearningRate, lr)
	}
	return nil
}
