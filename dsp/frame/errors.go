package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWindowSize is returned when the window size is not positive.
	ErrInvalidWindowSize = errors.New("frame: window size must be >= 1")

	// ErrInvalidOverlap is returned when the overlap fraction is outside [0, 1).
	ErrInvalidOverlap = errors.New("frame: overlap must be in [0, 1)")

	// ErrWindowOutOfRange is returned when a window does not fit the output signal.
	ErrWindowOutOfRange = errors.New("frame: window exceeds signal bounds")

	// ErrLengthMismatch is returned when slice lengths disagree.
	ErrLengthMismatch = errors.New("frame: length mismatch")
)

func validateParams(windowSize int, overlap float64) error {
	if windowSize < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidWindowSize, windowSize)
	}
	if overlap < 0 || overlap >= 1 {
		return fmt.Errorf("%w: %f", ErrInvalidOverlap, overlap)
	}
	return nil
}
