// Package median implements sliding-window median filtering, which removes
// impulsive outliers while preserving step edges.
package median

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrInvalidKernel is returned when the kernel size is not positive.
	ErrInvalidKernel = errors.New("median: kernel size must be >= 1")

	// ErrEmptySignal is returned for an empty input.
	ErrEmptySignal = errors.New("median: signal must not be empty")
)

// Filter applies a sliding median of the given kernel size. Even kernel
// sizes are rounded up to the next odd value so the window stays centered.
// Edges are handled by mirroring the signal.
func Filter(signal []float64, kernelSize int) ([]float64, error) {
	if kernelSize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKernel, kernelSize)
	}
	if len(signal) == 0 {
		return nil, ErrEmptySignal
	}

	if kernelSize%2 == 0 {
		kernelSize++
	}
	if kernelSize == 1 {
		return append([]float64(nil), signal...), nil
	}

	n := len(signal)
	half := kernelSize / 2
	out := make([]float64, n)
	window := make([]float64, kernelSize)

	for i := 0; i < n; i++ {
		for j := -half; j <= half; j++ {
			window[j+half] = signal[mirror(i+j, n)]
		}
		sort.Float64s(window)
		out[i] = window[half]
	}

	return out, nil
}

// mirror reflects an out-of-range index back into [0, n).
func mirror(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}
