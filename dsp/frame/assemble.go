package frame

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Assembler accumulates processed windows back into a full-length signal
// using the overlap-add method: contributions are summed per sample and
// normalized by the number of windows covering each sample.
type Assembler struct {
	sum      []float64
	coverage []float64
}

// NewAssembler creates an Assembler for an output signal of the given length.
func NewAssembler(length int) *Assembler {
	return &Assembler{
		sum:      make([]float64, length),
		coverage: make([]float64, length),
	}
}

// Len returns the output signal length.
func (a *Assembler) Len() int {
	return len(a.sum)
}

// Add accumulates one processed window at the given offset.
func (a *Assembler) Add(offset int, window []float64) error {
	if offset < 0 || offset+len(window) > len(a.sum) {
		return fmt.Errorf("%w: offset %d, window %d, signal %d",
			ErrWindowOutOfRange, offset, len(window), len(a.sum))
	}

	vecmath.AddBlockInPlace(a.sum[offset:offset+len(window)], window)

	for i := offset; i < offset+len(window); i++ {
		a.coverage[i]++
	}

	return nil
}

// Coverage returns the number of windows covering the given sample index.
func (a *Assembler) Coverage(i int) int {
	return int(a.coverage[i])
}

// Output returns the normalized overlap-add result. Samples never covered by
// a window (the tail shorter than one window) copy through from original,
// which must have the assembler's length. Pass nil to leave them zero.
func (a *Assembler) Output(original []float64) ([]float64, error) {
	if original != nil && len(original) != len(a.sum) {
		return nil, fmt.Errorf("%w: original %d, signal %d",
			ErrLengthMismatch, len(original), len(a.sum))
	}

	out := make([]float64, len(a.sum))
	for i, c := range a.coverage {
		switch {
		case c > 0:
			out[i] = a.sum[i] / c
		case original != nil:
			out[i] = original[i]
		}
	}

	return out, nil
}

// Reset clears the accumulators so the Assembler can be reused.
func (a *Assembler) Reset() {
	for i := range a.sum {
		a.sum[i] = 0
		a.coverage[i] = 0
	}
}
