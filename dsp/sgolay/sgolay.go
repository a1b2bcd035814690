// Package sgolay implements Savitzky-Golay smoothing: least-squares
// polynomial fitting expressed as a symmetric FIR filter, which reduces noise
// while preserving the higher moments of the signal better than a plain
// moving average.
package sgolay

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidWindowLength is returned when the window length is < 3.
	ErrInvalidWindowLength = errors.New("sgolay: window length must be >= 3")

	// ErrInvalidPolyOrder is returned when the polynomial order is negative
	// or not smaller than the window length.
	ErrInvalidPolyOrder = errors.New("sgolay: polynomial order must be in [0, window length)")

	// ErrEmptySignal is returned for an empty input.
	ErrEmptySignal = errors.New("sgolay: signal must not be empty")

	errSingular = errors.New("sgolay: normal equations are singular")
)

// Coefficients returns the symmetric smoothing kernel for the given odd
// window length and polynomial order. The kernel is the least-squares
// projection onto polynomials of the given order, evaluated at the window
// center.
func Coefficients(windowLength, polyOrder int) ([]float64, error) {
	if windowLength < 3 || windowLength%2 == 0 {
		return nil, fmt.Errorf("%w (odd): %d", ErrInvalidWindowLength, windowLength)
	}
	if polyOrder < 0 || polyOrder >= windowLength {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPolyOrder, polyOrder)
	}

	half := windowLength / 2
	m := polyOrder + 1

	// Normal matrix S[j][k] = sum_i x_i^(j+k) over x_i = -half..half.
	powerSums := make([]float64, 2*m-1)
	for i := -half; i <= half; i++ {
		x := 1.0
		for p := range powerSums {
			powerSums[p] += x
			x *= float64(i)
		}
	}

	s := make([][]float64, m)
	for j := range s {
		s[j] = make([]float64, m+1)
		for k := 0; k < m; k++ {
			s[j][k] = powerSums[j+k]
		}
	}
	// Right-hand side e0: evaluate the fitted polynomial at x = 0.
	s[0][m] = 1

	coeffsPoly, err := solve(s)
	if err != nil {
		return nil, err
	}

	// Kernel tap i is the fitted-value weight of sample i: sum_j y_j * x_i^j.
	kernel := make([]float64, windowLength)
	for i := -half; i <= half; i++ {
		x := 1.0
		var sum float64
		for j := 0; j < m; j++ {
			sum += coeffsPoly[j] * x
			x *= float64(i)
		}
		kernel[i+half] = sum
	}

	return kernel, nil
}

// Smooth applies Savitzky-Golay smoothing and returns a signal of identical
// length. An even window length is bumped to the next odd value. Edges are
// handled by mirroring the signal around its endpoints.
func Smooth(signal []float64, windowLength, polyOrder int) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptySignal
	}

	if windowLength%2 == 0 {
		windowLength++
	}
	if windowLength > 2*len(signal)-1 {
		return nil, fmt.Errorf("%w: %d exceeds mirrored signal of %d samples",
			ErrInvalidWindowLength, windowLength, len(signal))
	}

	kernel, err := Coefficients(windowLength, polyOrder)
	if err != nil {
		return nil, err
	}

	half := windowLength / 2
	out := make([]float64, len(signal))
	for i := range signal {
		var sum float64
		for k := -half; k <= half; k++ {
			sum += kernel[k+half] * signal[mirror(i+k, len(signal))]
		}
		out[i] = sum
	}

	return out, nil
}

// mirror reflects an out-of-range index around the signal endpoints
// (scipy "mirror" convention: the edge sample is not repeated).
func mirror(i, n int) int {
	if i < 0 {
		i = -i
	}
	if i >= n {
		i = 2*(n-1) - i
	}
	return i
}

// solve performs Gaussian elimination with partial pivoting on an augmented
// m x (m+1) system and returns the solution vector.
func solve(a [][]float64) ([]float64, error) {
	m := len(a)

	for col := 0; col < m; col++ {
		pivot := col
		for row := col + 1; row < m; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if a[pivot][col] == 0 {
			return nil, errSingular
		}

		a[col], a[pivot] = a[pivot], a[col]

		for row := col + 1; row < m; row++ {
			factor := a[row][col] / a[col][col]
			for k := col; k <= m; k++ {
				a[row][k] -= factor * a[col][k]
			}
		}
	}

	x := make([]float64, m)
	for row := m - 1; row >= 0; row-- {
		sum := a[row][m]
		for k := row + 1; k < m; k++ {
			sum -= a[row][k] * x[k]
		}
		x[row] = sum / a[row][row]
	}

	return x, nil
}
