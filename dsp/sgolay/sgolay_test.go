package sgolay

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-denoise/internal/testutil"
)

func TestCoefficientsProperties(t *testing.T) {
	tests := []struct {
		windowLength int
		polyOrder    int
	}{
		{5, 2}, {7, 3}, {9, 2}, {51, 3}, {11, 4},
	}

	for _, tt := range tests {
		kernel, err := Coefficients(tt.windowLength, tt.polyOrder)
		if err != nil {
			t.Fatalf("Coefficients(%d, %d): %v", tt.windowLength, tt.polyOrder, err)
		}
		if len(kernel) != tt.windowLength {
			t.Fatalf("kernel len=%d, want %d", len(kernel), tt.windowLength)
		}

		// DC preservation: taps sum to 1.
		var sum float64
		for _, c := range kernel {
			sum += c
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("(%d, %d): taps sum to %v, want 1", tt.windowLength, tt.polyOrder, sum)
		}

		// Smoothing kernels are symmetric.
		for i := range kernel {
			j := len(kernel) - 1 - i
			if math.Abs(kernel[i]-kernel[j]) > 1e-9 {
				t.Fatalf("(%d, %d): asymmetric taps %d/%d: %v vs %v",
					tt.windowLength, tt.polyOrder, i, j, kernel[i], kernel[j])
			}
		}
	}
}

func TestCoefficientsOrderZeroIsMovingAverage(t *testing.T) {
	kernel, err := Coefficients(5, 0)
	if err != nil {
		t.Fatalf("Coefficients: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, kernel, []float64{0.2, 0.2, 0.2, 0.2, 0.2}, 1e-12)
}

func TestSmoothPreservesPolynomial(t *testing.T) {
	// A degree-2 signal passes through a polyOrder >= 2 filter unchanged
	// away from the mirrored edges.
	signal := make([]float64, 64)
	for i := range signal {
		x := float64(i)
		signal[i] = 3 + 0.5*x + 0.02*x*x
	}

	out, err := Smooth(signal, 11, 2)
	if err != nil {
		t.Fatalf("Smooth: %v", err)
	}

	for i := 5; i < len(signal)-5; i++ {
		if math.Abs(out[i]-signal[i]) > 1e-9 {
			t.Fatalf("sample %d: got %v, want %v", i, out[i], signal[i])
		}
	}
}

func TestSmoothReducesNoise(t *testing.T) {
	clean := testutil.DeterministicSine(2, 1000, 1, 1000)
	noise := testutil.DeterministicNoise(11, 0.5, 1000)
	noisy := make([]float64, len(clean))
	for i := range noisy {
		noisy[i] = clean[i] + noise[i]
	}

	out, err := Smooth(noisy, 51, 3)
	if err != nil {
		t.Fatalf("Smooth: %v", err)
	}
	if len(out) != len(noisy) {
		t.Fatalf("len=%d, want %d", len(out), len(noisy))
	}

	before, _ := testutil.RMSDeviation(noisy, clean)
	after, _ := testutil.RMSDeviation(out, clean)
	if after >= before {
		t.Fatalf("noise not reduced: before %v, after %v", before, after)
	}
}

func TestSmoothEvenWindowBumped(t *testing.T) {
	signal := testutil.DeterministicSine(1, 100, 1, 100)

	even, err := Smooth(signal, 10, 2)
	if err != nil {
		t.Fatalf("even window: %v", err)
	}
	odd, err := Smooth(signal, 11, 2)
	if err != nil {
		t.Fatalf("odd window: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, even, odd, 0)
}

func TestValidation(t *testing.T) {
	if _, err := Smooth(nil, 5, 2); !errors.Is(err, ErrEmptySignal) {
		t.Fatalf("empty signal: got %v", err)
	}
	if _, err := Coefficients(4, 2); !errors.Is(err, ErrInvalidWindowLength) {
		t.Fatalf("even window: got %v", err)
	}
	if _, err := Coefficients(5, 5); !errors.Is(err, ErrInvalidPolyOrder) {
		t.Fatalf("order too high: got %v", err)
	}
	if _, err := Coefficients(5, -1); !errors.Is(err, ErrInvalidPolyOrder) {
		t.Fatalf("negative order: got %v", err)
	}
	if _, err := Smooth(make([]float64, 5), 11, 2); !errors.Is(err, ErrInvalidWindowLength) {
		t.Fatalf("window larger than mirrored signal: got %v", err)
	}
}
