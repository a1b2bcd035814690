package median

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-denoise/internal/testutil"
)

func TestFilterRemovesImpulse(t *testing.T) {
	signal := testutil.DC(1.0, 50)
	signal[25] = 100

	out, err := Filter(signal, 5)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}

	want := testutil.DC(1.0, 50)
	testutil.RequireSliceNearlyEqual(t, out, want, 0)
}

func TestFilterPreservesConstant(t *testing.T) {
	signal := testutil.DC(3.5, 20)

	out, err := Filter(signal, 7)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, out, signal, 0)
}

func TestFilterPreservesRampInterior(t *testing.T) {
	signal := testutil.Ramp(2.0, 30)

	out, err := Filter(signal, 5)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}

	// A ramp is its own sliding median away from the mirrored edges.
	testutil.RequireSliceNearlyEqual(t, out[2:28], signal[2:28], 0)
}

func TestFilterEvenKernelRoundsUp(t *testing.T) {
	signal := testutil.DeterministicNoise(7, 1.0, 64)

	even, err := Filter(signal, 4)
	if err != nil {
		t.Fatalf("Filter(4): %v", err)
	}
	odd, err := Filter(signal, 5)
	if err != nil {
		t.Fatalf("Filter(5): %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, even, odd, 0)
}

func TestFilterKernelOneIsIdentity(t *testing.T) {
	signal := testutil.DeterministicNoise(11, 1.0, 32)

	out, err := Filter(signal, 1)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, out, signal, 0)
}

func TestFilterDoesNotModifyInput(t *testing.T) {
	signal := testutil.DeterministicNoise(3, 1.0, 32)
	orig := append([]float64(nil), signal...)

	if _, err := Filter(signal, 5); err != nil {
		t.Fatalf("Filter: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, signal, orig, 0)
}

func TestFilterShortSignal(t *testing.T) {
	out, err := Filter([]float64{4.0}, 9)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(out) != 1 || out[0] != 4.0 {
		t.Fatalf("got %v, want [4.0]", out)
	}
}

func TestFilterValidation(t *testing.T) {
	if _, err := Filter(nil, 5); !errors.Is(err, ErrEmptySignal) {
		t.Fatalf("empty signal error = %v, want %v", err, ErrEmptySignal)
	}
	if _, err := Filter([]float64{1}, 0); !errors.Is(err, ErrInvalidKernel) {
		t.Fatalf("zero kernel error = %v, want %v", err, ErrInvalidKernel)
	}
	if _, err := Filter([]float64{1}, -3); !errors.Is(err, ErrInvalidKernel) {
		t.Fatalf("negative kernel error = %v, want %v", err, ErrInvalidKernel)
	}
}
