package frame

import (
	"errors"
	"testing"
)

func TestExtractOffsets(t *testing.T) {
	signal := make([]float64, 10)
	for i := range signal {
		signal[i] = float64(i)
	}

	tests := []struct {
		name        string
		windowSize  int
		overlap     float64
		wantOffsets []int
	}{
		{"no overlap", 4, 0, []int{0, 4}},
		{"half overlap", 4, 0.5, []int{0, 2, 4, 6}},
		{"full signal", 10, 0, []int{0}},
		{"step clamps to one", 2, 0.9, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows, err := Extract(signal, tt.windowSize, tt.overlap)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(windows) != len(tt.wantOffsets) {
				t.Fatalf("window count=%d, want %d", len(windows), len(tt.wantOffsets))
			}

			for i, w := range windows {
				if w.Offset != tt.wantOffsets[i] {
					t.Fatalf("window %d offset=%d, want %d", i, w.Offset, tt.wantOffsets[i])
				}
				if len(w.Data) != tt.windowSize {
					t.Fatalf("window %d len=%d, want %d", i, len(w.Data), tt.windowSize)
				}
				if w.Data[0] != signal[w.Offset] {
					t.Fatalf("window %d starts at %v, want %v", i, w.Data[0], signal[w.Offset])
				}
			}
		})
	}
}

func TestExtractShortSignal(t *testing.T) {
	windows, err := Extract(make([]float64, 5), 10, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(windows) != 0 {
		t.Fatalf("want empty result for short signal, got %d windows", len(windows))
	}
}

func TestExtractInvalidParams(t *testing.T) {
	signal := make([]float64, 16)

	if _, err := Extract(signal, 0, 0.5); !errors.Is(err, ErrInvalidWindowSize) {
		t.Fatalf("window size 0: got %v, want ErrInvalidWindowSize", err)
	}
	if _, err := Extract(signal, 4, -0.1); !errors.Is(err, ErrInvalidOverlap) {
		t.Fatalf("overlap -0.1: got %v, want ErrInvalidOverlap", err)
	}
	if _, err := Extract(signal, 4, 1.0); !errors.Is(err, ErrInvalidOverlap) {
		t.Fatalf("overlap 1.0: got %v, want ErrInvalidOverlap", err)
	}
}

func TestStepClamp(t *testing.T) {
	if got := Step(4, 0.5); got != 2 {
		t.Fatalf("Step(4, 0.5)=%d, want 2", got)
	}
	if got := Step(3, 0.99); got != 1 {
		t.Fatalf("Step(3, 0.99)=%d, want 1", got)
	}
}

func TestCountMatchesExtract(t *testing.T) {
	signal := make([]float64, 1000)

	for _, overlap := range []float64{0, 0.25, 0.5, 0.75} {
		windows, err := Extract(signal, 100, overlap)
		if err != nil {
			t.Fatalf("overlap %v: %v", overlap, err)
		}
		if got := Count(len(signal), 100, overlap); got != len(windows) {
			t.Fatalf("overlap %v: Count=%d, Extract produced %d", overlap, got, len(windows))
		}
	}
}
