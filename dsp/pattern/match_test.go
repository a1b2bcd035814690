package pattern

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-denoise/internal/testutil"
)

func TestPearson(t *testing.T) {
	tests := []struct {
		name   string
		a, b   []float64
		want   float64
		wantOK bool
	}{
		{"identical", []float64{1, 2, 3, 4}, []float64{1, 2, 3, 4}, 1, true},
		{"scaled and shifted", []float64{1, 2, 3, 4}, []float64{7, 9, 11, 13}, 1, true},
		{"inverted", []float64{1, 2, 3, 4}, []float64{4, 3, 2, 1}, -1, true},
		{"constant a", []float64{5, 5, 5}, []float64{1, 2, 3}, 0, false},
		{"constant b", []float64{1, 2, 3}, []float64{5, 5, 5}, 0, false},
		{"empty", nil, nil, 0, false},
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Pearson(tt.a, tt.b)
			if ok != tt.wantOK {
				t.Fatalf("ok=%v, want %v", ok, tt.wantOK)
			}
			if ok && math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("r=%v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindMatchesThresholdStrict(t *testing.T) {
	s, _ := NewStore(8)
	template := testutil.SinePattern(32, 1)
	key, _ := s.Insert(template, 0.5)

	// Identical window: r = 1 > any threshold < 1.
	matches := s.FindMatches(template, 0.7)
	if len(matches) != 1 {
		t.Fatalf("matches=%d, want 1", len(matches))
	}
	if matches[0].Key != key {
		t.Fatalf("matched key=%d, want %d", matches[0].Key, key)
	}
	if math.Abs(matches[0].Correlation-1) > 1e-12 {
		t.Fatalf("correlation=%v, want 1", matches[0].Correlation)
	}
	if matches[0].Confidence != 0.5 {
		t.Fatalf("confidence=%v, want 0.5", matches[0].Confidence)
	}

	// Strict comparison: r == threshold must not match.
	if got := s.FindMatches(template, 1.0); len(got) != 0 {
		t.Fatalf("r == threshold matched: %d results", len(got))
	}
}

func TestFindMatchesSkipsOtherLengths(t *testing.T) {
	s, _ := NewStore(8)
	s.Insert(testutil.SinePattern(16, 1), 0.5)
	s.Insert(testutil.SinePattern(32, 1), 0.5)

	matches := s.FindMatches(testutil.SinePattern(32, 1), 0.5)
	if len(matches) != 1 {
		t.Fatalf("matches=%d, want only the equal-length template", len(matches))
	}
}

func TestFindMatchesDegenerateWindow(t *testing.T) {
	s, _ := NewStore(8)
	s.Insert(testutil.SinePattern(16, 1), 0.9)
	s.Insert(testutil.DC(3, 16), 0.9)

	// Zero-variance window: correlation undefined against everything.
	if got := s.FindMatches(testutil.DC(1, 16), 0.0); len(got) != 0 {
		t.Fatalf("flat window matched %d patterns", len(got))
	}

	// Zero-variance template must be skipped, not matched.
	got := s.FindMatches(testutil.SinePattern(16, 2), 0.5)
	if len(got) != 1 {
		t.Fatalf("matches=%d, want 1 (flat template skipped)", len(got))
	}
}

func TestFindMatchesBelowThreshold(t *testing.T) {
	s, _ := NewStore(8)
	s.Insert(testutil.SinePattern(64, 1), 0.5)

	// Noise is essentially uncorrelated with a sine period.
	noise := testutil.DeterministicNoise(7, 1, 64)
	if got := s.FindMatches(noise, 0.7); len(got) != 0 {
		t.Fatalf("noise matched %d patterns above 0.7", len(got))
	}
}
