package pattern

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-denoise/internal/testutil"
)

func TestInsertAndGet(t *testing.T) {
	s, err := NewStore(4)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	template := []float64{1, 2, 3}
	key, err := s.Insert(template, 0.5)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	p, ok := s.Get(key)
	if !ok {
		t.Fatalf("Get(%d): not found", key)
	}
	testutil.RequireSliceNearlyEqual(t, p.Template, template, 0)
	if p.Confidence != 0.5 {
		t.Fatalf("confidence=%v, want 0.5", p.Confidence)
	}
	if p.Observations != 1 {
		t.Fatalf("observations=%d, want 1", p.Observations)
	}
	if p.Staleness != 0 {
		t.Fatalf("staleness=%d, want 0", p.Staleness)
	}

	// Mutating the returned template must not affect store state.
	p.Template[0] = 99
	again, _ := s.Get(key)
	if again.Template[0] != 1 {
		t.Fatalf("Get leaked internal template memory")
	}

	// Mutating the inserted slice must not affect store state either.
	template[1] = 99
	again, _ = s.Get(key)
	if again.Template[1] != 2 {
		t.Fatalf("Insert aliased caller memory")
	}
}

func TestKeysMonotonic(t *testing.T) {
	s, _ := NewStore(2)

	k0, _ := s.Insert([]float64{1, 0}, 0.9)
	k1, _ := s.Insert([]float64{0, 1}, 0.1)
	if k1 <= k0 {
		t.Fatalf("keys not increasing: %d then %d", k0, k1)
	}

	// Filling past capacity evicts, but keys keep increasing: no reuse.
	k2, _ := s.Insert([]float64{1, 1}, 0.5)
	if k2 <= k1 {
		t.Fatalf("key reused after eviction: %d then %d", k1, k2)
	}
}

func TestEvictionRemovesLowestConfidence(t *testing.T) {
	s, _ := NewStore(3)

	kA, _ := s.Insert([]float64{1, 0, 0}, 0.8)
	kB, _ := s.Insert([]float64{0, 1, 0}, 0.2)
	kC, _ := s.Insert([]float64{0, 0, 1}, 0.6)

	kD, err := s.Insert([]float64{1, 1, 1}, 0.5)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if s.Len() != 3 {
		t.Fatalf("len=%d, want 3", s.Len())
	}
	if _, ok := s.Get(kB); ok {
		t.Fatalf("lowest-confidence pattern %d survived eviction", kB)
	}
	for _, k := range []Key{kA, kC, kD} {
		if _, ok := s.Get(k); !ok {
			t.Fatalf("pattern %d missing after eviction", k)
		}
	}
}

func TestEvictionTieBreaksLowestKey(t *testing.T) {
	s, _ := NewStore(2)

	kA, _ := s.Insert([]float64{1, 0}, 0.5)
	kB, _ := s.Insert([]float64{0, 1}, 0.5)

	s.Insert([]float64{1, 1}, 0.5)

	if _, ok := s.Get(kA); ok {
		t.Fatalf("tie must evict lowest key %d", kA)
	}
	if _, ok := s.Get(kB); !ok {
		t.Fatalf("pattern %d wrongly evicted on tie", kB)
	}
}

func TestCapacityBound(t *testing.T) {
	s, _ := NewStore(5)
	for i := 0; i < 50; i++ {
		if _, err := s.Insert([]float64{float64(i), 1}, 0.5); err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
		if s.Len() > 5 {
			t.Fatalf("len=%d exceeds capacity after insert %d", s.Len(), i)
		}
	}
}

func TestUpdateBlendsAndClamps(t *testing.T) {
	s, _ := NewStore(2)
	key, _ := s.Insert([]float64{0, 0, 0, 0}, 0.95)

	if err := s.Update(key, []float64{1, 1, 1, 1}, 0.5); err != nil {
		t.Fatalf("Update: %v", err)
	}

	p, _ := s.Get(key)
	testutil.RequireSliceNearlyEqual(t, p.Template, []float64{0.5, 0.5, 0.5, 0.5}, 1e-12)
	if p.Confidence != 1.0 {
		t.Fatalf("confidence=%v, want clamp to 1.0", p.Confidence)
	}
	if p.Observations != 2 {
		t.Fatalf("observations=%d, want 2", p.Observations)
	}
	if p.Staleness != 0 {
		t.Fatalf("staleness=%d, want reset to 0", p.Staleness)
	}
}

func TestUpdateErrors(t *testing.T) {
	s, _ := NewStore(2)
	key, _ := s.Insert([]float64{1, 2}, 0.5)

	if err := s.Update(Key(999), []float64{1, 2}, 0.1); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("unknown key: got %v, want ErrUnknownKey", err)
	}
	if err := s.Update(key, []float64{1, 2, 3}, 0.1); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("length mismatch: got %v, want ErrLengthMismatch", err)
	}
	if err := s.Update(key, []float64{1, 2}, 0); !errors.Is(err, ErrInvalidLearningRate) {
		t.Fatalf("lr=0: got %v, want ErrInvalidLearningRate", err)
	}
	if err := s.Update(key, []float64{1, 2}, 1.5); !errors.Is(err, ErrInvalidLearningRate) {
		t.Fatalf("lr=1.5: got %v, want ErrInvalidLearningRate", err)
	}
}

func TestStalenessAges(t *testing.T) {
	s, _ := NewStore(4)
	kA, _ := s.Insert([]float64{1, 0}, 0.5)
	kB, _ := s.Insert([]float64{0, 1}, 0.5)

	// kA aged once by kB's insert.
	a, _ := s.Get(kA)
	if a.Staleness != 1 {
		t.Fatalf("kA staleness=%d after one insert, want 1", a.Staleness)
	}

	if err := s.Update(kA, []float64{1, 0}, 0.1); err != nil {
		t.Fatalf("Update: %v", err)
	}

	a, _ = s.Get(kA)
	b, _ := s.Get(kB)
	if a.Staleness != 0 {
		t.Fatalf("updated pattern staleness=%d, want 0", a.Staleness)
	}
	if b.Staleness != 1 {
		t.Fatalf("untouched pattern staleness=%d, want 1", b.Staleness)
	}
}

func TestStats(t *testing.T) {
	s, _ := NewStore(4)

	if got := s.Stats(); got != (Stats{}) {
		t.Fatalf("empty store stats=%+v, want zero", got)
	}

	kA, _ := s.Insert([]float64{1, 0}, 0.4)
	s.Insert([]float64{0, 1}, 0.8)
	s.Update(kA, []float64{1, 0}, 0.1)

	got := s.Stats()
	if got.TotalPatterns != 2 {
		t.Fatalf("TotalPatterns=%d, want 2", got.TotalPatterns)
	}
	if got.TotalObservations != 3 {
		t.Fatalf("TotalObservations=%d, want 3", got.TotalObservations)
	}
	want := (0.5 + 0.8) / 2
	if diff := got.AverageConfidence - want; diff > 1e-12 || diff < -1e-12 {
		t.Fatalf("AverageConfidence=%v, want %v", got.AverageConfidence, want)
	}
}

func TestRemove(t *testing.T) {
	s, _ := NewStore(2)
	key, _ := s.Insert([]float64{1, 2}, 0.5)

	if err := s.Remove(key); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(key); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("double remove: got %v, want ErrUnknownKey", err)
	}
	if s.Len() != 0 {
		t.Fatalf("len=%d, want 0", s.Len())
	}
}

func TestNewStoreValidation(t *testing.T) {
	if _, err := NewStore(0); !errors.Is(err, ErrInvalidCapacity) {
		t.Fatalf("capacity 0: got %v, want ErrInvalidCapacity", err)
	}

	s, _ := NewStore(1)
	if _, err := s.Insert(nil, 0.5); !errors.Is(err, ErrEmptyTemplate) {
		t.Fatalf("empty template: got %v, want ErrEmptyTemplate", err)
	}
}
