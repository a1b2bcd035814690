package pattern

import "fmt"

// Key identifies a pattern within one Store. Keys increase monotonically and
// are never reused within a session.
type Key int64

// Pattern is one learned reference template with its bookkeeping.
type Pattern struct {
	Template     []float64
	Confidence   float64 // reliability in [0, 1]
	Observations int     // windows that have contributed
	Staleness    int     // store mutations since this pattern was touched
}

// Stats summarizes a store for display purposes.
type Stats struct {
	TotalPatterns     int
	AverageConfidence float64
	TotalObservations int
}

type entry struct {
	key Key
	pat Pattern
}

// Store is a capacity-bounded arena of learned patterns. It is not safe for
// concurrent use; callers sharing a store must serialize access.
type Store struct {
	capacity int
	nextKey  Key
	entries  []entry // ascending key order
}

// NewStore creates an empty store holding at most capacity patterns.
func NewStore(capacity int) (*Store, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return &Store{capacity: capacity}, nil
}

// Len returns the number of stored patterns.
func (s *Store) Len() int {
	return len(s.entries)
}

// Capacity returns the maximum number of patterns the store holds.
func (s *Store) Capacity() int {
	return s.capacity
}

// SetCapacity changes the capacity bound, evicting lowest-confidence patterns
// until the store fits.
func (s *Store) SetCapacity(capacity int) error {
	if capacity < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	s.capacity = capacity
	for len(s.entries) > s.capacity {
		s.evictWeakest()
	}

	return nil
}

// Keys returns all pattern keys in ascending order.
func (s *Store) Keys() []Key {
	keys := make([]Key, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.key
	}
	return keys
}

// Get returns a copy of the pattern for key. The template is copied so the
// caller cannot mutate store state.
func (s *Store) Get(key Key) (Pattern, bool) {
	i := s.index(key)
	if i < 0 {
		return Pattern{}, false
	}

	p := s.entries[i].pat
	p.Template = append([]float64(nil), p.Template...)

	return p, true
}

// Insert learns a new pattern from template with the given initial confidence
// and returns its key. The template is copied. If the store is at capacity,
// the lowest-confidence pattern (ties: lowest key) is evicted first. All
// other patterns age by one.
func (s *Store) Insert(template []float64, confidence float64) (Key, error) {
	if len(template) == 0 {
		return 0, ErrEmptyTemplate
	}

	if len(s.entries) >= s.capacity {
		s.evictWeakest()
	}

	s.age()

	key := s.nextKey
	s.nextKey++
	s.entries = append(s.entries, entry{
		key: key,
		pat: Pattern{
			Template:     append([]float64(nil), template...),
			Confidence:   clampUnit(confidence),
			Observations: 1,
		},
	})

	return key, nil
}

// Update refines the pattern for key with a fresh observation using an
// exponential blend: template = (1-lr)*template + lr*observation. Confidence
// rises by 0.1 (clamped to 1), the observation count increments, and the
// pattern's staleness resets while all others age by one.
func (s *Store) Update(key Key, observation []float64, learningRate float64) error {
	if err := validateLearningRate(learningRate); err != nil {
		return err
	}

	i := s.index(key)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrUnknownKey, key)
	}

	p := &s.entries[i].pat
	if len(observation) != len(p.Template) {
		return fmt.Errorf("%w: observation %d, template %d",
			ErrLengthMismatch, len(observation), len(p.Template))
	}

	s.age()

	for j := range p.Template {
		p.Template[j] = (1-learningRate)*p.Template[j] + learningRate*observation[j]
	}
	p.Confidence = clampUnit(p.Confidence + 0.1)
	p.Observations++
	p.Staleness = 0

	return nil
}

// Remove deletes the pattern for key.
func (s *Store) Remove(key Key) error {
	i := s.index(key)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrUnknownKey, key)
	}

	s.entries = append(s.entries[:i], s.entries[i+1:]...)

	return nil
}

// Stats returns display statistics over all stored patterns.
func (s *Store) Stats() Stats {
	if len(s.entries) == 0 {
		return Stats{}
	}

	var confidenceSum float64
	var observations int
	for _, e := range s.entries {
		confidenceSum += e.pat.Confidence
		observations += e.pat.Observations
	}

	return Stats{
		TotalPatterns:     len(s.entries),
		AverageConfidence: confidenceSum / float64(len(s.entries)),
		TotalObservations: observations,
	}
}

// evictWeakest removes the lowest-confidence pattern. Entries are kept in
// ascending key order, so scanning with strict less-than breaks confidence
// ties toward the lowest key.
func (s *Store) evictWeakest() {
	if len(s.entries) == 0 {
		return
	}

	weakest := 0
	for i := 1; i < len(s.entries); i++ {
		if s.entries[i].pat.Confidence < s.entries[weakest].pat.Confidence {
			weakest = i
		}
	}

	s.entries = append(s.entries[:weakest], s.entries[weakest+1:]...)
}

// age increments the staleness counter of every pattern. The caller resets
// the counter of the pattern it touches.
func (s *Store) age() {
	for i := range s.entries {
		s.entries[i].pat.Staleness++
	}
}

func (s *Store) index(key Key) int {
	for i, e := range s.entries {
		if e.key == key {
			return i
		}
	}
	return -1
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
