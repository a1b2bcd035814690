package pattern

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// persistedPattern is the on-disk form of one pattern. New fields must be
// added with defaults that older files can omit.
type persistedPattern struct {
	Template     []float64 `json:"template"`
	Confidence   float64   `json:"confidence"`
	Observations int       `json:"observations"`
	Staleness    int       `json:"staleness"`
}

// Encode writes the store as a flat JSON mapping from key to pattern fields.
func Encode(w io.Writer, s *Store) error {
	out := make(map[string]persistedPattern, len(s.entries))
	for _, e := range s.entries {
		out[strconv.FormatInt(int64(e.key), 10)] = persistedPattern{
			Template:     e.pat.Template,
			Confidence:   e.pat.Confidence,
			Observations: e.pat.Observations,
			Staleness:    e.pat.Staleness,
		}
	}

	if err := json.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("pattern: encode: %w", err)
	}

	return nil
}

// Decode reads a flat JSON pattern mapping into a new store with the given
// capacity. Unknown JSON fields are ignored and absent fields default to
// zero, so files written by older and newer versions both load. If the file
// holds more patterns than capacity, the lowest-confidence entries are
// dropped.
func Decode(r io.Reader, capacity int) (*Store, error) {
	s, err := NewStore(capacity)
	if err != nil {
		return nil, err
	}

	var raw map[string]persistedPattern
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("pattern: decode: %w", err)
	}

	keys := make([]Key, 0, len(raw))
	for k := range raw {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("pattern: decode key %q: %w", k, err)
		}
		keys = append(keys, Key(id))
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, key := range keys {
		p := raw[strconv.FormatInt(int64(key), 10)]
		if len(p.Template) == 0 {
			continue
		}

		s.entries = append(s.entries, entry{
			key: key,
			pat: Pattern{
				Template:     p.Template,
				Confidence:   clampUnit(p.Confidence),
				Observations: p.Observations,
				Staleness:    p.Staleness,
			},
		})
		if key >= s.nextKey {
			s.nextKey = key + 1
		}
	}

	for len(s.entries) > s.capacity {
		s.evictWeakest()
	}

	return s, nil
}

// FileStore persists a pattern store at a fixed filesystem path. It is the
// persistence dependency the adaptive filter accepts; the core algorithm
// never touches the filesystem itself.
type FileStore struct {
	Path string
}

// Load reads the pattern file. A missing file is not an error: filtering
// simply starts with an empty store.
func (f FileStore) Load(capacity int) (*Store, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewStore(capacity)
		}
		return nil, fmt.Errorf("pattern: open %s: %w", f.Path, err)
	}
	defer file.Close()

	return Decode(file, capacity)
}

// Save writes the store to the pattern file, creating parent directories as
// needed.
func (f FileStore) Save(s *Store) error {
	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("pattern: create %s: %w", dir, err)
		}
	}

	file, err := os.Create(f.Path)
	if err != nil {
		return fmt.Errorf("pattern: create %s: %w", f.Path, err)
	}

	if err := Encode(file, s); err != nil {
		file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("pattern: close %s: %w", f.Path, err)
	}

	return nil
}
