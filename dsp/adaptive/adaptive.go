package adaptive

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-denoise/dsp/frame"
	"github.com/cwbudde/algo-denoise/dsp/pattern"
)

// Persister loads and saves a pattern store. pattern.FileStore is the
// file-backed implementation; tests inject in-memory fakes.
type Persister interface {
	Load(capacity int) (*pattern.Store, error)
	Save(*pattern.Store) error
}

// Filter is the adaptive pattern denoiser. It owns a pattern store that is
// mutated by every Filter call. Not safe for concurrent use.
type Filter struct {
	cfg     Config
	store   *pattern.Store
	persist Persister

	loadErr error
	saveErr error
}

// New creates a Filter using the given pattern store, or a fresh empty store
// when store is nil.
func New(store *pattern.Store, opts ...Option) (*Filter, error) {
	cfg := applyOptions(opts)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if store == nil {
		var err error
		store, err = pattern.NewStore(cfg.MaxPatterns)
		if err != nil {
			return nil, err
		}
	} else if err := store.SetCapacity(cfg.MaxPatterns); err != nil {
		return nil, err
	}

	return &Filter{cfg: cfg, store: store}, nil
}

// NewPersistent creates a Filter whose pattern store is loaded from p and
// saved back after every Filter call. A failed load is not fatal: the filter
// starts with an empty store and LoadErr reports what happened.
func NewPersistent(p Persister, opts ...Option) (*Filter, error) {
	cfg := applyOptions(opts)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, loadErr := p.Load(cfg.MaxPatterns)
	if loadErr != nil {
		var err error
		store, err = pattern.NewStore(cfg.MaxPatterns)
		if err != nil {
			return nil, err
		}
	}

	return &Filter{cfg: cfg, store: store, persist: p, loadErr: loadErr}, nil
}

// Config returns the filter configuration.
func (f *Filter) Config() Config {
	return f.cfg
}

// SetConfig replaces the configuration after validating it. Changing
// MaxPatterns re-caps the store, evicting lowest-confidence patterns if it
// shrinks.
func (f *Filter) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := f.store.SetCapacity(cfg.MaxPatterns); err != nil {
		return err
	}

	f.cfg = cfg

	return nil
}

// Store exposes the underlying pattern store for inspection and explicit
// refinement. Mutating it concurrently with Filter is not supported.
func (f *Filter) Store() *pattern.Store {
	return f.store
}

// Stats returns display statistics over the learned patterns.
func (f *Filter) Stats() pattern.Stats {
	return f.store.Stats()
}

// LoadErr reports the persistence failure from construction, if any.
func (f *Filter) LoadErr() error {
	return f.loadErr
}

// PersistErr reports the save failure from the most recent Filter call, if
// any. Save failures never fail the call itself: filtering degrades to
// in-memory learning rather than blocking on storage.
func (f *Filter) PersistErr() error {
	return f.saveErr
}

// Persist saves the pattern store immediately. Useful after explicit
// refinement through Store(); a no-op without a configured persister.
func (f *Filter) Persist() error {
	if f.persist == nil {
		return nil
	}

	f.saveErr = f.persist.Save(f.store)

	return f.saveErr
}

// Filter denoises signal and returns an output of identical length.
//
// Each extracted window is either reconstructed from matching stored
// patterns or, when nothing matches, learned as a new pattern and passed
// through unchanged. Matched patterns are not self-reinforced; refinement
// happens only through explicit Store().Update calls. A signal shorter than
// one window is returned unchanged.
func (f *Filter) Filter(signal []float64) ([]float64, error) {
	if err := validateSignal(signal); err != nil {
		return nil, err
	}

	if len(signal) < f.cfg.WindowSize {
		return append([]float64(nil), signal...), nil
	}

	windows, err := frame.Extract(signal, f.cfg.WindowSize, f.cfg.Overlap)
	if err != nil {
		return nil, err
	}

	asm := frame.NewAssembler(len(signal))
	scratch := make([]float64, f.cfg.WindowSize)
	blend := make([]float64, f.cfg.WindowSize)

	for _, w := range windows {
		matches := f.store.FindMatches(w.Data, f.cfg.CorrelationThreshold)

		out := w.Data
		if len(matches) > 0 {
			out = reconstruct(blend, scratch, w.Data, matches)
		} else if _, err := f.store.Insert(w.Data, newPatternConfidence); err != nil {
			return nil, fmt.Errorf("adaptive: learn window at %d: %w", w.Offset, err)
		}

		if err := asm.Add(w.Offset, out); err != nil {
			return nil, err
		}
	}

	output, err := asm.Output(signal)
	if err != nil {
		return nil, err
	}

	if f.persist != nil {
		f.saveErr = f.persist.Save(f.store)
	}

	return output, nil
}

// newPatternConfidence is the initial confidence of a freshly learned pattern.
const newPatternConfidence = 0.5

// reconstruct blends the matched templates weighted by correlation times
// confidence. When every weight degenerates to zero the raw window wins.
// The result is written into dst; scratch must have the window length.
func reconstruct(dst, scratch, window []float64, matches []pattern.Match) []float64 {
	for i := range dst {
		dst[i] = 0
	}

	var totalWeight float64
	for _, m := range matches {
		weight := m.Correlation * m.Confidence
		if weight == 0 {
			continue
		}

		vecmath.ScaleBlock(scratch, m.Template, weight)
		vecmath.AddBlockInPlace(dst, scratch)
		totalWeight += weight
	}

	if totalWeight <= 0 {
		return window
	}

	for i := range dst {
		dst[i] /= totalWeight
	}

	return dst
}

func validateSignal(signal []float64) error {
	if len(signal) == 0 {
		return ErrEmptySignal
	}
	for i, v := range signal {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: sample %d is %v", ErrNonFiniteSignal, i, v)
		}
	}
	return nil
}
