package adaptive

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-denoise/dsp/frame"
)

var (
	// ErrEmptySignal is returned when the input signal has no samples.
	ErrEmptySignal = errors.New("adaptive: signal must not be empty")

	// ErrNonFiniteSignal is returned when the input contains NaN or Inf.
	ErrNonFiniteSignal = errors.New("adaptive: signal must be finite")

	// ErrInvalidThreshold is returned when the correlation threshold is
	// outside [0, 1].
	ErrInvalidThreshold = errors.New("adaptive: correlation threshold must be in [0, 1]")

	// ErrInvalidLearningRate is returned when the learning rate is outside (0, 1].
	ErrInvalidLearningRate = errors.New("adaptive: learning rate must be in (0, 1]")

	// ErrInvalidMaxPatterns is returned when the pattern capacity is not positive.
	ErrInvalidMaxPatterns = errors.New("adaptive: max patterns must be >= 1")
)

// Config holds the adaptive filter parameters. A Config is validated once at
// filter construction and treated as immutable during a Filter call.
type Config struct {
	WindowSize           int
	Overlap              float64
	LearningRate         float64
	CorrelationThreshold float64
	MaxPatterns          int
}

// DefaultConfig returns the parameter defaults for typical recordings.
func DefaultConfig() Config {
	return Config{
		WindowSize:           1000,
		Overlap:              0.5,
		LearningRate:         0.1,
		CorrelationThreshold: 0.7,
		MaxPatterns:          50,
	}
}

// Validate checks all parameters and returns the first violation.
func (c Config) Validate() error {
	if c.WindowSize < 1 {
		return fmt.Errorf("%w: %d", frame.ErrInvalidWindowSize, c.WindowSize)
	}
	if c.Overlap < 0 || c.Overlap >= 1 {
		return fmt.Errorf("%w: %f", frame.ErrInvalidOverlap, c.Overlap)
	}
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return fmt.Errorf("%w: %f", ErrInvalidLearningRate, c.LearningRate)
	}
	if c.CorrelationThreshold < 0 || c.CorrelationThreshold > 1 {
		return fmt.Errorf("%w: %f", ErrInvalidThreshold, c.CorrelationThreshold)
	}
	if c.MaxPatterns < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxPatterns, c.MaxPatterns)
	}
	return nil
}

// Option mutates a Config.
type Option func(*Config)

// WithWindowSize sets the pattern window length in samples.
func WithWindowSize(n int) Option {
	return func(c *Config) { c.WindowSize = n }
}

// WithOverlap sets the window overlap fraction in [0, 1).
func WithOverlap(v float64) Option {
	return func(c *Config) { c.Overlap = v }
}

// WithLearningRate sets the exponential blend factor for pattern refinement.
func WithLearningRate(v float64) Option {
	return func(c *Config) { c.LearningRate = v }
}

// WithCorrelationThreshold sets the minimum Pearson correlation for a match.
func WithCorrelationThreshold(v float64) Option {
	return func(c *Config) { c.CorrelationThreshold = v }
}

// WithMaxPatterns sets the pattern store capacity.
func WithMaxPatterns(n int) Option {
	return func(c *Config) { c.MaxPatterns = n }
}

func applyOptions(opts []Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
