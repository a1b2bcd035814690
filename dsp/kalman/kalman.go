// Package kalman implements a scalar Kalman filter for smoothing noisy
// measurements of a slowly varying level, such as the baseline current of a
// recording.
package kalman

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidVariance is returned when a noise variance is not positive.
	ErrInvalidVariance = errors.New("kalman: variance must be > 0")

	// ErrEmptySignal is returned for an empty input.
	ErrEmptySignal = errors.New("kalman: signal must not be empty")
)

// Filter is a one-dimensional Kalman filter with a constant-level process
// model. The zero value is not usable; construct with New.
type Filter struct {
	processVar     float64
	measurementVar float64

	estimate    float64
	errEstimate float64
	primed      bool
}

// New returns a Filter with the given process and measurement noise
// variances and an initial state estimate. The first processed sample
// replaces the initial estimate outright.
func New(processVar, measurementVar, initialEstimate float64) (*Filter, error) {
	if processVar <= 0 {
		return nil, fmt.Errorf("%w: process variance %g", ErrInvalidVariance, processVar)
	}
	if measurementVar <= 0 {
		return nil, fmt.Errorf("%w: measurement variance %g", ErrInvalidVariance, measurementVar)
	}

	return &Filter{
		processVar:     processVar,
		measurementVar: measurementVar,
		estimate:       initialEstimate,
		errEstimate:    1.0,
	}, nil
}

// ProcessSample advances the filter by one measurement and returns the
// updated estimate.
func (f *Filter) ProcessSample(measurement float64) float64 {
	if !f.primed {
		f.estimate = measurement
		f.primed = true
		return f.estimate
	}

	predicted := f.errEstimate + f.processVar
	gain := predicted / (predicted + f.measurementVar)

	f.estimate += gain * (measurement - f.estimate)
	f.errEstimate = (1 - gain) * predicted

	return f.estimate
}

// ProcessBlock filters a block of samples, returning the smoothed copy.
func (f *Filter) ProcessBlock(signal []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptySignal
	}

	out := make([]float64, len(signal))
	for i, x := range signal {
		out[i] = f.ProcessSample(x)
	}

	return out, nil
}

// Reset restores the filter to its post-construction state with the given
// initial estimate.
func (f *Filter) Reset(initialEstimate float64) {
	f.estimate = initialEstimate
	f.errEstimate = 1.0
	f.primed = false
}

// Smooth is a convenience wrapper that constructs a Filter, seeds it with
// the first sample, and runs it over the whole signal.
func Smooth(signal []float64, processVar, measurementVar float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptySignal
	}

	f, err := New(processVar, measurementVar, signal[0])
	if err != nil {
		return nil, err
	}

	return f.ProcessBlock(signal)
}
