// Package fftdenoise removes noise by zeroing low-magnitude frequency
// components: the signal is transformed, every bin whose magnitude falls
// below a threshold is discarded, and the remainder is transformed back.
package fftdenoise

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Mode selects how the threshold is interpreted.
type Mode int

const (
	// ModeRelative scales the threshold by the peak spectral magnitude.
	ModeRelative Mode = iota
	// ModeAbsolute applies the threshold to magnitudes directly.
	ModeAbsolute
)

var (
	// ErrEmptySignal is returned for an empty input.
	ErrEmptySignal = errors.New("fftdenoise: signal must not be empty")

	// ErrInvalidThreshold is returned for a negative threshold.
	ErrInvalidThreshold = errors.New("fftdenoise: threshold must be >= 0")

	// ErrInvalidMode is returned for an unknown threshold mode.
	ErrInvalidMode = errors.New("fftdenoise: unknown mode")
)

// Denoise applies spectral magnitude thresholding and returns a signal of
// identical length. The transform runs at the next power-of-two size; the
// zero-padded tail is discarded after the inverse transform.
func Denoise(signal []float64, threshold float64, mode Mode) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptySignal
	}
	if threshold < 0 {
		return nil, fmt.Errorf("%w: %f", ErrInvalidThreshold, threshold)
	}
	if mode != ModeRelative && mode != ModeAbsolute {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, mode)
	}

	fftSize := nextPowerOf2(len(signal))

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("fftdenoise: create FFT plan: %w", err)
	}

	spectrum := make([]complex128, fftSize)
	for i, v := range signal {
		spectrum[i] = complex(v, 0)
	}

	if err := plan.Forward(spectrum, spectrum); err != nil {
		return nil, fmt.Errorf("fftdenoise: forward FFT: %w", err)
	}

	magnitudes := spectrumMagnitudes(spectrum)

	cut := threshold
	if mode == ModeRelative {
		peak := 0.0
		for _, m := range magnitudes {
			if m > peak {
				peak = m
			}
		}
		cut = threshold * peak
	}

	for i, m := range magnitudes {
		if m < cut {
			spectrum[i] = 0
		}
	}

	if err := plan.Inverse(spectrum, spectrum); err != nil {
		return nil, fmt.Errorf("fftdenoise: inverse FFT: %w", err)
	}

	out := make([]float64, len(signal))
	for i := range out {
		out[i] = real(spectrum[i])
	}

	return out, nil
}

func spectrumMagnitudes(spectrum []complex128) []float64 {
	re := make([]float64, len(spectrum))
	im := make([]float64, len(spectrum))
	for i, c := range spectrum {
		re[i] = real(c)
		im[i] = imag(c)
	}

	out := make([]float64, len(spectrum))
	vecmath.Magnitude(out, re, im)

	return out
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
