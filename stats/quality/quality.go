// Package quality computes summary metrics used to judge a recording before
// and after denoising.
package quality

import (
	"errors"
	"math"
)

// ErrEmptySignal is returned for an empty input.
var ErrEmptySignal = errors.New("quality: signal must not be empty")

// Metrics summarizes one signal.
type Metrics struct {
	Mean       float64
	Std        float64
	RMS        float64
	PeakToPeak float64

	// SNR estimates signal-to-noise ratio in dB from the sample-to-sample
	// differences. +Inf for a constant signal, 0 when fewer than two samples.
	SNR float64
}

// Calculate computes the metrics of signal.
func Calculate(signal []float64) (Metrics, error) {
	if len(signal) == 0 {
		return Metrics{}, ErrEmptySignal
	}

	var sum, sumSq float64
	minV, maxV := signal[0], signal[0]
	for _, v := range signal {
		sum += v
		sumSq += v * v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	n := float64(len(signal))
	mean := sum / n
	meanSq := sumSq / n

	variance := meanSq - mean*mean
	if variance < 0 {
		variance = 0
	}

	return Metrics{
		Mean:       mean,
		Std:        math.Sqrt(variance),
		RMS:        math.Sqrt(meanSq),
		PeakToPeak: maxV - minV,
		SNR:        snr(signal, meanSq),
	}, nil
}

// snr estimates SNR by treating first differences as noise samples. The
// difference of two independent noise samples doubles the noise power, hence
// the halving.
func snr(signal []float64, signalPower float64) float64 {
	if len(signal) < 2 {
		return 0
	}

	var diffSq float64
	for i := 1; i < len(signal); i++ {
		d := signal[i] - signal[i-1]
		diffSq += d * d
	}

	noisePower := diffSq / float64(len(signal)-1) / 2
	if noisePower == 0 {
		return math.Inf(1)
	}

	return 10 * math.Log10(signalPower/noisePower)
}
