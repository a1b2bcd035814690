package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// SinePattern generates one period of a sine wave of the given length,
// suitable as a repeating base pattern for denoiser tests.
func SinePattern(length int, amplitude float64) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*float64(i)/float64(length))
	}
	return out
}

// TiledPattern repeats base end-to-end count times.
func TiledPattern(base []float64, count int) []float64 {
	out := make([]float64, 0, len(base)*count)
	for i := 0; i < count; i++ {
		out = append(out, base...)
	}
	return out
}

// NoisyTiledPattern tiles base count times and adds seeded white noise.
func NoisyTiledPattern(base []float64, count int, seed int64, noiseAmplitude float64) []float64 {
	out := TiledPattern(base, count)
	noise := DeterministicNoise(seed, noiseAmplitude, len(out))
	for i := range out {
		out[i] += noise[i]
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ramp generates a linear ramp starting at 0 with the given slope.
func Ramp(slope float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = slope * float64(i)
	}
	return out
}
