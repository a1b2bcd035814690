// Package butter designs Butterworth low- and high-pass filters as cascades
// of second-order sections and applies them with zero phase distortion by
// filtering forward and backward.
package butter

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidOrder is returned when the filter order is not positive.
	ErrInvalidOrder = errors.New("butter: order must be >= 1")

	// ErrInvalidCutoff is returned when the cutoff is outside (0, sampleRate/2).
	ErrInvalidCutoff = errors.New("butter: cutoff must be in (0, sampleRate/2)")

	// ErrEmptySignal is returned for an empty input.
	ErrEmptySignal = errors.New("butter: signal must not be empty")
)

// Coefficients holds one second-order section with a0 normalized to 1.
//
// Direct Form II Transposed sign convention:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Section is one biquad with its filter state.
type Section struct {
	Coefficients

	d0, d1 float64
}

// NewSection returns a Section with zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one sample (Direct Form II Transposed).
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters a block of samples in-place.
func (s *Section) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = s.ProcessSample(x)
	}
}

// Reset clears the filter state.
func (s *Section) Reset() {
	s.d0, s.d1 = 0, 0
}

// Lowpass designs a lowpass Butterworth cascade. For odd orders, the final
// section is first-order (B2 = A2 = 0).
func Lowpass(cutoff float64, order int, sampleRate float64) ([]Coefficients, error) {
	if err := validate(cutoff, order, sampleRate); err != nil {
		return nil, err
	}

	sections := make([]Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, lowpassRBJ(cutoff, sectionQ(order, i), sampleRate))
	}
	if order%2 != 0 {
		sections = append(sections, firstOrderLP(cutoff, sampleRate))
	}

	return sections, nil
}

// Highpass designs a highpass Butterworth cascade. For odd orders, the final
// section is first-order (B2 = A2 = 0).
func Highpass(cutoff float64, order int, sampleRate float64) ([]Coefficients, error) {
	if err := validate(cutoff, order, sampleRate); err != nil {
		return nil, err
	}

	sections := make([]Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, highpassRBJ(cutoff, sectionQ(order, i), sampleRate))
	}
	if order%2 != 0 {
		sections = append(sections, firstOrderHP(cutoff, sampleRate))
	}

	return sections, nil
}

// Filter runs the cascade over signal in a single forward pass.
func Filter(signal []float64, sections []Coefficients) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptySignal
	}

	out := append([]float64(nil), signal...)
	for _, c := range sections {
		NewSection(c).ProcessBlock(out)
	}

	return out, nil
}

// FiltFilt runs the cascade forward and then backward, cancelling the phase
// response. The effective magnitude response is the square of the cascade's.
func FiltFilt(signal []float64, sections []Coefficients) ([]float64, error) {
	out, err := Filter(signal, sections)
	if err != nil {
		return nil, err
	}

	reverse(out)
	for _, c := range sections {
		NewSection(c).ProcessBlock(out)
	}
	reverse(out)

	return out, nil
}

func validate(cutoff float64, order int, sampleRate float64) error {
	if order < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidOrder, order)
	}
	if sampleRate <= 0 || cutoff <= 0 || cutoff >= sampleRate/2 {
		return fmt.Errorf("%w: cutoff %f at %f Hz", ErrInvalidCutoff, cutoff, sampleRate)
	}
	return nil
}

// sectionQ returns the quality factor of the i-th second-order section in a
// Butterworth cascade of the given order.
func sectionQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return 1 / math.Sqrt2
	}

	return 1 / (2 * s)
}

func lowpassRBJ(freq, q, sampleRate float64) Coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	a0 := 1 + alpha
	b1 := (1 - cosW0) / a0

	return Coefficients{
		B0: b1 / 2,
		B1: b1,
		B2: b1 / 2,
		A1: -2 * cosW0 / a0,
		A2: (1 - alpha) / a0,
	}
}

func highpassRBJ(freq, q, sampleRate float64) Coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	a0 := 1 + alpha
	b1 := -(1 + cosW0) / a0

	return Coefficients{
		B0: -b1 / 2,
		B1: b1,
		B2: -b1 / 2,
		A1: -2 * cosW0 / a0,
		A2: (1 - alpha) / a0,
	}
}

func firstOrderLP(freq, sampleRate float64) Coefficients {
	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)

	return Coefficients{
		B0: k * norm,
		B1: k * norm,
		A1: (k - 1) * norm,
	}
}

func firstOrderHP(freq, sampleRate float64) Coefficients {
	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)

	return Coefficients{
		B0: norm,
		B1: -norm,
		A1: (k - 1) * norm,
	}
}

func reverse(buf []float64) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}
