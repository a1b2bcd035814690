package frame

// Window is a fixed-length view into a signal at a known sample offset.
// Data aliases the source signal; it is not a copy.
type Window struct {
	Offset int
	Data   []float64
}

// Step returns the hop size between consecutive window offsets:
// floor(windowSize * (1 - overlap)), clamped to at least 1.
func Step(windowSize int, overlap float64) int {
	step := int(float64(windowSize) * (1 - overlap))
	if step < 1 {
		step = 1
	}
	return step
}

// Count returns the number of windows Extract would produce for the given
// signal length, without materializing them.
func Count(signalLen, windowSize int, overlap float64) int {
	if windowSize < 1 || signalLen < windowSize {
		return 0
	}
	step := Step(windowSize, overlap)
	return (signalLen-windowSize)/step + 1
}

// Extract returns all windows of length windowSize from signal at offsets
// 0, step, 2*step, ... while the full window fits. A signal shorter than one
// window yields an empty result; the caller decides how to handle it.
//
// The returned windows are ordered by ascending offset.
func Extract(signal []float64, windowSize int, overlap float64) ([]Window, error) {
	if err := validateParams(windowSize, overlap); err != nil {
		return nil, err
	}

	if len(signal) < windowSize {
		return nil, nil
	}

	step := Step(windowSize, overlap)

	windows := make([]Window, 0, Count(len(signal), windowSize, overlap))
	for offset := 0; offset+windowSize <= len(signal); offset += step {
		windows = append(windows, Window{
			Offset: offset,
			Data:   signal[offset : offset+windowSize],
		})
	}

	return windows, nil
}
