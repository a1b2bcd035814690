package denoise

// DefaultRegistry returns a Registry pre-populated with all built-in filters.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister("adaptive", newAdaptiveRuntime)
	r.MustRegister("savgol", newSGolayRuntime)
	r.MustRegister("fft", newFFTRuntime)
	r.MustRegister("butterworth", newButterRuntime)
	r.MustRegister("median", newMedianRuntime)
	r.MustRegister("kalman", newKalmanRuntime)

	return r
}

// Chain applies the given filters in order, feeding each output into the
// next stage.
func Chain(signal []float64, filters ...Filter) ([]float64, error) {
	out := signal
	for _, f := range filters {
		next, err := f.Filter(out)
		if err != nil {
			return nil, err
		}
		out = next
	}

	return out, nil
}
