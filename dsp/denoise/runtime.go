package denoise

import (
	"fmt"

	"github.com/cwbudde/algo-denoise/dsp/adaptive"
	"github.com/cwbudde/algo-denoise/dsp/butter"
	"github.com/cwbudde/algo-denoise/dsp/fftdenoise"
	"github.com/cwbudde/algo-denoise/dsp/kalman"
	"github.com/cwbudde/algo-denoise/dsp/median"
	"github.com/cwbudde/algo-denoise/dsp/pattern"
	"github.com/cwbudde/algo-denoise/dsp/sgolay"
)

// PatternFilter is implemented by filters that expose learned pattern state,
// letting callers inspect stats or refine patterns explicitly.
type PatternFilter interface {
	Filter

	Adaptive() *adaptive.Filter
}

// adaptiveRuntime wraps the pattern-learning filter. The underlying pattern
// store survives reconfiguration, so learned templates carry across runs.
type adaptiveRuntime struct {
	fx *adaptive.Filter
}

func newAdaptiveRuntime(p Params) (Filter, error) {
	cfg := adaptive.DefaultConfig()

	opts := []adaptive.Option{
		adaptive.WithWindowSize(int(p.GetNum("window_size", float64(cfg.WindowSize)))),
		adaptive.WithOverlap(p.GetNum("overlap", cfg.Overlap)),
		adaptive.WithLearningRate(p.GetNum("learning_rate", cfg.LearningRate)),
		adaptive.WithCorrelationThreshold(p.GetNum("correlation_threshold", cfg.CorrelationThreshold)),
		adaptive.WithMaxPatterns(int(p.GetNum("max_patterns", float64(cfg.MaxPatterns)))),
	}

	var (
		fx  *adaptive.Filter
		err error
	)
	if path := p.GetStr("pattern_file", ""); path != "" {
		fx, err = adaptive.NewPersistent(pattern.FileStore{Path: path}, opts...)
	} else {
		fx, err = adaptive.New(nil, opts...)
	}
	if err != nil {
		return nil, err
	}

	return &adaptiveRuntime{fx: fx}, nil
}

func (r *adaptiveRuntime) Name() string { return "adaptive" }

// Adaptive exposes the underlying pattern-learning filter.
func (r *adaptiveRuntime) Adaptive() *adaptive.Filter { return r.fx }

func (r *adaptiveRuntime) Filter(signal []float64) ([]float64, error) {
	return r.fx.Filter(signal)
}

func (r *adaptiveRuntime) Parameters() Params {
	cfg := r.fx.Config()

	var p Params
	p.SetNum("window_size", float64(cfg.WindowSize))
	p.SetNum("overlap", cfg.Overlap)
	p.SetNum("learning_rate", cfg.LearningRate)
	p.SetNum("correlation_threshold", cfg.CorrelationThreshold)
	p.SetNum("max_patterns", float64(cfg.MaxPatterns))

	return p
}

func (r *adaptiveRuntime) SetParameters(p Params) error {
	cfg := r.fx.Config()
	cfg.WindowSize = int(p.GetNum("window_size", float64(cfg.WindowSize)))
	cfg.Overlap = p.GetNum("overlap", cfg.Overlap)
	cfg.LearningRate = p.GetNum("learning_rate", cfg.LearningRate)
	cfg.CorrelationThreshold = p.GetNum("correlation_threshold", cfg.CorrelationThreshold)
	cfg.MaxPatterns = int(p.GetNum("max_patterns", float64(cfg.MaxPatterns)))

	return r.fx.SetConfig(cfg)
}

type sgolayRuntime struct {
	windowLength int
	polyOrder    int
}

func newSGolayRuntime(p Params) (Filter, error) {
	r := &sgolayRuntime{windowLength: 51, polyOrder: 3}

	err := r.SetParameters(p)
	if err != nil {
		return nil, err
	}

	return r, nil
}

func (r *sgolayRuntime) Name() string { return "savgol" }

func (r *sgolayRuntime) Filter(signal []float64) ([]float64, error) {
	return sgolay.Smooth(signal, r.windowLength, r.polyOrder)
}

func (r *sgolayRuntime) Parameters() Params {
	var p Params
	p.SetNum("window_length", float64(r.windowLength))
	p.SetNum("poly_order", float64(r.polyOrder))

	return p
}

func (r *sgolayRuntime) SetParameters(p Params) error {
	windowLength := int(p.GetNum("window_length", float64(r.windowLength)))
	polyOrder := int(p.GetNum("poly_order", float64(r.polyOrder)))

	if windowLength < 1 {
		return fmt.Errorf("%w: %d", sgolay.ErrInvalidWindowLength, windowLength)
	}
	if polyOrder < 0 || polyOrder >= windowLength {
		return fmt.Errorf("%w: %d", sgolay.ErrInvalidPolyOrder, polyOrder)
	}

	r.windowLength = windowLength
	r.polyOrder = polyOrder

	return nil
}

type fftRuntime struct {
	threshold float64
	mode      fftdenoise.Mode
}

func newFFTRuntime(p Params) (Filter, error) {
	r := &fftRuntime{threshold: 0.1, mode: fftdenoise.ModeRelative}

	err := r.SetParameters(p)
	if err != nil {
		return nil, err
	}

	return r, nil
}

func (r *fftRuntime) Name() string { return "fft" }

func (r *fftRuntime) Filter(signal []float64) ([]float64, error) {
	return fftdenoise.Denoise(signal, r.threshold, r.mode)
}

func (r *fftRuntime) Parameters() Params {
	var p Params
	p.SetNum("threshold", r.threshold)
	p.SetStr("mode", modeName(r.mode))

	return p
}

func (r *fftRuntime) SetParameters(p Params) error {
	threshold := p.GetNum("threshold", r.threshold)
	if threshold < 0 {
		return fmt.Errorf("%w: %f", fftdenoise.ErrInvalidThreshold, threshold)
	}

	var mode fftdenoise.Mode
	switch name := p.GetStr("mode", modeName(r.mode)); name {
	case "relative":
		mode = fftdenoise.ModeRelative
	case "absolute":
		mode = fftdenoise.ModeAbsolute
	default:
		return fmt.Errorf("%w: %q", fftdenoise.ErrInvalidMode, name)
	}

	r.threshold = threshold
	r.mode = mode

	return nil
}

func modeName(m fftdenoise.Mode) string {
	if m == fftdenoise.ModeAbsolute {
		return "absolute"
	}

	return "relative"
}

type butterRuntime struct {
	cutoff     float64 // fraction of Nyquist
	order      int
	sampleRate float64
	highpass   bool
}

func newButterRuntime(p Params) (Filter, error) {
	r := &butterRuntime{cutoff: 0.1, order: 5, sampleRate: 1000}

	err := r.SetParameters(p)
	if err != nil {
		return nil, err
	}

	return r, nil
}

func (r *butterRuntime) Name() string { return "butterworth" }

func (r *butterRuntime) sections() ([]butter.Coefficients, error) {
	cutoffHz := r.cutoff * r.sampleRate / 2
	if r.highpass {
		return butter.Highpass(cutoffHz, r.order, r.sampleRate)
	}

	return butter.Lowpass(cutoffHz, r.order, r.sampleRate)
}

func (r *butterRuntime) Filter(signal []float64) ([]float64, error) {
	sections, err := r.sections()
	if err != nil {
		return nil, err
	}

	return butter.FiltFilt(signal, sections)
}

func (r *butterRuntime) Parameters() Params {
	var p Params
	p.SetNum("cutoff", r.cutoff)
	p.SetNum("order", float64(r.order))
	p.SetNum("sample_rate", r.sampleRate)
	if r.highpass {
		p.SetStr("btype", "highpass")
	} else {
		p.SetStr("btype", "lowpass")
	}

	return p
}

func (r *butterRuntime) SetParameters(p Params) error {
	next := *r
	next.cutoff = p.GetNum("cutoff", r.cutoff)
	next.order = int(p.GetNum("order", float64(r.order)))
	next.sampleRate = p.GetNum("sample_rate", r.sampleRate)

	btype := "lowpass"
	if r.highpass {
		btype = "highpass"
	}
	switch p.GetStr("btype", btype) {
	case "lowpass":
		next.highpass = false
	case "highpass":
		next.highpass = true
	default:
		return fmt.Errorf("denoise: btype must be lowpass or highpass, got %q", p.GetStr("btype", btype))
	}

	// Reject bad settings up front rather than on the first Filter call.
	if _, err := next.sections(); err != nil {
		return err
	}

	*r = next

	return nil
}

type medianRuntime struct {
	kernelSize int
}

func newMedianRuntime(p Params) (Filter, error) {
	r := &medianRuntime{kernelSize: 5}

	err := r.SetParameters(p)
	if err != nil {
		return nil, err
	}

	return r, nil
}

func (r *medianRuntime) Name() string { return "median" }

func (r *medianRuntime) Filter(signal []float64) ([]float64, error) {
	return median.Filter(signal, r.kernelSize)
}

func (r *medianRuntime) Parameters() Params {
	var p Params
	p.SetNum("kernel_size", float64(r.kernelSize))

	return p
}

func (r *medianRuntime) SetParameters(p Params) error {
	kernelSize := int(p.GetNum("kernel_size", float64(r.kernelSize)))
	if kernelSize < 1 {
		return fmt.Errorf("%w: %d", median.ErrInvalidKernel, kernelSize)
	}

	r.kernelSize = kernelSize

	return nil
}

type kalmanRuntime struct {
	processVar      float64
	measurementVar  float64
	initialEstimate float64
}

func newKalmanRuntime(p Params) (Filter, error) {
	r := &kalmanRuntime{processVar: 1e-5, measurementVar: 1e-2}

	err := r.SetParameters(p)
	if err != nil {
		return nil, err
	}

	return r, nil
}

func (r *kalmanRuntime) Name() string { return "kalman" }

func (r *kalmanRuntime) Filter(signal []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, kalman.ErrEmptySignal
	}

	fx, err := kalman.New(r.processVar, r.measurementVar, r.initialEstimate)
	if err != nil {
		return nil, err
	}

	return fx.ProcessBlock(signal)
}

func (r *kalmanRuntime) Parameters() Params {
	var p Params
	p.SetNum("process_variance", r.processVar)
	p.SetNum("measurement_variance", r.measurementVar)
	p.SetNum("initial_estimate", r.initialEstimate)

	return p
}

func (r *kalmanRuntime) SetParameters(p Params) error {
	processVar := p.GetNum("process_variance", r.processVar)
	measurementVar := p.GetNum("measurement_variance", r.measurementVar)
	if processVar <= 0 || measurementVar <= 0 {
		return fmt.Errorf("%w: process %g, measurement %g", kalman.ErrInvalidVariance, processVar, measurementVar)
	}

	r.processVar = processVar
	r.measurementVar = measurementVar
	r.initialEstimate = p.GetNum("initial_estimate", r.initialEstimate)

	return nil
}
