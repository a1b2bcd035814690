// Package denoise provides a common interface over the denoising filters in
// this module and a registry that builds them by name from parameter maps.
//
// Each filter is identified by a short type name ("adaptive", "savgol",
// "fft", "butterworth", "median", "kalman"). Filters are constructed through
// a Registry of factories, carry their parameters as a Params map, and can be
// reconfigured between runs with SetParameters. Unknown parameter keys are
// ignored so callers can pass a superset of settings to a whole chain.
package denoise
