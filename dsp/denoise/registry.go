package denoise

import (
	"errors"
	"fmt"
	"sort"
)

// Filter is one configurable denoising stage.
type Filter interface {
	// Name returns the registry type name of the filter.
	Name() string

	// Filter returns a denoised copy of signal, leaving the input unchanged.
	Filter(signal []float64) ([]float64, error)

	// Parameters returns the current settings.
	Parameters() Params

	// SetParameters merges the given settings over the current ones.
	// Unrecognized keys are ignored; keys not present keep their value.
	SetParameters(p Params) error
}

// Factory builds one Filter instance from its initial parameters.
type Factory func(p Params) (Filter, error)

// Registry maps filter type names to their factories.
type Registry struct {
	factories map[string]Factory
}

var (
	errDuplicateFilter = errors.New("duplicate filter type")

	// ErrUnknownFilter is returned when a type name has no factory.
	ErrUnknownFilter = errors.New("unknown filter type")
)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for the given filter type.
func (r *Registry) Register(filterType string, factory Factory) error {
	if filterType == "" {
		return errors.New("empty filter type")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[filterType]; exists {
		return fmt.Errorf("%w: %s", errDuplicateFilter, filterType)
	}

	r.factories[filterType] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(filterType string, factory Factory) {
	err := r.Register(filterType, factory)
	if err != nil {
		panic("denoise registry: " + err.Error())
	}
}

// Lookup returns the factory for the given filter type, or nil.
func (r *Registry) Lookup(filterType string) Factory {
	return r.factories[filterType]
}

// New builds a filter of the given type with the given parameters.
func (r *Registry) New(filterType string, p Params) (Filter, error) {
	factory := r.Lookup(filterType)
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, filterType)
	}

	return factory(p)
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
