package denoise

import "math"

// Params holds the settings for a single filter instance.
type Params struct {
	Num map[string]float64
	Str map[string]string
}

// GetNum safely extracts a numeric parameter, returning def if missing or invalid.
func (p Params) GetNum(key string, def float64) float64 {
	if p.Num == nil {
		return def
	}

	v, ok := p.Num[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}

	return v
}

// GetStr safely extracts a string parameter, returning def if missing or empty.
func (p Params) GetStr(key, def string) string {
	if p.Str == nil {
		return def
	}

	v, ok := p.Str[key]
	if !ok || v == "" {
		return def
	}

	return v
}

// SetNum sets a numeric parameter, allocating the map if needed.
func (p *Params) SetNum(key string, value float64) {
	if p.Num == nil {
		p.Num = make(map[string]float64)
	}
	p.Num[key] = value
}

// SetStr sets a string parameter, allocating the map if needed.
func (p *Params) SetStr(key, value string) {
	if p.Str == nil {
		p.Str = make(map[string]string)
	}
	p.Str[key] = value
}
