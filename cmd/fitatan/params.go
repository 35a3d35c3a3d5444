package main

import "github.com/pthm-cable/fieldscan/eval"

// ParamSpec defines a single optimizable coefficient.
type ParamSpec struct {
	Name    string  // Human-readable name
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Starting value
}

// ParamVector holds the set of all optimizable coefficients.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the coefficient set of eval.AtanPoly, centered on
// the Taylor series and bounded loosely around it.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "c3", Min: -0.5, Max: -0.2, Default: -1.0 / 3},
			{Name: "c5", Min: 0.0, Max: 0.3, Default: 1.0 / 5},
			{Name: "c7", Min: -0.2, Max: 0.0, Default: -1.0 / 7},
			{Name: "c9", Min: 0.0, Max: 0.15, Default: 1.0 / 9},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// Poly builds the polynomial for raw values. Values are clamped first.
func (pv *ParamVector) Poly(values []float64) eval.AtanPoly {
	c := pv.Clamp(values)
	return eval.AtanPoly{C3: float32(c[0]), C5: float32(c[1]), C7: float32(c[2]), C9: float32(c[3])}
}

// FromPoly extracts raw values from a polynomial.
func (pv *ParamVector) FromPoly(p eval.AtanPoly) []float64 {
	return []float64{float64(p.C3), float64(p.C5), float64(p.C7), float64(p.C9)}
}
