package main

import (
	"math"

	"github.com/pthm-cable/fieldscan/eval"
)

// Objective selects how sample errors are combined.
type Objective string

const (
	ObjectiveMax Objective = "max" // worst-case absolute error
	ObjectiveRMS Objective = "rms" // root mean square error
)

// FitnessEvaluator scores polynomials against math.Atan on [0, 1].
type FitnessEvaluator struct {
	params    *ParamVector
	objective Objective
	samples   []float32
	reference []float64
}

// NewFitnessEvaluator samples n+1 evenly spaced points of [0, 1].
func NewFitnessEvaluator(params *ParamVector, n int, objective Objective) *FitnessEvaluator {
	n = max(n, 1)
	fe := &FitnessEvaluator{
		params:    params,
		objective: objective,
		samples:   make([]float32, n+1),
		reference: make([]float64, n+1),
	}
	for i := range fe.samples {
		a := float32(i) / float32(n)
		fe.samples[i] = a
		fe.reference[i] = math.Atan(float64(a))
	}
	return fe
}

// Evaluate returns the error of the polynomial built from raw values.
// Lower is better.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	return fe.Score(fe.params.Poly(raw))
}

// Score returns the error of p.
func (fe *FitnessEvaluator) Score(p eval.AtanPoly) float64 {
	var worst, sumSq float64
	for i, a := range fe.samples {
		d := math.Abs(float64(p.Atan(a)) - fe.reference[i])
		worst = math.Max(worst, d)
		sumSq += d * d
	}
	if fe.objective == ObjectiveRMS {
		return math.Sqrt(sumSq / float64(len(fe.samples)))
	}
	return worst
}
