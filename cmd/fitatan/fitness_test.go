package main

import (
	"testing"

	"github.com/pthm-cable/fieldscan/eval"
)

func TestScoreBuiltinBeatsTaylor(t *testing.T) {
	params := NewParamVector()
	fe := NewFitnessEvaluator(params, 1000, ObjectiveMax)

	builtin := fe.Score(eval.DefaultAtanPoly)
	taylor := fe.Evaluate(params.DefaultVector())
	if builtin >= taylor {
		t.Errorf("built-in error %g not below truncated series error %g", builtin, taylor)
	}
	if builtin > 2e-5 {
		t.Errorf("built-in error %g too large", builtin)
	}
}

func TestScoreObjectives(t *testing.T) {
	params := NewParamVector()
	p := params.Poly(params.DefaultVector())
	worst := NewFitnessEvaluator(params, 200, ObjectiveMax).Score(p)
	rms := NewFitnessEvaluator(params, 200, ObjectiveRMS).Score(p)
	if rms > worst {
		t.Errorf("rms %g exceeds max %g", rms, worst)
	}
	if rms <= 0 {
		t.Errorf("expected positive rms, got %g", rms)
	}
}

func TestNormalizeRoundtrip(t *testing.T) {
	params := NewParamVector()
	raw := params.DefaultVector()
	back := params.Denormalize(params.Normalize(raw))
	for i := range raw {
		if d := back[i] - raw[i]; d > 1e-12 || d < -1e-12 {
			t.Errorf("param %s: %g -> %g", params.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestClamp(t *testing.T) {
	params := NewParamVector()
	got := params.Clamp([]float64{-10, 10, 0.5, -1})
	want := []float64{params.Specs[0].Min, params.Specs[1].Max, params.Specs[2].Max, params.Specs[3].Min}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("clamp[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}
