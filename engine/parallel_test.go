package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/fieldscan/coord"
	"github.com/pthm-cable/fieldscan/eval"
)

func TestEvalPool_MatchesInline(t *testing.T) {
	evals, err := eval.Resolve([]string{"atan2", "atan2_approx", "atan2_error"})
	require.NoError(t, err)

	n := parallelThreshold*3 + 17
	xs := make([]coord.Coord, n)
	ys := make([]coord.Coord, n)
	for i := range n {
		xs[i] = coord.FromFloat32(float32(i%97) - 48.5)
		ys[i] = coord.FromFloat32(float32(i%31) - 15.5)
	}

	run := func(workers int) [][]float32 {
		p := newEvalPool(workers)
		defer p.stop()
		outs := make([][]float32, len(evals))
		for i := range outs {
			outs[i] = make([]float32, n)
		}
		p.evaluate(evals, xs, ys, outs)
		return outs
	}

	inline := run(1)
	parallel := run(4)
	for i := range evals {
		assert.Equal(t, inline[i], parallel[i], evals[i].Name)
	}
}

func TestEvalPool_ReusedAcrossTicks(t *testing.T) {
	evals := []eval.Evaluator{
		{ID: 0, Name: "sum", Fn: func(x, y coord.Coord) float32 { return float32(x) + float32(y) }},
	}
	e := newTestEngine(t, Options{
		MaxLen:      4 * parallelThreshold,
		InitialLen:  4 * parallelThreshold,
		RefreshRate: 2 * parallelThreshold,
		Workers:     3,
		Evaluators:  evals,
	})

	for range 2 {
		b := e.Tick()
		require.Equal(t, 2*parallelThreshold, b.Len())
		for k := range b.Indices {
			require.Equal(t, float32(b.X[k])+float32(b.Y[k]), b.Outputs[0].Values[k])
		}
	}
	assert.True(t, e.pool.running)
}

func TestEvalPool_StopIdempotent(t *testing.T) {
	p := newEvalPool(2)
	p.stop()
	p.start()
	p.stop()
	p.stop()
	assert.False(t, p.running)
}
