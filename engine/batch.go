package engine

import (
	"github.com/pthm-cable/fieldscan/coord"
	"github.com/pthm-cable/fieldscan/telemetry"
)

// Output is one evaluator's results for a batch, aligned with Batch.Indices.
type Output struct {
	ID     uint32
	Name   string
	Values []float32
}

// Batch is one tick's worth of updates. Every slice has the same length and
// no index appears twice. A Batch shares no memory with the engine.
type Batch struct {
	Tick    uint64
	Indices []uint32
	X, Y    []coord.Coord
	Outputs []Output
	Stats   telemetry.TickSample
}

// Len returns the number of updated points.
func (b *Batch) Len() int {
	return len(b.Indices)
}

// Tick applies queued requests, selects up to RefreshRate points, evaluates
// them, and returns the batch.
//
// Points come from the dirty set, smallest index first. Once it is empty the
// tick either stops or, if random refresh is on, resamples a random point
// (growing the set by one while below MaxLen). A point selected twice keeps
// one slot holding its latest coordinates.
func (e *Engine) Tick() *Batch {
	e.phase(telemetry.PhaseRequests)
	st := telemetry.TickSample{Requests: e.drainRequests()}

	e.phase(telemetry.PhaseSelect)
	size := min(e.refreshRate, e.dirty.Len()+e.store.Len()+1)
	b := &Batch{
		Tick:    e.tick,
		Indices: make([]uint32, 0, size),
		X:       make([]coord.Coord, 0, size),
		Y:       make([]coord.Coord, 0, size),
	}
	clear(e.slots)

	for range e.refreshRate {
		idx, ok := e.dirty.PopMin()
		if ok {
			st.Drained++
		} else {
			if !e.refreshRandom {
				break
			}
			if idx, ok = e.store.Synthesize(e.rng); !ok {
				break
			}
			st.Synthesized++
		}

		x, y := e.store.Point(int(idx))
		if slot, seen := e.slots[idx]; seen {
			b.X[slot], b.Y[slot] = x, y
			st.Duplicates++
			continue
		}
		e.slots[idx] = len(b.Indices)
		b.Indices = append(b.Indices, idx)
		b.X = append(b.X, x)
		b.Y = append(b.Y, y)
	}

	e.phase(telemetry.PhaseEvaluate)
	b.Outputs = make([]Output, len(e.evals))
	vals := make([][]float32, len(e.evals))
	for i, ev := range e.evals {
		vals[i] = make([]float32, len(b.Indices))
		b.Outputs[i] = Output{ID: ev.ID, Name: ev.Name, Values: vals[i]}
	}
	e.pool.evaluate(e.evals, b.X, b.Y, vals)

	st.Emitted = len(b.Indices)
	st.Pending = e.dirty.Len()
	st.Len = e.store.Len()
	b.Stats = st
	e.tick++
	return b
}

func (e *Engine) phase(name string) {
	if e.perf != nil {
		e.perf.StartPhase(name)
	}
}
