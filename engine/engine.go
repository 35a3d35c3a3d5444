// Package engine drives the point set tick by tick and emits update batches.
//
// An Engine owns the region store, its dirty set, the evaluators, and the
// random source. Submit, TrySubmit, and Queued may be called from any
// goroutine; every other method belongs to the goroutine that runs ticks.
// Submitted requests are applied at the start of the next tick.
package engine

import (
	"context"
	"math/rand"
	"time"

	"github.com/pthm-cable/fieldscan/coord"
	"github.com/pthm-cable/fieldscan/dirty"
	"github.com/pthm-cable/fieldscan/eval"
	"github.com/pthm-cable/fieldscan/region"
	"github.com/pthm-cable/fieldscan/telemetry"
)

// DefaultQueueSize is the request queue capacity used when Options leaves it unset.
const DefaultQueueSize = 64

// Options configures a new Engine.
type Options struct {
	X, Y          region.Axis
	MaxLen        uint32
	InitialLen    uint32
	RefreshRate   int
	RefreshRandom bool
	QueueSize     int
	Seed          int64
	Evaluators    []eval.Evaluator

	// Workers is the number of goroutines used to evaluate large batches.
	// Zero means GOMAXPROCS; one evaluates inline.
	Workers int

	// Perf, when set, receives per-phase tick timings.
	Perf *telemetry.PerfCollector
}

// Engine is the complete sampling state.
type Engine struct {
	store *region.Store
	dirty *dirty.Set
	evals []eval.Evaluator
	rng   *rand.Rand
	perf  *telemetry.PerfCollector
	pool  *evalPool

	requests chan Request

	refreshRate   int
	refreshRandom bool
	tick          uint64

	// index -> slot in the batch being built
	slots map[uint32]int
}

// New creates an engine with an empty point set, then grows it to
// opts.InitialLen (clamped to opts.MaxLen).
func New(opts Options) *Engine {
	queue := opts.QueueSize
	if queue <= 0 {
		queue = DefaultQueueSize
	}
	d := dirty.New()
	e := &Engine{
		store:         region.New(opts.X, opts.Y, opts.MaxLen, d),
		dirty:         d,
		evals:         opts.Evaluators,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		perf:          opts.Perf,
		pool:          newEvalPool(opts.Workers),
		requests:      make(chan Request, queue),
		refreshRate:   max(opts.RefreshRate, 0),
		refreshRandom: opts.RefreshRandom,
		slots:         make(map[uint32]int),
	}
	if opts.InitialLen > 0 {
		e.store.Resize(e.rng, opts.InitialLen)
	}
	return e
}

// Close stops the evaluation workers. The engine must not tick afterwards.
func (e *Engine) Close() {
	e.pool.stop()
}

// Submit queues r for the next tick. It blocks while the queue is full and
// returns ctx.Err() if ctx ends first.
func (e *Engine) Submit(ctx context.Context, r Request) error {
	select {
	case e.requests <- r:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySubmit queues r for the next tick without blocking. It reports false
// if the queue is full.
func (e *Engine) TrySubmit(r Request) bool {
	select {
	case e.requests <- r:
		return true
	default:
		return false
	}
}

// Queued returns the number of requests waiting for the next tick.
func (e *Engine) Queued() int {
	return len(e.requests)
}

// Apply applies r immediately.
func (e *Engine) Apply(r Request) {
	r.apply(e)
}

// drainRequests applies every queued request and returns how many there were.
func (e *Engine) drainRequests() int {
	var n int
	for {
		select {
		case r := <-e.requests:
			r.apply(e)
			n++
		default:
			return n
		}
	}
}

// Run calls Tick every period and hands each batch to emit until ctx ends.
// It returns ctx.Err(). When the engine has a perf collector, each tick is
// timed through the end of emit.
func (e *Engine) Run(ctx context.Context, period time.Duration, emit func(*Batch)) error {
	if period <= 0 {
		period = 16 * time.Millisecond
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if e.perf != nil {
				e.perf.StartTick()
			}
			b := e.Tick()
			e.phase(telemetry.PhaseEmit)
			emit(b)
			if e.perf != nil {
				e.perf.EndTick()
			}
		}
	}
}

// SetRefreshRate sets the maximum number of points processed per tick.
func (e *Engine) SetRefreshRate(n int) {
	e.refreshRate = max(n, 0)
}

// RefreshRate returns the maximum number of points processed per tick.
func (e *Engine) RefreshRate() int {
	return e.refreshRate
}

// SetRefreshRandom allows or forbids refreshing random points when no
// point is dirty.
func (e *Engine) SetRefreshRandom(on bool) {
	e.refreshRandom = on
}

// RefreshRandom reports whether idle ticks refresh random points.
func (e *Engine) RefreshRandom() bool {
	return e.refreshRandom
}

// SetMaxLen changes the capacity ceiling (clamped to region.HardMaxLen).
// Use a SetLen request to actually resize.
func (e *Engine) SetMaxLen(n uint32) {
	e.store.SetMaxLen(n)
}

// MaxLen returns the capacity ceiling.
func (e *Engine) MaxLen() uint32 {
	return e.store.MaxLen()
}

// Len returns the number of points.
func (e *Engine) Len() int {
	return e.store.Len()
}

// Pending returns the number of dirty points waiting for a tick.
func (e *Engine) Pending() int {
	return e.dirty.Len()
}

// Bounds returns the current X and Y ranges.
func (e *Engine) Bounds() (x, y region.Axis) {
	return e.store.Bounds()
}

// Point returns the coordinates of point i.
func (e *Engine) Point(i int) (x, y coord.Coord) {
	return e.store.Point(i)
}

// Evaluators returns the registered evaluators.
func (e *Engine) Evaluators() []eval.Evaluator {
	return e.evals
}

// TickCount returns the number of completed ticks.
func (e *Engine) TickCount() uint64 {
	return e.tick
}
