// Package telemetry tracks engine throughput: per-tick work counts aggregated
// into windows, per-phase timings, and CSV output of both.
package telemetry

// TickSample describes the work done in one tick.
type TickSample struct {
	Requests    int // region/length requests applied
	Drained     int // indices taken from the dirty set
	Synthesized int // random refreshes
	Duplicates  int // selections folded into an earlier slot
	Emitted     int // distinct indices in the batch
	Pending     int // dirty indices left after the tick
	Len         int // point count after the tick
}

// Collector accumulates tick samples within windows and produces WindowStats.
type Collector struct {
	windowTicks uint64

	// Current window tracking
	windowStartTick uint64

	requests    int
	drained     int
	synthesized int
	duplicates  int
	idleTicks   int
	batchSizes  []float64
	pending     []float64
	lastLen     int
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks: uint64(windowTicks),
		batchSizes:  make([]float64, 0, windowTicks),
		pending:     make([]float64, 0, windowTicks),
	}
}

// Record adds one tick's sample to the current window.
func (c *Collector) Record(s TickSample) {
	c.requests += s.Requests
	c.drained += s.Drained
	c.synthesized += s.Synthesized
	c.duplicates += s.Duplicates
	if s.Emitted == 0 {
		c.idleTicks++
	}
	c.batchSizes = append(c.batchSizes, float64(s.Emitted))
	c.pending = append(c.pending, float64(s.Pending))
	c.lastLen = s.Len
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick uint64) WindowStats {
	batch := ComputeDistribution(c.batchSizes)
	pending := ComputeDistribution(c.pending)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		Ticks:           len(c.batchSizes),
		Points:          c.lastLen,

		Requests:    c.requests,
		Drained:     c.drained,
		Synthesized: c.synthesized,
		Duplicates:  c.duplicates,
		IdleTicks:   c.idleTicks,

		BatchMean: batch.Mean,
		BatchStd:  batch.Std,
		BatchP10:  batch.P10,
		BatchP50:  batch.P50,
		BatchP90:  batch.P90,

		PendingMean: pending.Mean,
		PendingMax:  pending.Max,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.requests = 0
	c.drained = 0
	c.synthesized = 0
	c.duplicates = 0
	c.idleTicks = 0
	c.batchSizes = c.batchSizes[:0]
	c.pending = c.pending[:0]

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() uint64 {
	return c.windowTicks
}
