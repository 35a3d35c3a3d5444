package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick uint64 `csv:"-"`
	WindowEndTick   uint64 `csv:"window_end"`
	Ticks           int    `csv:"ticks"`
	Points          int    `csv:"points"` // point count at window end

	// Work during window
	Requests    int `csv:"requests"`
	Drained     int `csv:"drained"`
	Synthesized int `csv:"synthesized"`
	Duplicates  int `csv:"duplicates"`
	IdleTicks   int `csv:"idle_ticks"`

	// Batch size distribution
	BatchMean float64 `csv:"batch_mean"`
	BatchStd  float64 `csv:"batch_std"`
	BatchP10  float64 `csv:"batch_p10"`
	BatchP50  float64 `csv:"batch_p50"`
	BatchP90  float64 `csv:"batch_p90"`

	// Dirty queue depth after each tick
	PendingMean float64 `csv:"pending_mean"`
	PendingMax  float64 `csv:"pending_max"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Max           float64
}

// ComputeDistribution calculates mean, standard deviation, empirical
// percentiles, and maximum of values. Returns the zero value if values is empty.
func ComputeDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	var d Distribution
	if len(values) == 1 {
		d.Mean = values[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(values, nil)
	}

	// Sort a copy for percentiles
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	d.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	d.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	d.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	d.Max = floats.Max(sorted)
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Int("ticks", s.Ticks),
		slog.Int("points", s.Points),
		slog.Int("requests", s.Requests),
		slog.Int("drained", s.Drained),
		slog.Int("synthesized", s.Synthesized),
		slog.Int("duplicates", s.Duplicates),
		slog.Int("idle_ticks", s.IdleTicks),
		slog.Float64("batch_mean", s.BatchMean),
		slog.Float64("batch_std", s.BatchStd),
		slog.Float64("batch_p10", s.BatchP10),
		slog.Float64("batch_p50", s.BatchP50),
		slog.Float64("batch_p90", s.BatchP90),
		slog.Float64("pending_mean", s.PendingMean),
		slog.Float64("pending_max", s.PendingMax),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
