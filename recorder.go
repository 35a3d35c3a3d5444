package main

import (
	"log/slog"

	"github.com/pthm-cable/fieldscan/engine"
	"github.com/pthm-cable/fieldscan/telemetry"
)

// recorder feeds batch stats into the window collector and flushes finished
// windows to the log and the output files.
type recorder struct {
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	logStats  bool
}

func (r *recorder) record(b *engine.Batch) {
	r.collector.Record(b.Stats)

	tick := b.Tick + 1
	if !r.collector.ShouldFlush(tick) {
		return
	}
	stats := r.collector.Flush(tick)
	perf := r.perf.Stats()

	if r.logStats {
		stats.LogStats()
		perf.LogStats()
	}
	if err := r.output.WriteWindow(stats); err != nil {
		slog.Error("failed to write window stats", "error", err)
	}
	if err := r.output.WritePerf(perf, tick); err != nil {
		slog.Error("failed to write perf stats", "error", err)
	}
}
