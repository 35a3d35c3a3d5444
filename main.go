package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fieldscan/config"
	"github.com/pthm-cable/fieldscan/engine"
	"github.com/pthm-cable/fieldscan/eval"
	"github.com/pthm-cable/fieldscan/scene"
	"github.com/pthm-cable/fieldscan/telemetry"
	"github.com/pthm-cable/fieldscan/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Uint64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	tickPeriod := flag.Duration("tick-period", 0, "Headless tick period (0 = as fast as possible)")
	debug := flag.Bool("debug", false, "Log region and length changes")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	evaluators, err := eval.Resolve(cfg.Derived.EvaluatorNames)
	if err != nil {
		slog.Error("failed to resolve evaluators", "error", err)
		os.Exit(1)
	}

	window := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		window = *statsWindow
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	eng := engine.New(engine.Options{
		X:             cfg.Derived.X,
		Y:             cfg.Derived.Y,
		MaxLen:        cfg.Engine.MaxLen,
		InitialLen:    cfg.Engine.InitialLen,
		RefreshRate:   cfg.Engine.RefreshRate,
		RefreshRandom: cfg.Engine.RefreshRandom,
		QueueSize:     cfg.Engine.RequestQueue,
		Seed:          rngSeed,
		Evaluators:    evaluators,
		Workers:       cfg.Engine.Workers,
		Perf:          perf,
	})
	defer eng.Close()
	rec := &recorder{
		collector: telemetry.NewCollector(window),
		perf:      perf,
		output:    output,
		logStats:  *logStats,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("starting",
		"seed", rngSeed,
		"headless", *headless,
		"evaluators", cfg.Derived.EvaluatorNames,
		"max_len", cfg.Engine.MaxLen,
		"x", cfg.Derived.X.String(),
		"y", cfg.Derived.Y.String(),
		"stats_window", window,
		"max_ticks", *maxTicks,
	)

	if *headless {
		err = runHeadless(ctx, eng, rec, *tickPeriod, *maxTicks)
	} else {
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "fieldscan")
		defer rl.CloseWindow()
		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

		v := viewer.New(viewer.Options{
			Engine:   eng,
			Layers:   layerSpecs(cfg, evaluators),
			Perf:     perf,
			OnBatch:  rec.record,
			Width:    int32(cfg.Screen.Width),
			Height:   int32(cfg.Screen.Height),
			Extent:   cfg.Viewer.Extent,
			MaxTicks: *maxTicks,
		})
		err = v.Run(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run failed", "error", err)
		eng.Close()
		os.Exit(1)
	}
	slog.Info("stopped", "tick", eng.TickCount(), "points", eng.Len())
}

// runHeadless ticks without graphics, paced by period when it is positive.
func runHeadless(ctx context.Context, eng *engine.Engine, rec *recorder, period time.Duration, maxTicks uint64) error {
	done := func() bool {
		return maxTicks > 0 && eng.TickCount() >= maxTicks
	}

	if period > 0 {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		err := eng.Run(ctx, period, func(b *engine.Batch) {
			rec.record(b)
			if done() {
				cancel()
			}
		})
		if errors.Is(err, context.Canceled) && done() {
			slog.Info("max ticks reached", "tick", eng.TickCount())
			return nil
		}
		return err
	}

	for !done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec.perf.StartTick()
		b := eng.Tick()
		rec.perf.StartPhase(telemetry.PhaseTelemetry)
		rec.record(b)
		rec.perf.EndTick()
	}
	slog.Info("max ticks reached", "tick", eng.TickCount())
	return nil
}

func layerSpecs(cfg *config.Config, evaluators []eval.Evaluator) []scene.LayerSpec {
	zScale := cfg.Viewer.ZScale
	if zScale <= 0 {
		zScale = 1
	}
	specs := make([]scene.LayerSpec, len(evaluators))
	for i, ev := range evaluators {
		specs[i] = scene.LayerSpec{
			ID:     ev.ID,
			Name:   ev.Name,
			Color:  cfg.Evaluators[i].Color,
			ZScale: zScale,
		}
	}
	return specs
}
