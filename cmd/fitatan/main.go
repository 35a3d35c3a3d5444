// Package main fits the coefficients of the float32 arctangent polynomial
// behind the atan2_approx evaluator.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/fieldscan/eval"
)

// EvalRecord is one row of the optimization log.
type EvalRecord struct {
	Eval    int     `csv:"eval"`
	Fitness float64 `csv:"fitness"`
	C3      float64 `csv:"c3"`
	C5      float64 `csv:"c5"`
	C7      float64 `csv:"c7"`
	C9      float64 `csv:"c9"`
}

// formatDuration formats a duration as MM:SS.mmm.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Millisecond)
	m := d / time.Minute
	d -= m * time.Minute
	return fmt.Sprintf("%dm%06.3fs", m, d.Seconds())
}

func main() {
	// CLI flags
	samples := flag.Int("samples", 4096, "Number of sample intervals on [0, 1]")
	maxEvals := flag.Int("max-evals", 2000, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	method := flag.String("method", "cmaes", "Optimizer: cmaes or neldermead")
	objective := flag.String("objective", "max", "Error measure: max or rms")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	params := NewParamVector()
	evaluator := NewFitnessEvaluator(params, *samples, Objective(*objective))
	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	var m optimize.Method
	switch *method {
	case "cmaes":
		popSize := *population
		if popSize == 0 {
			popSize = 4 + int(3.0*float64(dim)/2.0)
		}
		m = &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}
	case "neldermead":
		m = &optimize.NelderMead{}
	default:
		log.Fatalf("unknown method %q", *method)
	}

	logPath := filepath.Join(*outputDir, "fit_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := evaluator.Score(eval.DefaultAtanPoly)
	bestParams := params.FromPoly(eval.DefaultAtanPoly)
	startTime := time.Now()
	fmt.Printf("Built-in polynomial: error %.3g\n", bestFitness)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			fitness := evaluator.Evaluate(raw)
			evalCount++

			clamped := params.Clamp(raw)
			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			record := []EvalRecord{{Eval: evalCount, Fitness: fitness, C3: clamped[0], C5: clamped[1], C7: clamped[2], C9: clamped[3]}}
			if evalCount == 1 {
				err = gocsv.Marshal(record, logFile)
			} else {
				err = gocsv.MarshalWithoutHeaders(record, logFile)
			}
			if err != nil {
				log.Printf("failed to log evaluation: %v", err)
			}

			if evalCount%100 == 0 {
				fmt.Printf("Eval %d/%d: error=%.3g (best=%.3g) | elapsed: %s\n",
					evalCount, *maxEvals, fitness, bestFitness, formatDuration(time.Since(startTime)))
			}
			return fitness
		},
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation
	}

	fmt.Printf("Starting %s with %d coefficients, max_evals=%d, objective=%s\n", *method, dim, *maxEvals, *objective)
	if _, err := optimize.Minimize(problem, initX, settings, m); err != nil {
		log.Printf("optimization ended: %v", err)
	}

	best := params.Poly(bestParams)
	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best error: %.3g\n", bestFitness)
	fmt.Printf("  c3: %.9g\n  c5: %.9g\n  c7: %.9g\n  c9: %.9g\n", best.C3, best.C5, best.C7, best.C9)

	out, err := yaml.Marshal(map[string]any{
		"c3":    best.C3,
		"c5":    best.C5,
		"c7":    best.C7,
		"c9":    best.C9,
		"error": bestFitness,
	})
	if err != nil {
		log.Fatalf("failed to marshal result: %v", err)
	}
	resultPath := filepath.Join(*outputDir, "best_poly.yaml")
	if err := os.WriteFile(resultPath, out, 0644); err != nil {
		log.Fatalf("failed to write result: %v", err)
	}
	fmt.Printf("\nBest coefficients saved to: %s\n", resultPath)
}
