// Field preview tool - heat map of one evaluator over a float rectangle, with
// sliders for the rectangle.
//
// Usage: go run ./cmd/fieldpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"math"
	"slices"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fieldscan/config"
	"github.com/pthm-cable/fieldscan/coord"
	"github.com/pthm-cable/fieldscan/eval"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 256
)

// ViewParams holds the previewed rectangle.
type ViewParams struct {
	CenterX   float32
	CenterY   float32
	HalfLog2  float32 // log2 of the half-width
	Evaluator int     // index into eval.Names()
}

// defaultParams starts on the configured region and first evaluator. An
// axis with a missing or non-finite endpoint is centered on zero.
func defaultParams(cfg *config.Config, names []string) ViewParams {
	p := ViewParams{HalfLog2: 3.3}
	if len(cfg.Evaluators) > 0 {
		p.Evaluator = max(slices.Index(names, cfg.Evaluators[0].Name), 0)
	}

	var half float32
	if lo, hi, ok := finiteRange(cfg.Region.XStart, cfg.Region.XEnd); ok {
		p.CenterX = (lo + hi) / 2
		half = max(half, (hi-lo)/2)
	}
	if lo, hi, ok := finiteRange(cfg.Region.YStart, cfg.Region.YEnd); ok {
		p.CenterY = (lo + hi) / 2
		half = max(half, (hi-lo)/2)
	}
	if half > 0 {
		p.HalfLog2 = min(max(float32(math.Log2(float64(half))), -20), 20)
	}
	return p
}

func finiteRange(a, b *float32) (lo, hi float32, ok bool) {
	if a == nil || b == nil {
		return 0, 0, false
	}
	for _, v := range []float32{*a, *b} {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return 0, 0, false
		}
	}
	return min(*a, *b), max(*a, *b), true
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()
	config.MustInit(*configPath)

	rl.InitWindow(windowWidth, windowHeight, "Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	names := eval.Names()
	params := defaultParams(config.Cfg(), names)

	grid := make([]float32, gridSize*gridSize)
	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	needsRegen := true
	var lo, hi float32

	for !rl.WindowShouldClose() {
		if needsRegen {
			fn, err := eval.Lookup(names[params.Evaluator])
			if err != nil {
				panic(err)
			}
			lo, hi = generateField(grid, params, fn)
			updateTexture(texture, grid, lo, hi)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		x0, x1, y0, y1 := params.bounds()
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("%s  min: %.4g  max: %.4g", names[params.Evaluator], lo, hi), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("x: [%.4g, %.4g]  y: [%.4g, %.4g]", x0, x1, y0, y1), 15, statsY+20, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("x0: %s", coord.FromFloat32(x0)), 15, statsY+44, 14, rl.Gray)
		rl.DrawText(fmt.Sprintf("x1: %s", coord.FromFloat32(x1)), 15, statsY+60, 14, rl.Gray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Preview Region", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		slider := func(label string, value, min, max float32) float32 {
			rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				fmt.Sprintf("%g", min), fmt.Sprintf("%g", max),
				value, min, max,
			)
			rl.DrawText(fmt.Sprintf("%.2f", value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			panelY += 35
			if v != value {
				needsRegen = true
			}
			return v
		}

		params.CenterX = slider("Center X", params.CenterX, -100, 100)
		params.CenterY = slider("Center Y", params.CenterY, -100, 100)
		params.HalfLog2 = slider("Half-width (log2)", params.HalfLog2, -20, 20)

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Next Function") {
			params.Evaluator = (params.Evaluator + 1) % len(names)
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset") {
			params = defaultParams(config.Cfg(), names)
			needsRegen = true
		}
		panelY += 55

		yamlText := params.yaml()
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		rl.DrawText(yamlText, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yamlText)
		}

		rl.EndDrawing()
	}
}

func (p ViewParams) bounds() (x0, x1, y0, y1 float32) {
	half := float32(math.Exp2(float64(p.HalfLog2)))
	return p.CenterX - half, p.CenterX + half, p.CenterY - half, p.CenterY + half
}

func (p ViewParams) yaml() string {
	x0, x1, y0, y1 := p.bounds()
	return fmt.Sprintf("region:\n  x_start: %g\n  x_end: %g\n  y_start: %g\n  y_end: %g", x0, x1, y0, y1)
}

// generateField evaluates fn at cell centers and returns the finite value range.
func generateField(grid []float32, p ViewParams, fn eval.Func) (lo, hi float32) {
	x0, x1, y0, y1 := p.bounds()
	lo, hi = float32(math.Inf(1)), float32(math.Inf(-1))
	for j := 0; j < gridSize; j++ {
		// Row 0 is the top of the image.
		v := y1 - (float32(j)+0.5)/gridSize*(y1-y0)
		for i := 0; i < gridSize; i++ {
			u := x0 + (float32(i)+0.5)/gridSize*(x1-x0)
			z := fn(coord.FromFloat32(u), coord.FromFloat32(v))
			grid[j*gridSize+i] = z
			if !math.IsNaN(float64(z)) && !math.IsInf(float64(z), 0) {
				lo = min(lo, z)
				hi = max(hi, z)
			}
		}
	}
	return lo, hi
}

// updateTexture maps grid values onto a blue-to-yellow ramp.
func updateTexture(texture rl.Texture2D, grid []float32, lo, hi float32) {
	pixels := make([]color.RGBA, len(grid))
	span := hi - lo
	for i, z := range grid {
		t := float32(0)
		if span > 0 {
			t = clamp01((z - lo) / span)
		}
		if math.IsNaN(float64(z)) {
			pixels[i] = color.RGBA{R: 255, G: 0, B: 255, A: 255}
			continue
		}
		pixels[i] = color.RGBA{
			R: uint8(255 * t),
			G: uint8(200 * t),
			B: uint8(255 * (1 - t)),
			A: 255,
		}
	}
	rl.UpdateTexture(texture, pixels)
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
