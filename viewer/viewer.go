// Package viewer shows the point cloud in a raylib window and turns control
// panel input into engine requests.
package viewer

import (
	"context"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fieldscan/camera"
	"github.com/pthm-cable/fieldscan/engine"
	"github.com/pthm-cable/fieldscan/region"
	"github.com/pthm-cable/fieldscan/scene"
	"github.com/pthm-cable/fieldscan/telemetry"
	"github.com/pthm-cable/fieldscan/ui"
)

const panelWidth = 460

// Options configures a Viewer.
type Options struct {
	Engine *engine.Engine
	Layers []scene.LayerSpec
	Perf   *telemetry.PerfCollector

	// OnBatch, when set, sees every batch after it has been applied.
	OnBatch func(*engine.Batch)

	Width, Height int32
	Extent        float32
	MaxTicks      uint64
}

// Viewer runs one engine tick per frame and draws the result.
type Viewer struct {
	eng     *engine.Engine
	scene   *scene.Scene
	cam     *camera.Camera
	perf    *telemetry.PerfCollector
	onBatch func(*engine.Batch)

	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	controls  *controls

	width, height int32
	extent        float32
	maxTicks      uint64

	paused   bool
	showPerf bool
	emitted  int
}

// New creates a viewer. The raylib window must already be open.
func New(opts Options) *Viewer {
	extent := opts.Extent
	if extent <= 0 {
		extent = 2
	}
	return &Viewer{
		eng:       opts.Engine,
		scene:     scene.New(opts.Layers),
		cam:       camera.New(),
		perf:      opts.Perf,
		onBatch:   opts.OnBatch,
		hud:       ui.NewHUD(),
		perfPanel: ui.NewPerfPanel(opts.Width-panelWidth, opts.Height-130),
		controls:  newControls(opts.Width-panelWidth, 10, opts.Engine),
		width:     opts.Width,
		height:    opts.Height,
		extent:    extent,
		maxTicks:  opts.MaxTicks,
	}
}

// Run draws frames until the window closes, ctx ends, or MaxTicks is reached.
func (v *Viewer) Run(ctx context.Context) error {
	for !rl.WindowShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		v.handleInput()
		if !v.paused {
			v.step()
		}
		v.draw()

		if v.maxTicks > 0 && v.eng.TickCount() >= v.maxTicks {
			slog.Info("max ticks reached", "tick", v.eng.TickCount())
			return nil
		}
	}
	return nil
}

func (v *Viewer) step() {
	// The point set follows the max points slider.
	if uint32(v.eng.Len()) != v.eng.MaxLen() {
		submit(v.eng, engine.SetLen{N: v.eng.MaxLen()})
	}
	if v.perf != nil {
		v.perf.StartTick()
	}
	b := v.eng.Tick()
	if v.perf != nil {
		v.perf.StartPhase(telemetry.PhaseEmit)
	}
	v.scene.Apply(b)
	v.emitted = b.Len()
	if v.perf != nil {
		v.perf.StartPhase(telemetry.PhaseTelemetry)
	}
	if v.onBatch != nil {
		v.onBatch(b)
	}
	if v.perf != nil {
		v.perf.EndTick()
	}
}

func (v *Viewer) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.cam.Reset()
	}
	if rl.IsKeyPressed(rl.KeyA) {
		v.cam.AutoRotate = !v.cam.AutoRotate
	}
	if rl.IsKeyPressed(rl.KeyP) {
		v.showPerf = !v.showPerf
	}

	mouse := rl.GetMousePosition()
	overPanel := mouse.X >= float32(v.width-panelWidth)
	if !overPanel {
		if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
			d := rl.GetMouseDelta()
			v.cam.Drag(d.X, d.Y)
		}
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			v.cam.Scroll(wheel)
		}
	}
	v.cam.Update(rl.GetFrameTime())
}

func (v *Viewer) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	px, py, pz := v.cam.Position()
	tx, ty, tz := v.cam.Target()
	cam := rl.Camera3D{
		Position:   rl.Vector3{X: px, Y: py, Z: pz},
		Target:     rl.Vector3{X: tx, Y: ty, Z: tz},
		Up:         rl.Vector3{X: 0, Y: 0, Z: 1},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
	rl.BeginMode3D(cam)
	v.drawFrame()
	v.drawPoints()
	rl.EndMode3D()

	v.drawHUD()
	v.controls.draw(v.scene)
	if v.showPerf && v.perf != nil {
		v.perfPanel.Draw(v.perf.Stats(), telemetry.Phases())
	}
	v.hud.DrawControls(v.height, "Drag: orbit | Wheel: zoom | Space: pause | A: auto-rotate | R: reset camera | P: perf")

	rl.EndDrawing()
	if v.perf != nil {
		v.perf.RecordFrame()
	}
}

// drawFrame outlines the region square in the z=0 plane.
func (v *Viewer) drawFrame() {
	e := v.extent
	c := rl.Color{R: 80, G: 80, B: 80, A: 255}
	corners := []rl.Vector3{
		{X: -e, Y: -e}, {X: e, Y: -e}, {X: e, Y: e}, {X: -e, Y: e},
	}
	for i := range corners {
		rl.DrawLine3D(corners[i], corners[(i+1)%len(corners)], c)
	}
	rl.DrawLine3D(rl.Vector3{}, rl.Vector3{Z: e}, c)
}

func (v *Viewer) drawPoints() {
	xAxis, yAxis := v.eng.Bounds()
	n := v.scene.Len()
	v.scene.EachLayer(func(layer *scene.Layer, style *scene.Style, vals *scene.Values) {
		if !layer.Visible {
			return
		}
		color := ui.RGBA(style.Color)
		for i := range n {
			x, y := v.scene.Point(i)
			if !xAxis.Contains(x) || !yAxis.Contains(y) {
				continue
			}
			rl.DrawPoint3D(rl.Vector3{
				X: scene.Normalize(x, xAxis) * v.extent,
				Y: scene.Normalize(y, yAxis) * v.extent,
				Z: vals.Z[i] * style.ZScale,
			}, color)
		}
	})
}

func (v *Viewer) drawHUD() {
	x, y := v.eng.Bounds()
	v.hud.Draw(ui.HUDData{
		Title:   "fieldscan",
		Tick:    v.eng.TickCount(),
		Points:  v.eng.Len(),
		MaxLen:  v.eng.MaxLen(),
		Pending: v.eng.Pending(),
		Emitted: v.emitted,
		FPS:     rl.GetFPS(),
		Paused:  v.paused,
		Bounds:  boundLabels(x, y),
	})
}

func boundLabels(x, y region.Axis) [4]string {
	return [4]string{x.Start.String(), x.End.String(), y.Start.String(), y.End.String()}
}
