package viewer

import (
	"fmt"
	"log/slog"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fieldscan/engine"
	"github.com/pthm-cable/fieldscan/region"
	"github.com/pthm-cable/fieldscan/scene"
	"github.com/pthm-cable/fieldscan/ui"
)

const (
	// Log2 slider ranges.
	maxRefreshLog2 = 17
	minLenLog2     = 10
	zScaleLog2     = 20

	bitButton = 13
)

// controls is the right-hand panel: region prefixes, refresh settings,
// point count, and per-layer display settings.
type controls struct {
	renderer *ui.Renderer
	eng      *engine.Engine
	x, y     float32

	prefixes [2]scene.Prefix // per axis
}

func newControls(x, y int32, eng *engine.Engine) *controls {
	return &controls{
		renderer: ui.NewRenderer(),
		eng:      eng,
		x:        float32(x),
		y:        float32(y),
	}
}

func (c *controls) draw(sc *scene.Scene) {
	c.renderer.DrawPanel(int32(c.x)-10, int32(c.y)-5, panelWidth, 250+int32(20*c.layerCount(sc)))
	x, y := c.x, c.y

	y = float32(c.renderer.DrawSectionHeader(int32(x), int32(y), "Region")) + 6
	for i, id := range []region.AxisID{region.AxisX, region.AxisY} {
		rl.DrawText(id.String()+":", int32(x), int32(y), 14, rl.LightGray)
		if c.drawPrefix(x+20, y, &c.prefixes[i]) {
			c.submitPrefix(id, &c.prefixes[i])
		}
		y += 20
	}
	rl.DrawText("click a bit to cycle it; the first bit is the sign", int32(x), int32(y), 10, rl.Gray)
	y += 24

	rl.DrawText("Updates per tick (log2)", int32(x), int32(y), 14, rl.Gray)
	y += 18
	rate := c.eng.RefreshRate()
	cur := float32(math.Log2(float64(rate + 1)))
	next := gui.SliderBar(rl.Rectangle{X: x, Y: y, Width: panelWidth - 110, Height: 20}, "", "", cur, 0, maxRefreshLog2)
	rl.DrawText(fmt.Sprintf("%d", rate), int32(x+panelWidth-100), int32(y+2), 16, rl.LightGray)
	if next != cur {
		c.eng.SetRefreshRate(int(math.Round(math.Exp2(float64(next)))) - 1)
	}
	y += 30

	random := gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 16, Height: 16}, "refresh random points", c.eng.RefreshRandom())
	if random != c.eng.RefreshRandom() {
		c.eng.SetRefreshRandom(random)
	}
	y += 28

	rl.DrawText("Max points (log2)", int32(x), int32(y), 14, rl.Gray)
	y += 18
	maxLen := c.eng.MaxLen()
	cur = float32(math.Log2(float64(max(maxLen, 1))))
	next = gui.SliderBar(rl.Rectangle{X: x, Y: y, Width: panelWidth - 110, Height: 20}, "", "", cur, minLenLog2, float32(math.Log2(region.HardMaxLen)))
	rl.DrawText(fmt.Sprintf("%d", maxLen), int32(x+panelWidth-100), int32(y+2), 16, rl.LightGray)
	if next != cur {
		c.eng.SetMaxLen(uint32(math.Round(math.Exp2(float64(next)))))
	}
	y += 30

	y = float32(c.renderer.DrawSectionHeader(int32(x), int32(y), "Layers")) + 6
	sc.EachLayer(func(layer *scene.Layer, style *scene.Style, _ *scene.Values) {
		layer.Visible = gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 16, Height: 16}, "", layer.Visible)
		c.renderer.DrawColorSwatch(int32(x)+24, int32(y)+2, layer.Name, ui.RGBA(style.Color))

		zl := gui.SliderBar(
			rl.Rectangle{X: x + 170, Y: y, Width: panelWidth - 250, Height: 16},
			"", "",
			float32(math.Log2(float64(style.ZScale))), -zScaleLog2, zScaleLog2,
		)
		style.ZScale = float32(math.Exp2(float64(zl)))
		rl.DrawText(fmt.Sprintf("z %.3g", style.ZScale), int32(x+panelWidth-75), int32(y+2), 12, rl.LightGray)
		y += 20
	})
}

func (c *controls) layerCount(sc *scene.Scene) int {
	var n int
	sc.EachLayer(func(*scene.Layer, *scene.Style, *scene.Values) { n++ })
	return n
}

// drawPrefix draws one button per fixed bit plus one for the first free
// bit, and reports whether any was clicked.
func (c *controls) drawPrefix(x, y float32, p *scene.Prefix) bool {
	changed := false
	shown := min(p.Depth()+1, 32)
	for i := range shown {
		label := bitLabel(i, p.Bit(i))
		if gui.Button(rl.Rectangle{X: x + float32(i*bitButton), Y: y, Width: bitButton - 1, Height: 16}, label) {
			p.Cycle(i)
			changed = true
		}
	}
	return changed
}

func bitLabel(i int, b scene.Bit) string {
	switch {
	case b == scene.Free:
		return ""
	case i == 0 && b == scene.One:
		return "+"
	case i == 0:
		return "-"
	case b == scene.One:
		return "1"
	default:
		return "0"
	}
}

// submitPrefix moves both ends of the axis to the prefix's range.
func (c *controls) submitPrefix(id region.AxisID, p *scene.Prefix) {
	lo, hi := p.Range()
	submit(c.eng, engine.MoveBound{Axis: id, End: region.EndStart, Value: lo})
	submit(c.eng, engine.MoveBound{Axis: id, End: region.EndEnd, Value: hi})
	slog.Info("region prefix", "axis", id.String(), "prefix", p.String(), "start", lo.String(), "end", hi.String())
}

// submit queues r without blocking the frame.
func submit(eng *engine.Engine, r engine.Request) {
	if !eng.TrySubmit(r) {
		slog.Warn("request queue full, request dropped", "pending", eng.Queued())
	}
}
