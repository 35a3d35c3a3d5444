// Package scene is the consumer side of the engine: it scatters update
// batches into per-point buffers and keeps one ark entity per evaluator layer.
package scene

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fieldscan/coord"
	"github.com/pthm-cable/fieldscan/engine"
	"github.com/pthm-cable/fieldscan/region"
)

// Layer identifies an evaluator's output layer.
type Layer struct {
	ID      uint32
	Name    string
	Visible bool
}

// Style controls how a layer is drawn.
type Style struct {
	Color  [4]uint8 // RGBA
	ZScale float32  // height per output unit
}

// Values holds a layer's latest output per point index.
type Values struct {
	Z []float32
}

// LayerSpec describes a layer to create.
type LayerSpec struct {
	ID     uint32
	Name   string
	Color  [4]uint8
	ZScale float32
}

// Scene mirrors the engine's point set for display.
type Scene struct {
	world  *ecs.World
	mapper *ecs.Map3[Layer, Style, Values]
	filter *ecs.Filter3[Layer, Style, Values]
	layers map[uint32]ecs.Entity

	xs, ys []coord.Coord
	tick   uint64
	// Applied counts the points written since the scene was created.
	Applied uint64
}

// New creates a scene with one layer entity per spec.
func New(specs []LayerSpec) *Scene {
	world := ecs.NewWorld()
	s := &Scene{
		world:  world,
		mapper: ecs.NewMap3[Layer, Style, Values](world),
		filter: ecs.NewFilter3[Layer, Style, Values](world),
		layers: make(map[uint32]ecs.Entity, len(specs)),
	}
	for _, spec := range specs {
		e := s.mapper.NewEntity(
			&Layer{ID: spec.ID, Name: spec.Name, Visible: true},
			&Style{Color: spec.Color, ZScale: spec.ZScale},
			&Values{},
		)
		s.layers[spec.ID] = e
	}
	return s
}

// Apply writes a batch into the scene's buffers. Buffers follow the point
// count reported by the batch: they grow with zeroed slots and are cut when
// the engine truncated.
func (s *Scene) Apply(b *engine.Batch) {
	n := b.Stats.Len
	for _, idx := range b.Indices {
		n = max(n, int(idx)+1)
	}
	s.resize(n)

	for k, idx := range b.Indices {
		s.xs[idx] = b.X[k]
		s.ys[idx] = b.Y[k]
	}
	for _, out := range b.Outputs {
		e, ok := s.layers[out.ID]
		if !ok {
			continue
		}
		_, _, vals := s.mapper.Get(e)
		for k, idx := range b.Indices {
			vals.Z[idx] = out.Values[k]
		}
	}
	s.tick = b.Tick
	s.Applied += uint64(len(b.Indices))
}

func (s *Scene) resize(n int) {
	s.xs = resizeSlice(s.xs, n)
	s.ys = resizeSlice(s.ys, n)
	query := s.filter.Query()
	for query.Next() {
		_, _, vals := query.Get()
		vals.Z = resizeSlice(vals.Z, n)
	}
}

func resizeSlice[T any](s []T, n int) []T {
	if n <= len(s) {
		return s[:n]
	}
	if n <= cap(s) {
		old := len(s)
		s = s[:n]
		clear(s[old:])
		return s
	}
	return append(s, make([]T, n-len(s))...)
}

// Len returns the number of points held.
func (s *Scene) Len() int {
	return len(s.xs)
}

// Tick returns the tick of the last applied batch.
func (s *Scene) Tick() uint64 {
	return s.tick
}

// Point returns the coordinates of point i.
func (s *Scene) Point(i int) (x, y coord.Coord) {
	return s.xs[i], s.ys[i]
}

// Value returns layer id's value at point i.
func (s *Scene) Value(id uint32, i int) (float32, bool) {
	e, ok := s.layers[id]
	if !ok {
		return 0, false
	}
	_, _, vals := s.mapper.Get(e)
	return vals.Z[i], true
}

// SetVisible shows or hides layer id.
func (s *Scene) SetVisible(id uint32, visible bool) {
	if e, ok := s.layers[id]; ok {
		layer, _, _ := s.mapper.Get(e)
		layer.Visible = visible
	}
}

// EachLayer calls fn for every layer in creation order.
func (s *Scene) EachLayer(fn func(layer *Layer, style *Style, vals *Values)) {
	query := s.filter.Query()
	for query.Next() {
		fn(query.Get())
	}
}

// Normalize maps c into [-1, 1] relative to ax, in coordinate order. Values
// outside ax land outside the interval.
func Normalize(c coord.Coord, ax region.Axis) float32 {
	lo, hi := int64(ax.Lo()), int64(ax.Hi())
	if lo == hi {
		return 0
	}
	t := float64(int64(c)-lo) / float64(hi-lo)
	return float32(2*t - 1)
}
