package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/fieldscan/coord"
	"github.com/pthm-cable/fieldscan/engine"
	"github.com/pthm-cable/fieldscan/region"
	"github.com/pthm-cable/fieldscan/telemetry"
)

func testSpecs() []LayerSpec {
	return []LayerSpec{
		{ID: 0, Name: "a", Color: [4]uint8{255, 0, 0, 255}},
		{ID: 1, Name: "b", Color: [4]uint8{0, 255, 0, 255}},
	}
}

func batch(tick uint64, n int, idx ...uint32) *engine.Batch {
	b := &engine.Batch{Tick: tick, Indices: idx, Stats: telemetry.TickSample{Len: n}}
	a := make([]float32, len(idx))
	c := make([]float32, len(idx))
	for k, i := range idx {
		b.X = append(b.X, coord.Coord(i*10))
		b.Y = append(b.Y, coord.Coord(i*20))
		a[k] = float32(i)
		c[k] = -float32(i)
	}
	b.Outputs = []engine.Output{{ID: 0, Name: "a", Values: a}, {ID: 1, Name: "b", Values: c}}
	return b
}

func TestApply_Scatter(t *testing.T) {
	s := New(testSpecs())
	s.Apply(batch(0, 5, 4, 1))

	require.Equal(t, 5, s.Len())
	x, y := s.Point(4)
	assert.Equal(t, coord.Coord(40), x)
	assert.Equal(t, coord.Coord(80), y)

	v, ok := s.Value(0, 1)
	require.True(t, ok)
	assert.Equal(t, float32(1), v)
	v, _ = s.Value(1, 4)
	assert.Equal(t, float32(-4), v)

	// Untouched slots stay zero.
	x, _ = s.Point(2)
	assert.Zero(t, x)

	_, ok = s.Value(9, 0)
	assert.False(t, ok)
	assert.Equal(t, uint64(2), s.Applied)
}

func TestApply_LaterBatchOverwrites(t *testing.T) {
	s := New(testSpecs())
	s.Apply(batch(0, 3, 0, 1, 2))

	b := batch(1, 3, 1)
	b.X[0] = 777
	b.Outputs[0].Values[0] = 42
	s.Apply(b)

	x, _ := s.Point(1)
	assert.Equal(t, coord.Coord(777), x)
	v, _ := s.Value(0, 1)
	assert.Equal(t, float32(42), v)
	v, _ = s.Value(0, 2)
	assert.Equal(t, float32(2), v, "other points keep their values")
	assert.Equal(t, uint64(1), s.Tick())
}

func TestApply_TruncateAndRegrow(t *testing.T) {
	s := New(testSpecs())
	s.Apply(batch(0, 4, 0, 1, 2, 3))
	s.Apply(batch(1, 2))
	require.Equal(t, 2, s.Len())

	s.Apply(batch(2, 4, 2))
	require.Equal(t, 4, s.Len())
	x, _ := s.Point(3)
	assert.Zero(t, x, "regrown slot is cleared")
	v, _ := s.Value(0, 3)
	assert.Zero(t, v)
}

func TestApply_FromEngine(t *testing.T) {
	e := engine.New(engine.Options{
		X:           region.Axis{Start: 0, End: 1000},
		Y:           region.Axis{Start: 0, End: 1000},
		MaxLen:      64,
		InitialLen:  64,
		RefreshRate: 16,
	})
	s := New(nil)
	for e.Pending() > 0 {
		s.Apply(e.Tick())
	}

	require.Equal(t, e.Len(), s.Len())
	for i := range e.Len() {
		ex, ey := e.Point(i)
		sx, sy := s.Point(i)
		assert.Equal(t, ex, sx)
		assert.Equal(t, ey, sy)
	}
}

func TestLayers(t *testing.T) {
	s := New(testSpecs())
	s.SetVisible(1, false)
	s.SetVisible(7, false)

	var names []string
	var visible []bool
	s.EachLayer(func(layer *Layer, style *Style, _ *Values) {
		names = append(names, layer.Name)
		visible = append(visible, layer.Visible)
		assert.Equal(t, uint8(255), style.Color[3])
	})
	assert.Equal(t, []string{"a", "b"}, names)
	assert.Equal(t, []bool{true, false}, visible)
}

func TestNormalize(t *testing.T) {
	ax := region.Axis{Start: 100, End: -100}
	assert.Equal(t, float32(-1), Normalize(-100, ax))
	assert.Equal(t, float32(1), Normalize(100, ax))
	assert.Equal(t, float32(0), Normalize(0, ax))

	full := region.Axis{Start: coord.Min, End: coord.Max}
	assert.Equal(t, float32(-1), Normalize(coord.Min, full))
	assert.Equal(t, float32(1), Normalize(coord.Max, full))

	assert.Equal(t, float32(0), Normalize(5, region.Axis{Start: 5, End: 5}))
}

func TestPrefix_Range(t *testing.T) {
	var p Prefix
	lo, hi := p.Range()
	assert.Equal(t, coord.Min, lo)
	assert.Equal(t, coord.Max, hi)
	assert.Equal(t, "*", p.String())

	p.Set(0, One)
	lo, hi = p.Range()
	assert.Equal(t, coord.Coord(0), lo)
	assert.Equal(t, coord.Max, hi)
	assert.Equal(t, "+*", p.String())

	p.Set(0, Zero)
	lo, hi = p.Range()
	assert.Equal(t, coord.Min, lo)
	assert.Equal(t, coord.Coord(-1), hi)

	// Bits after the first free position are ignored.
	p.Set(5, One)
	lo2, hi2 := p.Range()
	assert.Equal(t, lo, lo2)
	assert.Equal(t, hi, hi2)
	assert.Equal(t, 1, p.Depth())
}

func TestPrefix_FloatInterval(t *testing.T) {
	// +, then the exponent bits of 1.0 (0111 1111) select exactly [1, 2).
	var p Prefix
	p.Set(0, One)
	for i, b := range []Bit{Zero, One, One, One, One, One, One, One} {
		p.Set(i+1, b)
	}
	assert.Equal(t, 9, p.Depth())

	lo, hi := p.Range()
	assert.Equal(t, float32(1), lo.Float32())
	assert.Equal(t, coord.FromFloat32(2)-1, hi)
	assert.Equal(t, "+01111111*", p.String())
}

func TestPrefix_Cycle(t *testing.T) {
	var p Prefix
	p.Cycle(3)
	assert.Equal(t, One, p.Bit(3))
	p.Cycle(3)
	assert.Equal(t, Zero, p.Bit(3))
	p.Cycle(3)
	assert.Equal(t, Free, p.Bit(3))
}
