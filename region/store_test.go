package region

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/fieldscan/coord"
	"github.com/pthm-cable/fieldscan/dirty"
)

func newStore(x, y Axis, maxLen uint32) (*Store, *dirty.Set) {
	d := dirty.New()
	return New(x, y, maxLen, d), d
}

func requireInside(t *testing.T, s *Store) {
	t.Helper()
	x, y := s.Bounds()
	for i := 0; i < s.Len(); i++ {
		px, py := s.Point(i)
		require.Truef(t, x.Contains(px), "point %d x=%d outside %v", i, px, x)
		require.Truef(t, y.Contains(py), "point %d y=%d outside %v", i, py, y)
	}
}

func TestResizeThenShrinkScenario(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s, d := newStore(Axis{0, 100}, Axis{0, 100}, 10)

	require.Equal(t, 5, s.Resize(rng, 5))
	assert.Equal(t, []uint32{0, 1, 2, 3, 4}, d.TakeUpTo(100))
	requireInside(t, s)

	before := make([]coord.Coord, s.Len())
	for i := range before {
		before[i], _ = s.Point(i)
	}

	// Make the outcome independent of the seed: force one point on each side.
	s.xs[0], s.xs[1] = 10, 90
	before[0], before[1] = 10, 90

	ch := s.MoveBound(rng, AxisX, EndEnd, 50)
	assert.Equal(t, Shrunk, ch.Kind)
	requireInside(t, s)

	var outside int
	for i, old := range before {
		now, _ := s.Point(i)
		if old > 50 {
			outside++
			assert.True(t, d.Contains(uint32(i)), "point %d should be dirty", i)
			assert.LessOrEqual(t, now, coord.Coord(50))
		} else {
			assert.False(t, d.Contains(uint32(i)), "point %d should not be dirty", i)
			assert.Equal(t, old, now)
		}
	}
	assert.Equal(t, outside, ch.Relocated)
	assert.Equal(t, outside, d.Len())
}

func TestResizeClampsToMaxLen(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	s, d := newStore(FullAxis, FullAxis, 8)
	assert.Equal(t, 8, s.Resize(rng, 1000))
	assert.Equal(t, 8, d.Len())

	s.SetMaxLen(HardMaxLen + 5)
	assert.Equal(t, uint32(HardMaxLen), s.MaxLen())
}

func TestResizeShrinkEvictsDirty(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	s, d := newStore(Axis{-10, 10}, Axis{-10, 10}, 100)
	s.Resize(rng, 50)
	assert.Equal(t, 20, s.Resize(rng, 20))
	assert.Equal(t, 20, d.Len())
	d.Ascend(func(idx uint32) bool {
		assert.Less(t, idx, uint32(20))
		return true
	})

	assert.Equal(t, 20, s.Resize(rng, 20))
	assert.Equal(t, 20, d.Len())
}

func TestShrinkInvalidation(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	s, d := newStore(Axis{-1000, 1000}, Axis{-1000, 1000}, 5000)
	s.Resize(rng, 5000)
	d.Clear()

	before := append([]coord.Coord(nil), s.ys...)
	s.MoveBound(rng, AxisY, EndStart, 200)
	requireInside(t, s)
	for i, v := range before {
		if v < 200 {
			require.True(t, d.Contains(uint32(i)))
		} else {
			require.False(t, d.Contains(uint32(i)))
		}
	}
}

func TestGrowSpreadsUniformly(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	const n = 20000
	s, d := newStore(Axis{0, 99}, Axis{0, 0}, n)
	s.Resize(rng, n)
	d.Clear()

	ch := s.MoveBound(rng, AxisX, EndEnd, 199)
	require.Equal(t, Grew, ch.Kind)
	assert.Equal(t, uint32(99), ch.OldSpan)
	assert.Equal(t, uint32(199), ch.NewSpan)
	assert.Equal(t, ch.Relocated, d.Len())
	requireInside(t, s)

	var upper int
	for i := 0; i < s.Len(); i++ {
		x, _ := s.Point(i)
		if x >= 100 {
			upper++
			assert.True(t, d.Contains(uint32(i)))
		}
	}
	// p = 100/200; every relocated point lands in [100, 199].
	assert.Equal(t, ch.Relocated, upper)
	assert.InDelta(t, 0.5, float64(upper)/n, 0.02)
}

func TestGrowDownwardBandExcludesOldBound(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	s, d := newStore(Axis{10, 20}, Axis{0, 0}, 1000)
	s.Resize(rng, 1000)
	d.Clear()

	ch := s.MoveBound(rng, AxisX, EndStart, 0)
	require.Equal(t, Grew, ch.Kind)
	for i := 0; i < s.Len(); i++ {
		if d.Contains(uint32(i)) {
			x, _ := s.Point(i)
			assert.GreaterOrEqual(t, x, coord.Coord(0))
			assert.LessOrEqual(t, x, coord.Coord(9))
		}
	}
}

func TestEqualSpanIsNoop(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s, d := newStore(Axis{0, 100}, Axis{0, 100}, 100)
	s.Resize(rng, 100)
	d.Clear()

	ch := s.MoveBound(rng, AxisX, EndEnd, 100)
	assert.Equal(t, Unchanged, ch.Kind)
	assert.Zero(t, d.Len())
}

func TestCrossingMoveRescans(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	s, d := newStore(Axis{0, 100}, Axis{0, 100}, 500)
	s.Resize(rng, 500)
	d.Clear()

	// Same span, opposite side of the fixed start.
	ch := s.MoveBound(rng, AxisX, EndEnd, -100)
	assert.Equal(t, Crossed, ch.Kind)
	requireInside(t, s)
	assert.Equal(t, ch.Relocated, d.Len())

	x, _ := s.Bounds()
	assert.Equal(t, coord.Coord(-100), x.Lo())
	assert.Equal(t, coord.Coord(0), x.Hi())
}

func TestFullDomainGrowth(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	s, _ := newStore(Axis{0, 0}, Axis{0, 0}, 64)
	s.Resize(rng, 64)

	s.MoveBound(rng, AxisX, EndEnd, coord.Max)
	s.MoveBound(rng, AxisX, EndStart, coord.Min)
	requireInside(t, s)
	x, _ := s.Bounds()
	assert.Equal(t, uint32(1<<32-1), x.Span())
}

func TestSynthesize(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	s, d := newStore(Axis{0, 10}, Axis{0, 10}, 2)

	idx, ok := s.Synthesize(rng)
	require.True(t, ok)
	assert.Equal(t, uint32(0), idx)
	idx, ok = s.Synthesize(rng)
	require.True(t, ok)
	assert.Equal(t, uint32(1), idx)

	for i := 0; i < 20; i++ {
		idx, ok = s.Synthesize(rng)
		require.True(t, ok)
		assert.Less(t, idx, uint32(2))
	}
	assert.Equal(t, 2, s.Len())
	assert.Zero(t, d.Len())
	requireInside(t, s)

	empty, _ := newStore(FullAxis, FullAxis, 0)
	_, ok = empty.Synthesize(rng)
	assert.False(t, ok)
}
