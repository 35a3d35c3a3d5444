package dirty

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertIdempotent(t *testing.T) {
	s := New()
	s.Insert(3)
	s.Insert(3)
	s.Insert(1)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(3))
	assert.False(t, s.Contains(2))
}

func TestTakeUpToAscending(t *testing.T) {
	s := New()
	for _, i := range []uint32{9, 2, 7, 4, 2} {
		s.Insert(i)
	}
	assert.Equal(t, []uint32{2, 4}, s.TakeUpTo(2))
	assert.Equal(t, []uint32{7, 9}, s.TakeUpTo(10))
	assert.Nil(t, s.TakeUpTo(1))
	assert.Nil(t, New().TakeUpTo(0))
}

func TestInsertRangeHalfOpen(t *testing.T) {
	s := New()
	s.InsertRange(5, 8)
	assert.Equal(t, []uint32{5, 6, 7}, s.TakeUpTo(10))

	s.InsertRange(4, 4)
	assert.Equal(t, 0, s.Len())
}

func TestEvictFrom(t *testing.T) {
	s := New()
	s.InsertRange(0, 10)
	s.Insert(1 << 20)

	assert.Equal(t, 6, s.EvictFrom(5))
	assert.Equal(t, []uint32{0, 1, 2, 3, 4}, s.TakeUpTo(100))
	assert.Equal(t, 0, s.EvictFrom(0))
}

func TestPopMin(t *testing.T) {
	s := New()
	_, ok := s.PopMin()
	assert.False(t, ok)

	s.Insert(42)
	s.Insert(17)
	idx, ok := s.PopMin()
	require.True(t, ok)
	assert.Equal(t, uint32(17), idx)
}

// Random inserts and shrinks, then drain one at a time and compare against a
// reference map.
func TestDrainExhaustive(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		s := New()
		ref := make(map[uint32]bool)

		for op := 0; op < 300; op++ {
			switch rng.Intn(4) {
			case 0, 1:
				idx := uint32(rng.Intn(1 << 20))
				s.Insert(idx)
				ref[idx] = true
			case 2:
				lo := uint32(rng.Intn(1 << 20))
				hi := lo + uint32(rng.Intn(20))
				s.InsertRange(lo, hi)
				for i := lo; i < hi; i++ {
					ref[i] = true
				}
			case 3:
				th := uint32(rng.Intn(1 << 20))
				s.EvictFrom(th)
				for i := range ref {
					if i >= th {
						delete(ref, i)
					}
				}
			}
		}

		want := make([]uint32, 0, len(ref))
		for i := range ref {
			want = append(want, i)
		}
		sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })

		var got []uint32
		for s.Len() > 0 {
			batch := s.TakeUpTo(1)
			require.Len(t, batch, 1)
			got = append(got, batch[0])
		}
		if len(want) == 0 {
			assert.Empty(t, got)
			continue
		}
		require.Equal(t, want, got)
	}
}

func TestAscendStops(t *testing.T) {
	s := New()
	s.InsertRange(0, 100)
	var seen int
	s.Ascend(func(uint32) bool {
		seen++
		return seen < 3
	})
	assert.Equal(t, 3, seen)

	s.Clear()
	assert.Equal(t, 0, s.Len())
}
