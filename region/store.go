// Package region owns the sampled point set and the rectangle it is confined to.
//
// Points live in two parallel coordinate arrays. A point is only ever
// overwritten in place, appended, or dropped from the tail; its index is its
// identity. Every change to a point's coordinates marks its index in the
// shared dirty set so that downstream values get recomputed.
package region

import (
	"github.com/pthm-cable/fieldscan/coord"
	"github.com/pthm-cable/fieldscan/dirty"
	"github.com/pthm-cable/fieldscan/sampler"
)

// HardMaxLen is the largest number of points a Store will ever hold.
const HardMaxLen = 1 << 20

// placeholder fills a freshly appended slot until it is sampled.
const placeholder = coord.Max

// ChangeKind classifies what a bound move did to the point set.
type ChangeKind uint8

const (
	Unchanged ChangeKind = iota
	Shrunk
	Grew
	Crossed
)

func (k ChangeKind) String() string {
	switch k {
	case Shrunk:
		return "shrunk"
	case Grew:
		return "grew"
	case Crossed:
		return "crossed"
	default:
		return "unchanged"
	}
}

// Change summarizes a MoveBound call.
type Change struct {
	Kind      ChangeKind
	OldSpan   uint32
	NewSpan   uint32
	Relocated int // points resampled and marked dirty
}

// Store holds the region rectangle and the point arrays.
type Store struct {
	x, y   Axis
	xs, ys []coord.Coord
	maxLen uint32
	dirty  *dirty.Set
}

// New creates an empty store over the given rectangle. Changed indices are
// recorded in d. maxLen is clamped to HardMaxLen.
func New(x, y Axis, maxLen uint32, d *dirty.Set) *Store {
	return &Store{
		x:      x,
		y:      y,
		maxLen: min(maxLen, HardMaxLen),
		dirty:  d,
	}
}

// Len returns the number of points.
func (s *Store) Len() int {
	return len(s.xs)
}

// MaxLen returns the current capacity ceiling.
func (s *Store) MaxLen() uint32 {
	return s.maxLen
}

// SetMaxLen changes the capacity ceiling, clamped to HardMaxLen. Existing
// points are kept; the next Resize applies the new ceiling.
func (s *Store) SetMaxLen(n uint32) {
	s.maxLen = min(n, HardMaxLen)
}

// Bounds returns the X and Y ranges.
func (s *Store) Bounds() (x, y Axis) {
	return s.x, s.y
}

// Point returns the coordinates of point i.
func (s *Store) Point(i int) (x, y coord.Coord) {
	return s.xs[i], s.ys[i]
}

func (s *Store) axis(id AxisID) (*Axis, []coord.Coord) {
	if id == AxisX {
		return &s.x, s.xs
	}
	return &s.y, s.ys
}

// MoveBound sets one endpoint of one axis to value and relocates points so
// that the set stays uniformly distributed over the new range.
//
// When the range shrinks, every point now outside it is resampled inside it.
// When the range grows, each point moves into the newly exposed band with the
// probability that a uniform point over the new range would lie there. If the
// endpoint jumps across the fixed endpoint, the old and new ranges share at
// most one value, so the move is treated like a shrink.
func (s *Store) MoveBound(src sampler.Source, id AxisID, end End, value coord.Coord) Change {
	ax, vals := s.axis(id)
	other := ax.get(1 - end)
	old := ax.get(end)
	*ax = ax.with(end, value)

	ch := Change{
		OldSpan: coord.AbsDiff(old, other),
		NewSpan: coord.AbsDiff(value, other),
	}

	crossed := (old < other && value > other) || (old > other && value < other)
	switch {
	case crossed:
		ch.Kind = Crossed
		ch.Relocated = s.invalidateOutside(src, vals, *ax)
	case ch.NewSpan < ch.OldSpan:
		ch.Kind = Shrunk
		ch.Relocated = s.invalidateOutside(src, vals, *ax)
	case ch.NewSpan > ch.OldSpan:
		ch.Kind = Grew
		ch.Relocated = s.spreadInto(src, vals, old, value, sampler.GrowthProbability(ch.OldSpan, ch.NewSpan))
	}
	return ch
}

// invalidateOutside resamples every value outside ax. This is a full scan:
// after a shrink any point may have become invalid.
func (s *Store) invalidateOutside(src sampler.Source, vals []coord.Coord, ax Axis) int {
	lo, hi := ax.Lo(), ax.Hi()
	var n int
	for i, v := range vals {
		if v < lo || v > hi {
			vals[i] = sampler.Uniform(src, lo, hi)
			s.dirty.Insert(uint32(i))
			n++
		}
	}
	return n
}

// spreadInto moves a random subset of values into the band gained when an
// endpoint moved from old to moved, away from the fixed endpoint. The old
// endpoint was already reachable, so the band excludes it.
func (s *Store) spreadInto(src sampler.Source, vals []coord.Coord, old, moved coord.Coord, p float64) int {
	lo, hi := moved, old-1
	if moved > old {
		lo, hi = old+1, moved
	}
	return sampler.Select(src, len(vals), p, func(i int) {
		vals[i] = sampler.Uniform(src, lo, hi)
		s.dirty.Insert(uint32(i))
	})
}

// Resize grows or truncates the point set to n (clamped to MaxLen). New
// points are sampled uniformly over the region and marked dirty; dirty marks
// past the new end are dropped on truncation. It returns the resulting length.
func (s *Store) Resize(src sampler.Source, n uint32) int {
	n = min(n, s.maxLen)
	cur := uint32(len(s.xs))
	switch {
	case n > cur:
		s.dirty.InsertRange(cur, n)
		for i := cur; i < n; i++ {
			s.xs = append(s.xs, sampler.Uniform(src, s.x.Start, s.x.End))
			s.ys = append(s.ys, sampler.Uniform(src, s.y.Start, s.y.End))
		}
	case n < cur:
		s.dirty.EvictFrom(n)
		s.xs = s.xs[:n]
		s.ys = s.ys[:n]
	}
	return len(s.xs)
}

// Synthesize picks a point to refresh when there is no pending work: a new
// point appended at the tail while below MaxLen, otherwise a uniformly random
// existing one. The point is resampled over the whole region. It does not mark
// the index dirty; the caller consumes it directly. ok is false when the
// store can hold no points at all.
func (s *Store) Synthesize(src sampler.Source) (idx uint32, ok bool) {
	n := uint32(len(s.xs))
	switch {
	case n < s.maxLen:
		s.xs = append(s.xs, placeholder)
		s.ys = append(s.ys, placeholder)
		idx = n
	case n > 0:
		idx = uint32(src.Int63n(int64(n)))
	default:
		return 0, false
	}
	s.xs[idx] = sampler.Uniform(src, s.x.Start, s.x.End)
	s.ys[idx] = sampler.Uniform(src, s.y.Start, s.y.End)
	return idx, true
}
