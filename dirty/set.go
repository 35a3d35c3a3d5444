// Package dirty tracks point indices whose coordinates changed and whose
// dependent values must be recomputed.
//
// The set is ordered: it always drains smallest index first, so a consumer
// that works through it a few entries per tick sweeps the index space in one
// direction. Storage is a B-tree keyed by index, so every operation costs
// time proportional to the number of entries touched (times a log factor),
// never to the size of the index domain.
package dirty

import "github.com/google/btree"

// degree of the underlying B-tree.
const degree = 32

// Set is an ordered set of pending-recompute indices.
// The zero value is not usable; call New.
type Set struct {
	tree *btree.BTreeG[uint32]
}

// New creates an empty set.
func New() *Set {
	return &Set{tree: btree.NewOrderedG[uint32](degree)}
}

// Len returns the number of pending indices.
func (s *Set) Len() int {
	return s.tree.Len()
}

// Contains reports whether idx is pending.
func (s *Set) Contains(idx uint32) bool {
	return s.tree.Has(idx)
}

// Insert marks idx dirty. Inserting an index already present is a no-op.
func (s *Set) Insert(idx uint32) {
	s.tree.ReplaceOrInsert(idx)
}

// InsertRange marks every index in [lo, hi) dirty.
func (s *Set) InsertRange(lo, hi uint32) {
	for i := lo; i < hi; i++ {
		s.tree.ReplaceOrInsert(i)
	}
}

// PopMin removes and returns the smallest pending index.
func (s *Set) PopMin() (uint32, bool) {
	return s.tree.DeleteMin()
}

// TakeUpTo removes and returns the k smallest pending indices in ascending order.
func (s *Set) TakeUpTo(k int) []uint32 {
	n := min(k, s.tree.Len())
	if n <= 0 {
		return nil
	}
	out := make([]uint32, 0, n)
	for len(out) < n {
		idx, ok := s.tree.DeleteMin()
		if !ok {
			break
		}
		out = append(out, idx)
	}
	return out
}

// EvictFrom discards every pending index >= threshold and returns how many
// were dropped. Used when the point set is truncated.
func (s *Set) EvictFrom(threshold uint32) int {
	var doomed []uint32
	s.tree.AscendGreaterOrEqual(threshold, func(idx uint32) bool {
		doomed = append(doomed, idx)
		return true
	})
	for _, idx := range doomed {
		s.tree.Delete(idx)
	}
	return len(doomed)
}

// Ascend calls fn for each pending index in ascending order until fn returns false.
func (s *Set) Ascend(fn func(idx uint32) bool) {
	s.tree.Ascend(fn)
}

// Clear drops every pending index.
func (s *Set) Clear() {
	s.tree.Clear(false)
}
