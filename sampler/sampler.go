// Package sampler draws random coordinates and random index subsets.
package sampler

import (
	"fmt"
	"math"

	"github.com/pthm-cable/fieldscan/coord"
)

// Source is the randomness the sampler needs. *rand.Rand satisfies it.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// Int63n returns a uniform value in [0, n).
	Int63n(n int64) int64
}

// Uniform returns a Coord drawn uniformly from the inclusive range [lo, hi].
// The endpoints may be given in either order.
func Uniform(src Source, lo, hi coord.Coord) coord.Coord {
	if lo > hi {
		lo, hi = hi, lo
	}
	span := int64(hi) - int64(lo) + 1 // at most 1<<32
	return coord.Coord(int64(lo) + src.Int63n(span))
}

// Select visits a random subset of [0, m) in which every index is included
// independently with probability p, and returns the number of indices visited.
// Indices are visited in ascending order.
//
// Rather than flipping a coin per index, Select jumps straight to the next
// included index. The gap k before the next success of a Bernoulli(p) process
// satisfies P(gap >= k) = (1-p)^k, so inverting that tail with a uniform U gives
// k = floor(ln(1-U) / ln(1-p)). The expected number of draws is p*m + 1.
//
// Select panics unless 0 < p <= 1.
func Select(src Source, m int, p float64, visit func(idx int)) int {
	if !(p > 0 && p <= 1) {
		panic(fmt.Sprintf("sampler: inclusion probability %v outside (0, 1]", p))
	}
	// ln(1-p) is -Inf at p == 1, making every skip zero.
	inv := 1 / math.Log1p(-p)

	var n int
	for idx := 0; idx < m; idx++ {
		skip := math.Log1p(-src.Float64()) * inv
		if skip >= float64(m-idx) {
			break
		}
		idx += int(skip)
		visit(idx)
		n++
	}
	return n
}

// GrowthProbability is the chance that a point uniformly distributed over a
// range of newSpan+1 values lands among the newSpan-oldSpan values gained when
// the range grew from oldSpan. It panics unless newSpan > oldSpan.
func GrowthProbability(oldSpan, newSpan uint32) float64 {
	if newSpan <= oldSpan {
		panic(fmt.Sprintf("sampler: span did not grow (%d -> %d)", oldSpan, newSpan))
	}
	return float64(newSpan-oldSpan) / (float64(newSpan) + 1)
}
