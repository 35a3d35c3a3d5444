// Package coord provides an order-preserving integer encoding of float32 values.
//
// A Coord is the IEEE-754 bit pattern of a float32, rearranged so that plain
// signed integer comparison agrees with numeric order on the decoded floats.
// Region bounds and point coordinates are stored as Coords so that range
// checks and uniform sampling can be done with integer arithmetic.
package coord

import (
	"fmt"
	"math"
	"strings"
)

// Coord is an order-preserving encoding of a float32.
//
// Ordering: -NaN < -Inf < negative finite < -0 < +0 < positive finite < +Inf < +NaN.
type Coord int32

// Bounds of the encoded domain.
const (
	Min Coord = math.MinInt32
	Max Coord = math.MaxInt32
)

const (
	signBit  = math.MinInt32
	sigBits  = 23
	sigMask  = 1<<sigBits - 1
	quietBit = 1 << (sigBits - 1)
	expMax   = 0xff
	expBias  = 127
)

// involution maps between raw float bits and the ordered layout. Negative
// values keep their sign bit and have every other bit flipped; non-negative
// values are unchanged. Applying it twice yields the input.
func involution(i int32) int32 {
	return i ^ (i >> 31) ^ (i & signBit)
}

// FromFloat32 encodes f.
func FromFloat32(f float32) Coord {
	return Coord(involution(int32(math.Float32bits(f))))
}

// FromFloat64 encodes f after rounding it to float32.
func FromFloat64(f float64) Coord {
	return FromFloat32(float32(f))
}

// Float32 decodes c. FromFloat32(c.Float32()) == c for every Coord.
func (c Coord) Float32() float32 {
	return math.Float32frombits(uint32(involution(int32(c))))
}

// Float64 decodes c and widens it to float64.
func (c Coord) Float64() float64 {
	return float64(c.Float32())
}

// AbsDiff returns |a-b| without overflow.
func AbsDiff(a, b Coord) uint32 {
	if a > b {
		return uint32(int64(a) - int64(b))
	}
	return uint32(int64(b) - int64(a))
}

// String renders c as a signed hexadecimal float, e.g. "+0x1.000000p0".
// Zero prints as "+0x0.000000", infinities as "+Inf"/"-Inf", and NaNs as
// "qNaN"/"sNaN" followed by the low payload bits.
func (c Coord) String() string {
	var b strings.Builder
	s := int32(c)
	if s < 0 {
		b.WriteByte('-')
	} else {
		b.WriteByte('+')
	}
	// magnitude bits, sign cleared
	s ^= s >> 31

	exp := s >> sigBits
	sig := s & sigMask

	switch {
	case s == 0:
		b.WriteString("0x0.000000")
	case exp == expMax && sig == 0:
		b.WriteString("Inf")
	case exp == expMax:
		kind := byte('s')
		if sig&quietBit != 0 {
			kind = 'q'
		}
		b.WriteByte(kind)
		fmt.Fprintf(&b, "NaN(0x%06x)", s&(quietBit-1))
	default:
		lead := min(exp, 1)
		e := max(exp-expBias, 1-expBias)
		fmt.Fprintf(&b, "0x%d.%06xp%d", lead, 2*sig, e)
	}
	return b.String()
}
