package scene

import (
	"strings"

	"github.com/pthm-cable/fieldscan/coord"
)

// Bit is the state of one position in a Prefix.
type Bit uint8

const (
	Free Bit = iota
	One
	Zero
)

// Prefix selects a range of coordinates by fixing their leading bits, most
// significant first. Bit 0 is the sign: One picks the non-negative half of
// the domain, Zero the negative half. Only the leading run of fixed bits
// counts; positions after the first Free one are ignored.
//
// Because coordinates are ordered like the floats they encode, every prefix
// selects a contiguous float interval, such as all of [1, 2).
type Prefix struct {
	bits [32]Bit
}

// Cycle steps position i through Free, One, Zero.
func (p *Prefix) Cycle(i int) {
	p.bits[i] = (p.bits[i] + 1) % 3
}

// Set fixes position i to b.
func (p *Prefix) Set(i int, b Bit) {
	p.bits[i] = b
}

// Bit returns the state of position i.
func (p *Prefix) Bit(i int) Bit {
	return p.bits[i]
}

// Depth returns the length of the leading run of fixed bits.
func (p *Prefix) Depth() int {
	for i, b := range p.bits {
		if b == Free {
			return i
		}
	}
	return len(p.bits)
}

// Range returns the smallest and largest coordinates matching the prefix.
func (p *Prefix) Range() (lo, hi coord.Coord) {
	var ones, zeros uint32
	for i := range p.Depth() {
		mask := uint32(1) << (31 - i)
		if p.bits[i] == One {
			ones |= mask
		} else {
			zeros |= mask
		}
	}
	// The bits are offset binary: flipping the top bit gives two's complement.
	lo = coord.Coord(int32(ones ^ 1<<31))
	hi = coord.Coord(int32(^zeros ^ 1<<31))
	return lo, hi
}

// String renders the prefix with the sign as +/- and the rest as 1/0,
// stopping at the first free position.
func (p *Prefix) String() string {
	var b strings.Builder
	for i := range p.Depth() {
		switch {
		case i == 0 && p.bits[i] == One:
			b.WriteByte('+')
		case i == 0:
			b.WriteByte('-')
		case p.bits[i] == One:
			b.WriteByte('1')
		default:
			b.WriteByte('0')
		}
	}
	b.WriteByte('*')
	return b.String()
}
