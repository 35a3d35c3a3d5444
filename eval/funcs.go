package eval

import (
	"math"

	"github.com/pthm-cable/fieldscan/coord"
)

// Atan2 is the angle of (x, y) computed in float64 and rounded.
func Atan2(x, y coord.Coord) float32 {
	return float32(math.Atan2(y.Float64(), x.Float64()))
}

// Atan2Approx is the angle of (x, y) from a float32 polynomial.
func Atan2Approx(x, y coord.Coord) float32 {
	return fastAtan2(y.Float32(), x.Float32())
}

// Atan2Error is the absolute difference between Atan2Approx and Atan2.
func Atan2Error(x, y coord.Coord) float32 {
	return absf(Atan2Approx(x, y) - Atan2(x, y))
}

// Hypot is the distance of (x, y) from the origin.
func Hypot(x, y coord.Coord) float32 {
	return float32(math.Hypot(x.Float64(), y.Float64()))
}

// AtanPoly is an odd polynomial a + C3*a^3 + C5*a^5 + C7*a^7 + C9*a^9
// approximating atan(a) on [0, 1].
type AtanPoly struct {
	C3, C5, C7, C9 float32
}

// DefaultAtanPoly is the minimax fit used by Atan2Approx. Its error on
// [0, 1] stays below 1.8e-5.
var DefaultAtanPoly = AtanPoly{
	C3: -0.331685275,
	C5: 0.184490979,
	C7: -0.0904505998,
	C9: 0.0230602808,
}

// Atan evaluates the polynomial at a in float32.
func (p AtanPoly) Atan(a float32) float32 {
	s := a * a
	return (((p.C9*s+p.C7)*s+p.C5)*s+p.C3)*s*a + a
}

// Atan2 approximates atan2(y, x) by reducing to [0, 1] and evaluating p.
// Inputs must be finite. Signed zeros follow math.Atan2: the sign of y
// picks the half plane, so atan2(-0, -1) is -Pi.
func (p AtanPoly) Atan2(y, x float32) float32 {
	ax, ay := absf(x), absf(y)
	var r float32
	if ax != 0 || ay != 0 {
		r = p.Atan(min(ax, ay) / max(ax, ay))
	}
	if ay > ax {
		r = math.Pi/2 - r
	}
	if math.Signbit(float64(x)) {
		r = math.Pi - r
	}
	if math.Signbit(float64(y)) {
		r = -r
	}
	return r
}

// fastAtan2 approximates atan2(y, x) without leaving float32.
// Accurate to ~2e-5 rad for finite inputs.
func fastAtan2(y, x float32) float32 {
	return DefaultAtanPoly.Atan2(y, x)
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
