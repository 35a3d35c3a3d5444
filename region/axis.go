package region

import (
	"fmt"

	"github.com/pthm-cable/fieldscan/coord"
)

// AxisID selects the X or Y axis.
type AxisID uint8

const (
	AxisX AxisID = iota
	AxisY
)

func (a AxisID) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return fmt.Sprintf("axis(%d)", uint8(a))
	}
}

// End selects one endpoint of an axis range.
type End uint8

const (
	EndStart End = iota
	EndEnd
)

func (e End) String() string {
	switch e {
	case EndStart:
		return "start"
	case EndEnd:
		return "end"
	default:
		return fmt.Sprintf("end(%d)", uint8(e))
	}
}

// Axis is an inclusive coordinate range. Start and End are set independently
// and may appear in either order; the range covers everything between them.
type Axis struct {
	Start coord.Coord
	End   coord.Coord
}

// FullAxis covers the whole Coord domain.
var FullAxis = Axis{Start: coord.Min, End: coord.Max}

// Span is |Start-End|: the number of values in the range minus one.
func (a Axis) Span() uint32 {
	return coord.AbsDiff(a.Start, a.End)
}

// Lo returns the smaller endpoint.
func (a Axis) Lo() coord.Coord {
	return min(a.Start, a.End)
}

// Hi returns the larger endpoint.
func (a Axis) Hi() coord.Coord {
	return max(a.Start, a.End)
}

// Contains reports whether c lies in the inclusive range.
func (a Axis) Contains(c coord.Coord) bool {
	return c >= a.Lo() && c <= a.Hi()
}

// get returns the chosen endpoint.
func (a Axis) get(e End) coord.Coord {
	if e == EndStart {
		return a.Start
	}
	return a.End
}

// with returns a copy with the chosen endpoint replaced.
func (a Axis) with(e End, v coord.Coord) Axis {
	if e == EndStart {
		a.Start = v
	} else {
		a.End = v
	}
	return a
}

func (a Axis) String() string {
	return fmt.Sprintf("[%s, %s]", a.Start, a.End)
}
