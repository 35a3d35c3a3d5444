package engine

import (
	"log/slog"

	"github.com/pthm-cable/fieldscan/coord"
	"github.com/pthm-cable/fieldscan/region"
)

// Request is a region or length change. Requests are applied one at a time,
// each fully, in submission order.
type Request interface {
	apply(e *Engine)
}

// MoveBound moves one endpoint of one axis.
type MoveBound struct {
	Axis  region.AxisID
	End   region.End
	Value coord.Coord
}

func (r MoveBound) apply(e *Engine) {
	ch := e.store.MoveBound(e.rng, r.Axis, r.End, r.Value)
	if ch.Kind == region.Unchanged {
		return
	}
	slog.Debug("bound moved",
		"axis", r.Axis.String(),
		"end", r.End.String(),
		"value", r.Value.String(),
		"change", ch.Kind.String(),
		"old_span", ch.OldSpan,
		"new_span", ch.NewSpan,
		"relocated", ch.Relocated,
	)
}

// SetLen asks for N points, clamped to the current maximum length.
type SetLen struct {
	N uint32
}

func (r SetLen) apply(e *Engine) {
	before := e.store.Len()
	after := e.store.Resize(e.rng, r.N)
	if before != after {
		slog.Debug("length changed", "from", before, "to", after, "requested", r.N)
	}
}
