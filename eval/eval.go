// Package eval defines the scalar functions evaluated at sampled points.
//
// An evaluator maps a point (x, y) to one float32. The engine invokes every
// registered evaluator once per tick over the whole batch of changed points;
// each must produce exactly one output per input pair, in input order.
package eval

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pthm-cable/fieldscan/coord"
)

// ErrUnknown is returned when an evaluator name is not registered.
var ErrUnknown = errors.New("unknown evaluator")

// Func computes the dependent value at one point.
type Func func(x, y coord.Coord) float32

// Evaluator is a named, numbered Func.
type Evaluator struct {
	ID   uint32
	Name string
	Fn   Func
}

// Batch evaluates e at every (xs[k], ys[k]) and writes the result to out[k].
// The three slices must have equal length.
func (e Evaluator) Batch(xs, ys []coord.Coord, out []float32) {
	n := len(xs)
	if len(ys) != n || len(out) != n {
		panic(fmt.Sprintf("eval: %s batch length mismatch: %d xs, %d ys, %d out", e.Name, n, len(ys), len(out)))
	}
	for k := range n {
		out[k] = e.Fn(xs[k], ys[k])
	}
}

var builtins = map[string]Func{
	"atan2":        Atan2,
	"atan2_approx": Atan2Approx,
	"atan2_error":  Atan2Error,
	"hypot":        Hypot,
}

// Names lists the built-in evaluators in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the built-in Func registered as name.
func Lookup(name string) (Func, error) {
	fn, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return fn, nil
}

// Resolve builds evaluators for names, numbered by position.
func Resolve(names []string) ([]Evaluator, error) {
	out := make([]Evaluator, 0, len(names))
	for i, name := range names {
		fn, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Evaluator{ID: uint32(i), Name: name, Fn: fn})
	}
	return out, nil
}
