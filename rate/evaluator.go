// SPDX-License-Identifier: MIT

package rate

import (
	"fmt"

	"github.com/katalvlaran/coalrate/dual"
)

// EvalKind selects which function of the curve an Evaluator computes.
type EvalKind int

const (
	// EvalRate computes η(t).
	EvalRate EvalKind = iota
	// EvalCumulative computes R(t) = ∫_0^t η.
	EvalCumulative
	// EvalInverse computes R⁻¹(y).
	EvalInverse
)

// String returns "eta", "R" or "Rinv".
func (k EvalKind) String() string {
	switch k {
	case EvalRate:
		return "eta"
	case EvalCumulative:
		return "R"
	case EvalInverse:
		return "Rinv"
	}

	return fmt.Sprintf("EvalKind(%d)", int(k))
}

// Evaluator computes one of η, R or R⁻¹ on a Curve. It shares the curve's
// read-only arrays and is safe for concurrent use.
type Evaluator[T dual.Number[T]] struct {
	kind EvalKind
	ada  []T
	adb  []T
	ts   []T
	rrng []T
}

func newEvaluator[T dual.Number[T]](kind EvalKind, c *Curve[T]) *Evaluator[T] {
	return &Evaluator[T]{kind: kind, ada: c.ada, adb: c.adb, ts: c.ts, rrng: c.rrng}
}

// Kind returns the function this evaluator computes.
func (e *Evaluator[T]) Kind() EvalKind { return e.kind }

// axis is the breakpoint list searched for the piece index: ts for η and R,
// Rrng for R⁻¹.
func (e *Evaluator[T]) axis() []T {
	if e.kind == EvalInverse {
		return e.rrng
	}

	return e.ts
}

// At evaluates at a single point. Points beyond the last breakpoint fall in
// the final flat piece.
// Complexity: O(log K).
func (e *Evaluator[T]) At(x T) T {
	return e.piece(x, insertionPoint(e.axis(), x.Value()))
}

// Eval is At for a constant argument.
func (e *Evaluator[T]) Eval(x float64) T {
	var zero T

	return e.At(zero.Const(x))
}

// Batch evaluates an ascending sequence with one forward pass over the pieces.
//
// Returns ErrUnsortedQuery when xs is not ascending by value.
// Complexity: O(len(xs) + K).
func (e *Evaluator[T]) Batch(xs []T) ([]T, error) {
	if len(xs) == 0 {
		return nil, nil
	}
	for i := 1; i < len(xs); i++ {
		if xs[i].Value() < xs[i-1].Value() {
			return nil, fmt.Errorf("%s: index %d: %w", opBatch, i, ErrUnsortedQuery)
		}
	}
	axis := e.axis()
	last := len(axis) - 2
	ip := insertionPoint(axis, xs[0].Value())
	out := make([]T, len(xs))
	for i, x := range xs {
		for ip < last && x.Value() >= axis[ip+1].Value() {
			ip++
		}
		out[i] = e.piece(x, ip)
	}

	return out, nil
}

// piece evaluates the closed form of piece ip at x.
func (e *Evaluator[T]) piece(x T, ip int) T {
	ada, adb := e.ada[ip], e.adb[ip]
	switch e.kind {
	case EvalRate:
		return ada.Mul(adb.Mul(x.Sub(e.ts[ip])).Exp())
	case EvalCumulative:
		dt := x.Sub(e.ts[ip])
		if adb.Value() == 0 {
			return e.rrng[ip].Add(ada.Mul(dt))
		}

		return e.rrng[ip].Add(ada.Div(adb).Mul(adb.Mul(dt).Expm1()))
	default:
		dy := x.Sub(e.rrng[ip])
		if adb.Value() == 0 {
			return dy.Div(ada).Add(e.ts[ip])
		}

		return dy.Mul(adb).Div(ada).Log1p().Div(adb).Add(e.ts[ip])
	}
}
