// SPDX-License-Identifier: MIT

package dual

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Dual is a value paired with its gradient.
// The zero Dual is the constant 0.
type Dual struct {
	v float64   // scalar part
	g []float64 // gradient; nil or empty means "all zeros"
}

// New builds a Dual from a value and a gradient. The gradient is copied.
func New(v float64, grad []float64) Dual {
	if len(grad) == 0 {
		return Dual{v: v}
	}
	g := make([]float64, len(grad))
	copy(g, grad)

	return Dual{v: v, g: g}
}

// Constant returns a Dual with value v and zero gradient.
func Constant(v float64) Dual { return Dual{v: v} }

// Variable returns a Dual with value v and the i-th unit vector of length n
// as gradient.
func Variable(v float64, i, n int) Dual {
	g := make([]float64, n)
	g[i] = 1

	return Dual{v: v, g: g}
}

// Value returns the scalar part.
func (d Dual) Value() float64 { return d.v }

// Grad returns the gradient. The slice must not be modified.
func (d Dual) Grad() []float64 { return d.g }

// Derivative returns ∂d/∂x_i, zero when i lies outside the stored gradient.
func (d Dual) Derivative(i int) float64 {
	if i < 0 || i >= len(d.g) {
		return 0
	}

	return d.g[i]
}

// Const returns a constant Dual.
func (Dual) Const(v float64) Dual { return Dual{v: v} }

// Seed returns Variable(v, i, n).
func (Dual) Seed(v float64, i, n int) Dual { return Variable(v, i, n) }

// Chain returns a Dual with value v and gradient dv·∇d.
func (d Dual) Chain(v, dv float64) Dual {
	if len(d.g) == 0 {
		return Dual{v: v}
	}

	return Dual{v: v, g: floats.ScaleTo(make([]float64, len(d.g)), dv, d.g)}
}

// combine returns ca·ga + cb·gb, treating an empty slice as zeros.
// Gradients of different non-zero lengths are a programmer error and panic.
func combine(ca float64, ga []float64, cb float64, gb []float64) []float64 {
	switch {
	case len(ga) == 0 && len(gb) == 0:
		return nil
	case len(gb) == 0:
		return floats.ScaleTo(make([]float64, len(ga)), ca, ga)
	case len(ga) == 0:
		return floats.ScaleTo(make([]float64, len(gb)), cb, gb)
	}
	if len(ga) != len(gb) {
		panic(fmt.Sprintf("dual: gradient length mismatch %d != %d", len(ga), len(gb)))
	}
	out := floats.ScaleTo(make([]float64, len(ga)), ca, ga)
	floats.AddScaled(out, cb, gb)

	return out
}

// Add returns d + y.
func (d Dual) Add(y Dual) Dual {
	return Dual{v: d.v + y.v, g: combine(1, d.g, 1, y.g)}
}

// Sub returns d − y.
func (d Dual) Sub(y Dual) Dual {
	return Dual{v: d.v - y.v, g: combine(1, d.g, -1, y.g)}
}

// Mul returns d·y (product rule).
func (d Dual) Mul(y Dual) Dual {
	return Dual{v: d.v * y.v, g: combine(y.v, d.g, d.v, y.g)}
}

// Div returns d / y (quotient rule).
func (d Dual) Div(y Dual) Dual {
	q := d.v / y.v

	return Dual{v: q, g: combine(1/y.v, d.g, -q/y.v, y.g)}
}

// Neg returns −d.
func (d Dual) Neg() Dual { return d.Chain(-d.v, -1) }

// Scale returns c·d.
func (d Dual) Scale(c float64) Dual { return d.Chain(c*d.v, c) }

// AddConst returns d + c. The gradient is shared, never copied.
func (d Dual) AddConst(c float64) Dual { return Dual{v: d.v + c, g: d.g} }

// Exp returns e^d.
func (d Dual) Exp() Dual {
	e := math.Exp(d.v)

	return d.Chain(e, e)
}

// Expm1 returns e^d − 1.
func (d Dual) Expm1() Dual { return d.Chain(math.Expm1(d.v), math.Exp(d.v)) }

// Log returns ln d.
func (d Dual) Log() Dual { return d.Chain(math.Log(d.v), 1/d.v) }

// Log1p returns ln(1 + d).
func (d Dual) Log1p() Dual { return d.Chain(math.Log1p(d.v), 1/(1+d.v)) }

// Abs returns |d|. The derivative at 0 is taken as 0.
func (d Dual) Abs() Dual {
	switch {
	case d.v > 0:
		return d
	case d.v < 0:
		return d.Neg()
	}

	return d.Chain(0, 0)
}

// String implements fmt.Stringer as "value[g0 g1 ...]".
func (d Dual) String() string {
	return fmt.Sprintf("%g%v", d.v, d.g)
}
