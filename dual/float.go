// SPDX-License-Identifier: MIT

package dual

import "math"

// Float is a plain float64 satisfying Number. It tracks no gradient.
type Float float64

// Value returns f as a float64.
func (f Float) Value() float64 { return float64(f) }

// Grad always returns nil.
func (f Float) Grad() []float64 { return nil }

// Const returns Float(v).
func (Float) Const(v float64) Float { return Float(v) }

// Seed returns Float(v); the gradient slot is ignored.
func (Float) Seed(v float64, _, _ int) Float { return Float(v) }

// Chain returns Float(v).
func (Float) Chain(v, _ float64) Float { return Float(v) }

func (f Float) Add(y Float) Float { return f + y }
func (f Float) Sub(y Float) Float { return f - y }
func (f Float) Mul(y Float) Float { return f * y }
func (f Float) Div(y Float) Float { return f / y }
func (f Float) Neg() Float { return -f }
func (f Float) Scale(c float64) Float { return f * Float(c) }
func (f Float) AddConst(c float64) Float { return f + Float(c) }
func (f Float) Exp() Float { return Float(math.Exp(float64(f))) }
func (f Float) Expm1() Float { return Float(math.Expm1(float64(f))) }
func (f Float) Log() Float { return Float(math.Log(float64(f))) }
func (f Float) Log1p() Float { return Float(math.Log1p(float64(f))) }
func (f Float) Abs() Float { return Float(math.Abs(float64(f))) }
