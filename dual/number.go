// SPDX-License-Identifier: MIT

package dual

import "math"

// Number is the arithmetic contract shared by Float and Dual.
//
// Every method returns a new value; receivers are never modified.
// Comparisons are done on Value().
type Number[T any] interface {
	// Value returns the scalar part.
	Value() float64
	// Grad returns the gradient part (nil for constants and for Float).
	Grad() []float64

	// Const returns a constant (zero gradient) with value v.
	Const(v float64) T
	// Seed returns an independent variable with value v and unit gradient
	// at index i of an n-vector. Float ignores i and n.
	Seed(v float64, i, n int) T
	// Chain returns a value v whose gradient is d·∇x, where x is the receiver.
	Chain(v, d float64) T

	Add(y T) T
	Sub(y T) T
	Mul(y T) T
	Div(y T) T
	Neg() T
	Scale(c float64) T
	AddConst(c float64) T

	Exp() T
	Expm1() T
	Log() T
	Log1p() T
	Abs() T
}

// Tracking reports whether T carries gradients.
func Tracking[T Number[T]]() bool {
	var z T

	return len(z.Seed(0, 0, 1).Grad()) == 1
}

// Min returns the operand with the smaller value.
func Min[T Number[T]](x, y T) T {
	if y.Value() < x.Value() {
		return y
	}

	return x
}

// IsNaN reports whether the value of x is NaN.
func IsNaN[T Number[T]](x T) bool {
	return math.IsNaN(x.Value())
}

// IsFinite reports whether the value of x is neither NaN nor ±Inf.
func IsFinite[T Number[T]](x T) bool {
	v := x.Value()

	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Sum adds all xs; the empty sum is the zero constant.
func Sum[T Number[T]](xs []T) T {
	var acc T
	acc = acc.Const(0)
	for _, x := range xs {
		acc = acc.Add(x)
	}

	return acc
}
