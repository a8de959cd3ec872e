// Package dual provides the numeric value types used by the rate-function engine.
//
// 🚀 What is a dual number?
//
//	A dual number carries a scalar value together with the gradient of that
//	value with respect to a fixed, ordered set of model parameters. Every
//	arithmetic and transcendental operation propagates the gradient through
//	the chain rule, so the gradient of a long computation comes out "for free".
//
// ✨ Two interchangeable types:
//   - Float — a plain float64, no gradient tracking, no allocation.
//   - Dual  — value + gradient vector ([]float64), gradients via gonum/floats.
//
// Both satisfy Number[T], so numeric code is written once as a generic
// function or type over T Number[T] and instantiated with the type the
// caller needs. The choice is made at compile time, never at runtime.
//
// ⚙️ Usage:
//
//	x := dual.Variable(2.0, 0, 2)  // d/dx0
//	y := dual.Variable(3.0, 1, 2)  // d/dx1
//	z := x.Mul(y).Exp()            // exp(x*y)
//	fmt.Println(z.Value(), z.Grad())
//
// Constants:
//
//	A Dual with an empty gradient is a constant and broadcasts against any
//	gradient length. Gradient slices are never mutated after creation, so
//	values may be shared freely between goroutines once built.
package dual
