// Package rate implements the piecewise-exponential coalescent rate function
// and the closed-form integrals a coalescent HMM needs from it.
//
// 🚀 What is it?
//
//	The coalescence rate η(t) is piecewise exponential in time. Piece k is
//	described by a population size a at its start, b at its end and a
//	duration s; the rate moves from 1/a to 1/b exponentially. The last piece
//	is flat and reaches a finite horizon standing in for +∞.
//
// ✨ Key features:
//   - Curve[T] is generic over dual.Float (values only) and dual.Dual
//     (values plus gradients with respect to chosen parameters).
//   - Hidden-state times are spliced in as breakpoints without changing
//     the function, so interval sums line up with piece boundaries.
//   - Evaluators for η, R(t) = ∫_0^t η and R⁻¹, pointwise or batched.
//   - RIntegral, DoubleIntegralBelow and DoubleIntegralAbove produce the
//     moment matrices of the transition model in closed form using
//     exponential-integral differences.
//   - A total-variation regularizer on 1/η for smoothing.
//
// ⚙️ Usage:
//
//	params := [][]float64{{1, 2}, {1, 2}, {0.5, 1}}
//	c, err := rate.New[dual.Dual](params,
//	    rate.WithHiddenStates([]float64{0, 0.25, 1, math.Inf(1)}))
//	if err != nil { ... }
//	r := c.R().Eval(0.75)            // R(0.75) with gradient
//	below, err := c.BelowMatrix(4)   // K×5
//	above, err := c.AboveMatrices(4) // one 4×4 per hidden-state interval
//
// Numeric policy:
//
//	Slopes with |adb| < SlopeSnap are treated as exactly flat. Kernel
//	results that are NaN, Inf or below −1e−10 are reported as ErrNaN or
//	ErrNegative; they are never clamped.
//
// Concurrency:
//
//	A Curve never changes after New returns. Any number of goroutines may
//	evaluate and build matrices from it concurrently.
package rate
