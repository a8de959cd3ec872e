// SPDX-License-Identifier: MIT

package rate

// computeRegularizer returns the total variation of 1/η sampled
// RegularizerSamples times per piece over every piece but the last,
// starting from 1/η(0).
// Complexity: O(K·RegularizerSamples·log K).
func (c *Curve[T]) computeRegularizer() T {
	var zero T
	one := zero.Const(1)
	reg := zero.Const(0)
	last := one.Div(c.eta.At(c.ts[0]))
	for k := 0; k < c.k-1; k++ {
		span := c.ts[k+1].Sub(c.ts[k])
		for i := 1; i <= RegularizerSamples; i++ {
			x := span.Scale(float64(i) / RegularizerSamples).Add(c.ts[k])
			inv := one.Div(c.eta.At(x))
			reg = reg.Add(inv.Sub(last).Abs())
			last = inv
		}
	}

	return reg
}

// Regularizer returns the total-variation penalty of 1/η computed at
// construction. It is 0 for a piecewise-constant curve without jumps.
func (c *Curve[T]) Regularizer() T { return c.reg }

// Penalty returns lambda·Regularizer().
func (c *Curve[T]) Penalty(lambda float64) T { return c.reg.Scale(lambda) }
