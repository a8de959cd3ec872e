// SPDX-License-Identifier: MIT

package dual

import "github.com/katalvlaran/coalrate/expint"

// EintDiff returns e^c·(Ei(b) − Ei(a)) = ∫_a^b e^{v+c}/v dv with its gradient.
//
// The value comes from expint.Diff; the gradient is assembled from the
// closed-form partials ∂a = −e^{c+a}/a, ∂b = e^{c+b}/b and ∂c = value.
func EintDiff[T Number[T]](a, b, c T) T {
	v := expint.Diff(a.Value(), b.Value(), c.Value())
	da, db := expint.Partials(a.Value(), b.Value(), c.Value())

	return a.Chain(0, da).Add(b.Chain(0, db)).Add(c.Chain(v, v))
}
