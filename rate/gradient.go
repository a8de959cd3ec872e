// SPDX-License-Identifier: MIT

package rate

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Gradient returns the gradient of x padded to NumDerivatives.
// Constants and Float values yield zeros.
func (c *Curve[T]) Gradient(x T) []float64 {
	out := make([]float64, c.NumDerivatives())
	copy(out, x.Grad())

	return out
}

// Jacobian stacks the gradients of xs into a len(xs)×NumDerivatives matrix,
// column i belonging to Targets()[i].
//
// Returns ErrBadArgument when xs is empty or the curve tracks no gradient.
func (c *Curve[T]) Jacobian(xs []T) (*mat.Dense, error) {
	nd := c.NumDerivatives()
	if len(xs) == 0 || nd == 0 {
		return nil, fmt.Errorf("%s: %d values, %d derivatives: %w", opJacobian, len(xs), nd, ErrBadArgument)
	}
	jac := mat.NewDense(len(xs), nd, nil)
	for i, x := range xs {
		jac.SetRow(i, c.Gradient(x))
	}

	return jac, nil
}
