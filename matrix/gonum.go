// SPDX-License-Identifier: MIT

package matrix

import "gonum.org/v1/gonum/mat"

// Valuer is any element type exposing a scalar part.
type Valuer interface {
	Value() float64
}

// ToGonum copies the scalar part of every element into a new gonum *mat.Dense.
// Returns ErrNilMatrix for a nil input.
// Complexity: O(r*c).
func ToGonum[T Valuer](m *Dense[T]) (*mat.Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, validatorErrorf("ToGonum", err)
	}
	vals := make([]float64, len(m.data))
	for i, x := range m.data {
		vals[i] = x.Value()
	}

	return mat.NewDense(m.r, m.c, vals), nil
}
