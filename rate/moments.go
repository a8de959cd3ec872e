// SPDX-License-Identifier: MIT

package rate

import (
	"fmt"
	"math"

	"github.com/katalvlaran/coalrate/dual"
	"github.com/katalvlaran/coalrate/matrix"
)

// Moment matrices of the coalescent with n sampled lineages.
//
// "Below" integrals measure a coalescence of the distinguished lineage in
// piece m preceded by an event with rate nC2(j)−1 anywhere before it.
// "Above" integrals measure an event in piece m with the distinguished pair
// rate nC2(jj) while nC2(j) lineages remain, followed by the rest of the
// history after it. The last piece is open-ended in both.

// upper returns the right end of piece m: ts[m+1], or +Inf for the last piece.
func (c *Curve[T]) upper(m int) T {
	if m == c.k-1 {
		var zero T

		return zero.Const(math.Inf(1))
	}

	return c.ts[m+1]
}

// DoubleIntegralBelow writes row m of dst: for j = 2..n+2, column j−2 holds
//
//	∫_{piece m} η(t)e^{−R(t)} ∫_0^t e^{−(nC2(j)−1)·R(s)} ds dt.
//
// Requires n ≥ 1, 0 ≤ m < K, and dst at least K×(n+1).
// Errors: ErrBadArgument, matrix shape errors, ErrNaN, ErrNegative.
// Complexity: O(n·m).
func (c *Curve[T]) DoubleIntegralBelow(n, m int, dst *matrix.Dense[T]) error {
	if n < 1 || m < 0 || m >= c.k {
		return fmt.Errorf("%s: n = %d, m = %d: %w", opBelow, n, m, ErrBadArgument)
	}
	if err := matrix.ValidateAtLeast(dst, c.k, n+1); err != nil {
		return fmt.Errorf("%s: %w", opBelow, err)
	}
	row, err := c.belowRow(n, m)
	if err != nil {
		return err
	}

	return dst.SetRow(m, row)
}

func (c *Curve[T]) belowRow(n, m int) ([]T, error) {
	var zero T
	logCoef := c.rrng[m].Neg()
	// Mass of η·e^{−R} over piece m, relative to e^{−Rrng[m]}.
	fac := zero.Const(1)
	if m < c.k-1 {
		fac = c.rrng[m+1].Sub(c.rrng[m]).Neg().Expm1().Neg()
	}
	upper := c.upper(m)
	ada, adb, ts, rr := c.ada[m], c.adb[m], c.ts[m], c.rrng[m]

	out := make([]T, n+1)
	for j := 2; j < n+3; j++ {
		rate := nC2(j) - 1
		var v T
		if adb.Value() == 0 {
			v = belowFlat(rate, ts, upper, ada, rr)
		} else {
			v = belowSloped(rate, ts, upper, ada, adb, rr)
		}
		if err := checkValue(opBelow, v); err != nil {
			return nil, fmt.Errorf("m = %d, j = %d, local: %w", m, j, err)
		}
		for k := 0; k < m; k++ {
			v = v.Add(fac.Mul(singleIntegral(rate, c.ts[k], c.ts[k+1], c.ada[k], c.adb[k], c.rrng[k], logCoef)))
		}
		if err := checkValue(opBelow, v); err != nil {
			return nil, fmt.Errorf("m = %d, j = %d: %w", m, j, err)
		}
		out[j-2] = v
	}

	return out, nil
}

// BelowMatrix allocates a K×(n+1) matrix and fills every row with
// DoubleIntegralBelow.
func (c *Curve[T]) BelowMatrix(n int) (*matrix.Dense[T], error) {
	if n < 1 {
		return nil, fmt.Errorf("%s: n = %d: %w", opBelowMatrix, n, ErrBadArgument)
	}
	dst, err := matrix.NewDense[T](c.k, n+1)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opBelowMatrix, err)
	}
	for m := 0; m < c.k; m++ {
		if err = c.DoubleIntegralBelow(n, m, dst); err != nil {
			return nil, err
		}
	}

	return dst, nil
}

// boundaries returns the piece indices that delimit hidden-state intervals.
// Without hidden states the whole curve is one interval; otherwise the
// final boundary K is implied when missing.
func (c *Curve[T]) boundaries() []int {
	if len(c.hsIdx) == 0 {
		return []int{0, c.k}
	}
	b := make([]int, len(c.hsIdx), len(c.hsIdx)+1)
	copy(b, c.hsIdx)
	if b[len(b)-1] < c.k {
		b = append(b, c.k)
	}

	return b
}

// Intervals returns the number of hidden-state intervals, i.e. the number
// of matrices DoubleIntegralAbove writes to.
func (c *Curve[T]) Intervals() int { return len(c.boundaries()) - 1 }

// abovePieces returns the K×n per-piece table for pair index jj: entry
// (m, j−2) is the above integral starting in piece m for nC2(j) remaining
// lineages, j = 2..n+1.
func (c *Curve[T]) abovePieces(n, jj int) (*matrix.Dense[T], error) {
	tab, err := matrix.NewDense[T](c.k, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opAbove, err)
	}
	lam := nC2(jj) - 1
	for m := 0; m < c.k; m++ {
		upper := c.upper(m)
		ada, adb, ts, rr := c.ada[m], c.adb[m], c.ts[m], c.rrng[m]
		for j := 2; j < n+2; j++ {
			rate := nC2(j)
			var v T
			if adb.Value() == 0 {
				v = aboveFlat(rate, lam, ts, upper, ada, rr)
			} else {
				v = aboveSloped(rate, lam, ts, upper, ada, adb, rr)
			}
			if err = checkValue(opAbove, v); err != nil {
				return nil, fmt.Errorf("m = %d, j = %d, local: %w", m, j, err)
			}
			logCoef, fac := c.aboveFactor(m, lam+1-rate)
			for k := m + 1; k < c.k; k++ {
				v = v.Add(fac.Mul(singleIntegral(rate, c.ts[k], c.upper(k), c.ada[k], c.adb[k], c.rrng[k], logCoef)))
			}
			if err = checkValue(opAbove, v); err != nil {
				return nil, fmt.Errorf("m = %d, j = %d: %w", m, j, err)
			}
			if err = tab.Set(m, j-2, v); err != nil {
				return nil, err
			}
		}
	}

	return tab, nil
}

// aboveFactor returns (logCoef, fac) such that
//
//	∫_{piece m} η e^{−rp·R} = fac · e^{logCoef}
//
// splitting the exponent so neither factor overflows when |rp·ΔR| is large.
func (c *Curve[T]) aboveFactor(m, rp int) (logCoef, fac T) {
	var zero T
	one := zero.Const(1)
	dR := c.rrng[m+1].Sub(c.rrng[m])
	if rp == 0 {
		return zero.Const(0), dR
	}
	r := float64(rp)
	if rp < 0 {
		if -r*dR.Value() > LogSpaceThreshold {
			return c.rrng[m+1].Scale(-r), one.Scale(-1 / r)
		}

		return c.rrng[m].Scale(-r), dR.Scale(-r).Expm1().Scale(-1 / r)
	}
	if r*dR.Value() > LogSpaceThreshold {
		return c.rrng[m].Scale(-r), one.Scale(1 / r)
	}

	return c.rrng[m+1].Scale(-r), dR.Scale(r).Expm1().Scale(1 / r)
}

// DoubleIntegralAbove sums the per-piece above table over each hidden-state
// interval and writes the sums into row jj−2 of dst[h], one matrix per
// interval (see Intervals).
//
// Requires n ≥ 1, 2 ≤ jj ≤ n+1 and Intervals() targets of at least
// (jj−1)×n.
// Errors: ErrBadArgument, matrix shape errors, ErrNaN, ErrNegative.
// Complexity: O(n·K²).
func (c *Curve[T]) DoubleIntegralAbove(n, jj int, dst []*matrix.Dense[T]) error {
	if n < 1 || jj < 2 || jj > n+1 {
		return fmt.Errorf("%s: n = %d, jj = %d: %w", opAbove, n, jj, ErrBadArgument)
	}
	bounds := c.boundaries()
	if err := matrix.ValidateAllAtLeast(dst, len(bounds)-1, jj-1, n); err != nil {
		return fmt.Errorf("%s: %w", opAbove, err)
	}
	tab, err := c.abovePieces(n, jj)
	if err != nil {
		return err
	}

	for h := 1; h < len(bounds); h++ {
		row := make([]T, n)
		for col := range row {
			acc := sumPieces(tab, col, bounds[h-1], bounds[h])
			if err = checkValue(opAbove, acc); err != nil {
				return fmt.Errorf("interval %d: %w", h-1, err)
			}
			row[col] = acc
		}
		if err = dst[h-1].SetRow(jj-2, row); err != nil {
			return fmt.Errorf("%s: %w", opAbove, err)
		}
	}

	return nil
}

// AboveMatrices allocates Intervals() n×n matrices and fills rows 0..n−1
// with DoubleIntegralAbove for jj = 2..n+1.
func (c *Curve[T]) AboveMatrices(n int) ([]*matrix.Dense[T], error) {
	if n < 1 {
		return nil, fmt.Errorf("%s: n = %d: %w", opAboveMatrix, n, ErrBadArgument)
	}
	out := make([]*matrix.Dense[T], c.Intervals())
	for i := range out {
		m, err := matrix.NewDense[T](n, n)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opAboveMatrix, err)
		}
		out[i] = m
	}
	for jj := 2; jj <= n+1; jj++ {
		if err := c.DoubleIntegralAbove(n, jj, out); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// sumPieces adds a column of per-piece values over [from, to).
func sumPieces[T dual.Number[T]](tab *matrix.Dense[T], col, from, to int) T {
	xs := make([]T, 0, to-from)
	for m := from; m < to; m++ {
		v, _ := tab.At(m, col)
		xs = append(xs, v)
	}

	return dual.Sum(xs)
}
