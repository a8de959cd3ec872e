// SPDX-License-Identifier: MIT

package rate

import (
	"fmt"
	"math"

	"github.com/katalvlaran/coalrate/dual"
)

// Closed-form per-piece integrals. On a piece with rate ada·e^{adb(t−tsm)}
// and antiderivative Rrng at tsm, write A = ada/adb and E = e^{adb·(tsm1−tsm)}.
// Sloped pieces reduce to differences of exponential integrals, evaluated
// by dual.EintDiff; flat pieces use expm1 forms. A right end of +Inf marks
// the open-ended final piece.

// checkValue rejects NaN, infinities and values below −negativeTolerance.
func checkValue[T dual.Number[T]](op string, x T) error {
	v := x.Value()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s: %w", op, ErrNaN)
	}
	if v < -negativeTolerance {
		return fmt.Errorf("%s: %g: %w", op, v, ErrNegative)
	}

	return nil
}

// RIntegral returns ∫_0^x exp(m·R(t) + y) dt.
//
// For x beyond the horizon the final flat piece is extended to x.
// Errors: ErrNaN, ErrNegative, ErrSanityBound (a piece contributes more
// than SanityBound).
// Complexity: O(K).
func (c *Curve[T]) RIntegral(x, y T, m int) (T, error) {
	zero := x.Const(0)
	xv := x.Value()
	if math.IsNaN(xv) || xv < 0 {
		return zero, fmt.Errorf("%s: x = %g: %w", opRIntegral, xv, ErrBadArgument)
	}
	if xv == 0 {
		return zero, nil
	}
	if xv < SmallInterval || m == 0 {
		return x.Mul(y.Exp()), nil
	}

	mf := float64(m)
	ip := insertionPoint(c.ts, xv)
	ret := zero
	for i := 0; i <= ip; i++ {
		hi := c.ts[i+1]
		if i == ip {
			hi = x
		}
		span := hi.Sub(c.ts[i])
		ada, adb := c.ada[i], c.adb[i]
		var r T
		if adb.Value() == 0 {
			r = c.rrng[i].Scale(mf).Add(y).Exp().Mul(span.Mul(ada).Scale(mf).Expm1()).Div(ada.Scale(mf))
		} else {
			a := ada.Div(adb)
			lo := a.Scale(mf)
			up := a.Mul(adb.Mul(span).Exp()).Scale(mf)
			shift := c.rrng[i].Sub(a).Scale(mf).Add(y)
			r = dual.EintDiff(lo, up, shift).Div(adb)
		}
		if err := checkValue(opRIntegral, r); err != nil {
			return zero, fmt.Errorf("piece %d: %w", i, err)
		}
		if r.Value() > SanityBound {
			return zero, fmt.Errorf("%s: piece %d: %g: %w", opRIntegral, i, r.Value(), ErrSanityBound)
		}
		ret = ret.Add(r)
	}

	return ret, nil
}

// singleIntegral returns ∫_{tsm}^{tsm1} exp(−rate·R(t) + logCoef) dt.
func singleIntegral[T dual.Number[T]](rate int, tsm, tsm1, ada, adb, rrng, logCoef T) T {
	if rate == 0 {
		return logCoef.Exp().Mul(tsm1.Sub(tsm))
	}
	c := float64(rate)
	if adb.Value() == 0 {
		ret := rrng.Scale(-c).Add(logCoef).Exp()
		if !math.IsInf(tsm1.Value(), 1) {
			ret = ret.Mul(ada.Mul(tsm1.Sub(tsm)).Scale(-c).Expm1().Neg())
		}

		return ret.Div(ada).Scale(1 / c)
	}
	a := ada.Div(adb)
	e := adb.Mul(tsm1.Sub(tsm)).Exp()

	return dual.EintDiff(a.Scale(-c), a.Mul(e).Scale(-c), a.Sub(rrng).Scale(c).Add(logCoef)).Div(adb)
}

// belowFlat returns ∫_{tsm}^{tsm1} η(t)e^{−R(t)} ∫_{tsm}^t e^{−rate·R(s)} ds dt
// on a flat piece.
func belowFlat[T dual.Number[T]](rate int, tsm, tsm1, ada, rrng T) T {
	open := math.IsInf(tsm1.Value(), 1)
	if rate == 0 {
		if open {
			return rrng.Neg().Exp().Div(ada)
		}
		ad := ada.Mul(tsm1.Sub(tsm))
		// 1 − e^{−ad}(1 + ad)
		inner := ad.Neg().Exp().Mul(ad.AddConst(1)).Neg().AddConst(1)

		return rrng.Neg().Exp().Mul(inner).Div(ada)
	}
	c := float64(rate)
	l1 := c + 1
	if open {
		return rrng.Scale(-l1).Exp().Scale((1 - 1/l1) / c).Div(ada)
	}
	ad := ada.Mul(tsm1.Sub(tsm))
	inner := ad.Scale(-l1).Expm1().Scale(1 / l1).Sub(ad.Neg().Expm1())

	return rrng.Scale(-l1).Exp().Mul(inner).Div(ada.Scale(c))
}

// belowSloped is belowFlat for adb ≠ 0. Integrating by parts gives
// ∫e^{−(1+c)R} − e^{−R(tsm1)}·∫e^{−cR}, both exponential-integral
// differences whose exponents stay bounded by the local R.
func belowSloped[T dual.Number[T]](rate int, tsm, tsm1, ada, adb, rrng T) T {
	a := ada.Div(adb)
	e := adb.Mul(tsm1.Sub(tsm)).Exp()
	ae := a.Mul(e)
	if rate == 0 {
		ed := dual.EintDiff(a.Neg(), ae.Neg(), a.Sub(rrng)).Div(adb)
		// e^{−R(tsm1)}·(tsm1 − tsm)
		tail := a.Sub(ae).Sub(rrng).Exp().Mul(tsm.Sub(tsm1))

		return ed.Add(tail)
	}
	c := float64(rate)
	whole := dual.EintDiff(a.Scale(-(c + 1)), ae.Scale(-(c + 1)), a.Sub(rrng).Scale(c+1))
	shift := a.Sub(rrng).Scale(c).Sub(rrng).Sub(ae.Sub(a))
	inner := dual.EintDiff(a.Scale(-c), ae.Scale(-c), shift)

	return whole.Sub(inner).Div(adb)
}

// aboveFlat returns ∫_{tsm}^{tsm1} η(t)e^{−(lam+1−rate)R(t)} ∫_t^{tsm1} e^{−rate·R(s)} ds dt
// on a flat piece.
func aboveFlat[T dual.Number[T]](rate, lam int, tsm, tsm1, ada, rrng T) T {
	open := math.IsInf(tsm1.Value(), 1)
	c := float64(rate)
	l1 := float64(lam + 1)
	if rate == 0 {
		if open {
			return rrng.Const(math.Inf(1))
		}
		ad := ada.Mul(tsm1.Sub(tsm))
		inner := ad.Scale(-l1).Expm1().Add(ad.Scale(l1))

		return rrng.Scale(-l1).Exp().Mul(inner).Scale(1 / (l1 * l1)).Div(ada)
	}
	if lam+1 == rate {
		if open {
			return rrng.Scale(-c).Exp().Scale(1 / (c * c)).Div(ada)
		}
		cad := ada.Mul(tsm1.Sub(tsm)).Scale(c)
		inner := cad.Neg().Exp().Mul(cad.AddConst(1)).Neg().AddConst(1)

		return rrng.Scale(-c).Exp().Mul(inner).Scale(1 / (c * c)).Div(ada)
	}
	if open {
		return rrng.Scale(-l1).Exp().Scale(1 / (l1 * c)).Div(ada)
	}
	ad := ada.Mul(tsm1.Sub(tsm))
	// (e^{−c·ad} − e^{−l1·ad})/(l1 − c)
	gap := ad.Scale(-c).Exp().Mul(ad.Scale(c - l1).Expm1().Neg()).Scale(1 / (l1 - c))
	inner := ad.Scale(-l1).Expm1().Scale(1 / l1).Add(gap)

	return rrng.Scale(-l1).Exp().Mul(inner).Neg().Div(ada.Scale(c))
}

// aboveSloped is aboveFlat for adb ≠ 0.
func aboveSloped[T dual.Number[T]](rate, lam int, tsm, tsm1, ada, adb, rrng T) T {
	c := float64(rate)
	d := float64(lam + 1)
	e := adb.Mul(tsm1.Sub(tsm)).Exp()
	ca := ada.Scale(c).Div(adb)
	ed1 := dual.EintDiff(ca.Mul(e).Neg(), ca.Neg(), ca.Sub(rrng.Scale(d)))
	if lam+1 != rate {
		da := ada.Scale(d).Div(adb)
		ed2 := dual.EintDiff(da.Neg(), da.Mul(e).Neg(), da.Sub(rrng.Scale(d)))

		return ed1.Add(ed2).Div(adb).Scale(1 / (c - d))
	}
	a := ada.Div(adb)
	w := adb.Mul(tsm1.Sub(tsm)).Expm1()
	t1 := rrng.Scale(-d).Exp().Mul(adb.Mul(a.Mul(w).Scale(-d).Expm1())).Neg()
	t2 := ada.Scale(d).Mul(ed1)

	return t1.Add(t2).Div(adb.Mul(adb).Scale(d))
}
