package rate_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/coalrate/dual"
	"github.com/katalvlaran/coalrate/matrix"
	"github.com/katalvlaran/coalrate/rate"
	"github.com/stretchr/testify/require"
)

func nC2(j int) int { return j * (j - 1) / 2 }

// tailIntegral returns ∫_0^∞ exp(−c·R(t)) for c > 0 on a curve whose last
// piece is flat.
func tailIntegral(t *testing.T, c *rate.Curve[dual.Float], rateC int) float64 {
	t.Helper()
	v, err := c.RIntegral(1e4, 0, -rateC)
	require.NoError(t, err)

	return v.Value()
}

func colSum(t *testing.T, m *matrix.Dense[dual.Float], col int) float64 {
	t.Helper()
	var sum float64
	for r := 0; r < m.Rows(); r++ {
		v, err := m.At(r, col)
		require.NoError(t, err)
		sum += v.Value()
	}

	return sum
}

// TestBelowMatrixIdentity uses
//
//	∫_0^∞ η e^{−R} ∫_0^t e^{−cR} ds dt = ∫_0^∞ e^{−(c+1)R}
//
// so every column summed over pieces has a closed-form reference.
func TestBelowMatrixIdentity(t *testing.T) {
	for name, hs := range map[string][]float64{"Plain": nil, "Hidden": hiddenSmooth} {
		t.Run(name, func(t *testing.T) {
			c := mustFloat(t, smooth(), rate.WithHiddenStates(hs))
			const n = 3
			below, err := c.BelowMatrix(n)
			require.NoError(t, err)
			require.Equal(t, c.K(), below.Rows())
			require.Equal(t, n+1, below.Cols())

			for j := 2; j < n+3; j++ {
				want := tailIntegral(t, c, nC2(j))
				require.InEpsilon(t, want, colSum(t, below, j-2), 1e-9, "j = %d", j)
			}
		})
	}
}

// TestAboveMatrixIdentity uses, for d ≠ c,
//
//	∫_0^∞ η e^{−(d−c)R} ∫_t^∞ e^{−cR} ds dt = (∫e^{−cR} − ∫e^{−dR}) / (d − c)
//
// and for d = c the reference ∫_0^∞ R e^{−cR}, computed by quadrature.
func TestAboveMatrixIdentity(t *testing.T) {
	c := mustFloat(t, smooth())
	const n, jj = 3, 4
	d := nC2(jj)

	dst := []*matrix.Dense[dual.Float]{mustDense(t, n, n)}
	require.NoError(t, c.DoubleIntegralAbove(n, jj, dst))
	row, err := dst[0].Row(jj - 2)
	require.NoError(t, err)

	for j := 2; j < n+2; j++ {
		rc := nC2(j)
		var want float64
		if rc != d {
			want = (tailIntegral(t, c, rc) - tailIntegral(t, c, d)) / float64(d-rc)
		} else {
			cf := float64(rc)
			ts := values(c.Breakpoints())
			last := ts[len(ts)-2]
			want = quadrature(c, last, func(s float64) float64 {
				r := c.R().Eval(s).Value()

				return r * math.Exp(-cf*r)
			})
			// Flat tail: R = r0 + η·(t − last).
			r0 := c.R().Eval(last).Value()
			eta := c.Eta().Eval(last).Value()
			want += math.Exp(-cf*r0) * (r0/cf + 1/(cf*cf)) / eta
		}
		require.InEpsilon(t, want, row[j-2].Value(), 1e-9, "j = %d", j)
	}
}

func mustDense(t *testing.T, r, c int) *matrix.Dense[dual.Float] {
	t.Helper()
	m, err := matrix.NewDense[dual.Float](r, c)
	require.NoError(t, err)

	return m
}

// TestAboveIntervalsPartitionTotal verifies that the interval matrices sum
// to the single-interval matrix of the unspliced curve.
func TestAboveIntervalsPartitionTotal(t *testing.T) {
	const n = 4
	plain := mustFloat(t, smooth())
	spliced := mustFloat(t, smooth(), rate.WithHiddenStates(hiddenSmooth))

	total, err := plain.AboveMatrices(n)
	require.NoError(t, err)
	require.Len(t, total, 1)

	parts, err := spliced.AboveMatrices(n)
	require.NoError(t, err)
	require.Len(t, parts, 3)
	require.Equal(t, spliced.Intervals(), len(parts))

	for r := 0; r < n; r++ {
		for col := 0; col < n; col++ {
			var sum float64
			for _, p := range parts {
				v, _ := p.At(r, col)
				require.GreaterOrEqual(t, v.Value(), 0.0)
				sum += v.Value()
			}
			want, _ := total[0].At(r, col)
			require.InEpsilon(t, want.Value(), sum, 1e-9, "(%d, %d)", r, col)
		}
	}
}

// TestAboveOnlyWritesItsRow verifies DoubleIntegralAbove leaves other rows alone.
func TestAboveOnlyWritesItsRow(t *testing.T) {
	c := mustFloat(t, smooth(), rate.WithHiddenStates([]float64{0.5}))
	require.Equal(t, 1, c.Intervals())

	m, err := matrix.NewFilled(3, 3, dual.Float(-7))
	require.NoError(t, err)
	require.NoError(t, c.DoubleIntegralAbove(3, 3, []*matrix.Dense[dual.Float]{m}))

	row0, _ := m.Row(0)
	require.Equal(t, []dual.Float{-7, -7, -7}, row0)
	row1, _ := m.Row(1)
	for _, v := range row1 {
		require.Greater(t, v.Value(), 0.0)
	}
}

// TestBelowNonNegativeAcrossCurves checks moment entries on curves with
// steep, shallow and mixed slopes.
func TestBelowNonNegativeAcrossCurves(t *testing.T) {
	curves := [][][]float64{
		{{1, 1, 1, 1}, {1, 1, 1, 1}, {0.2, 0.5, 1, 2}},
		{{0.1, 5, 0.3, 2}, {3, 0.05, 1, 2}, {0.4, 0.4, 0.4, 1}},
		{{10, 0.2}, {0.1, 1}, {2, 1}},
	}
	for i, params := range curves {
		c := mustFloat(t, params, rate.WithHiddenStates([]float64{0, 0.15, 0.9, 3}))
		below, err := c.BelowMatrix(5)
		require.NoError(t, err, "curve %d", i)
		above, err := c.AboveMatrices(5)
		require.NoError(t, err, "curve %d", i)

		for r := 0; r < below.Rows(); r++ {
			row, _ := below.Row(r)
			for _, v := range row {
				require.GreaterOrEqual(t, v.Value(), -1e-10, "curve %d below row %d", i, r)
			}
		}
		for h, m := range above {
			for r := 0; r < m.Rows(); r++ {
				row, _ := m.Row(r)
				for _, v := range row {
					require.GreaterOrEqual(t, v.Value(), -1e-10, "curve %d above %d row %d", i, h, r)
				}
			}
		}
	}
}

// TestMomentErrors covers argument and shape validation.
func TestMomentErrors(t *testing.T) {
	c := mustFloat(t, smooth(), rate.WithHiddenStates(hiddenSmooth))
	small := mustDense(t, 2, 2)

	require.ErrorIs(t, c.DoubleIntegralBelow(0, 0, small), rate.ErrBadArgument)
	require.ErrorIs(t, c.DoubleIntegralBelow(1, c.K(), small), rate.ErrBadArgument)
	require.ErrorIs(t, c.DoubleIntegralBelow(1, 0, small), matrix.ErrDimensionMismatch)
	require.ErrorIs(t, c.DoubleIntegralBelow(1, 0, nil), matrix.ErrNilMatrix)

	require.ErrorIs(t, c.DoubleIntegralAbove(2, 1, nil), rate.ErrBadArgument)
	require.ErrorIs(t, c.DoubleIntegralAbove(2, 4, nil), rate.ErrBadArgument)
	require.ErrorIs(t, c.DoubleIntegralAbove(2, 2, []*matrix.Dense[dual.Float]{small}), matrix.ErrDimensionMismatch)

	_, err := c.BelowMatrix(0)
	require.ErrorIs(t, err, rate.ErrBadArgument)
	_, err = c.AboveMatrices(-1)
	require.ErrorIs(t, err, rate.ErrBadArgument)
}
