package rate_test

import (
	"testing"

	"github.com/katalvlaran/coalrate/dual"
	"github.com/katalvlaran/coalrate/rate"
	"github.com/stretchr/testify/require"
)

func grid(from, to float64, n int) []dual.Float {
	out := make([]dual.Float, n)
	for i := range out {
		out[i] = dual.Float(from + (to-from)*float64(i)/float64(n-1))
	}

	return out
}

// TestInverseRoundTrip verifies R⁻¹(R(t)) = t and R(R⁻¹(y)) = y.
func TestInverseRoundTrip(t *testing.T) {
	c := mustFloat(t, smooth(), rate.WithHiddenStates(hiddenSmooth))

	for _, x := range grid(0, 20, 201) {
		y := c.R().At(x)
		require.InDelta(t, x.Value(), c.Rinv().At(y).Value(), 1e-10, "t = %g", x.Value())
	}
	for _, y := range grid(0, 5, 101) {
		x := c.Rinv().At(y)
		require.InDelta(t, y.Value(), c.R().At(x).Value(), 1e-10, "y = %g", y.Value())
	}
}

// TestRateIsDerivative compares η with a central difference of R.
func TestRateIsDerivative(t *testing.T) {
	c := mustFloat(t, smooth(), rate.WithHiddenStates(hiddenSmooth))
	const h = 1e-6
	for _, x := range []float64{0.1, 0.35, 0.8, 1.2, 3, 16} {
		fd := (c.R().Eval(x+h).Value() - c.R().Eval(x-h).Value()) / (2 * h)
		require.InDelta(t, c.Eta().Eval(x).Value(), fd, 1e-6, "t = %g", x)
	}
}

// TestBatchMatchesPointwise verifies Batch agrees exactly with At.
func TestBatchMatchesPointwise(t *testing.T) {
	c := mustFloat(t, smooth(), rate.WithHiddenStates(hiddenSmooth))
	xs := append(grid(0, 2, 41), 2.5, 15, 30)

	for _, ev := range []*rate.Evaluator[dual.Float]{c.Eta(), c.R(), c.Rinv()} {
		got, err := ev.Batch(xs)
		require.NoError(t, err)
		require.Len(t, got, len(xs))
		for i, x := range xs {
			require.Equal(t, ev.At(x), got[i], "%s(%g)", ev.Kind(), x.Value())
		}
	}
}

// TestBatchEdgeCases covers empty and unsorted input.
func TestBatchEdgeCases(t *testing.T) {
	c := mustFloat(t, smooth())

	got, err := c.R().Batch(nil)
	require.NoError(t, err)
	require.Empty(t, got)

	_, err = c.Eta().Batch([]dual.Float{0.5, 0.2})
	require.ErrorIs(t, err, rate.ErrUnsortedQuery)

	got, err = c.R().Batch([]dual.Float{0.5, 0.5})
	require.NoError(t, err, "ties are sorted")
	require.Equal(t, got[0], got[1])
}

// TestEvaluatorBeyondHorizon extends the final flat piece.
func TestEvaluatorBeyondHorizon(t *testing.T) {
	c := mustFloat(t, smooth())
	rr := c.Antiderivatives()
	last := rr[len(rr)-1].Value()

	require.InDelta(t, 2.0, c.Eta().Eval(100).Value(), 1e-15)
	require.InDelta(t, last+2*(100-rate.DefaultHorizon), c.R().Eval(100).Value(), 1e-10)
	require.InDelta(t, 100.0, c.Rinv().Eval(last+2*(100-rate.DefaultHorizon)).Value(), 1e-10)
}

// TestEvaluatorDual carries gradients through all three evaluators.
func TestEvaluatorDual(t *testing.T) {
	c, err := rate.New[dual.Dual](smooth())
	require.NoError(t, err)

	x := dual.Constant(0.9)
	for _, ev := range []*rate.Evaluator[dual.Dual]{c.Eta(), c.R(), c.Rinv()} {
		v := ev.At(x)
		require.Len(t, v.Grad(), c.NumDerivatives(), "%s", ev.Kind())
	}
	require.Equal(t, "eta", rate.EvalRate.String())
	require.Equal(t, "Rinv", rate.EvalInverse.String())
}
