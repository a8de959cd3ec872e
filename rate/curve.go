// SPDX-License-Identifier: MIT

package rate

import (
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/coalrate/dual"
	"github.com/sgostarter/i/l"
	"golang.org/x/exp/slices"
)

// Operation names for unified error wrapping.
const (
	opNew         = "New"
	opSplice      = "splice"
	opRIntegral   = "RIntegral"
	opBelow       = "DoubleIntegralBelow"
	opAbove       = "DoubleIntegralAbove"
	opBatch       = "Evaluator.Batch"
	opJacobian    = "Jacobian"
	opAboveMatrix = "AboveMatrices"
	opBelowMatrix = "BelowMatrix"
)

// Curve is a piecewise-exponential coalescent rate function.
//
// On piece k, t ∈ [ts[k], ts[k+1]), the rate is ada[k]·exp(adb[k]·(t − ts[k])).
// The final piece is flat and nominally ends at the horizon, standing in
// for +∞. rrng[k] is the cumulative rate ∫_0^{ts[k]} η.
//
// A Curve is immutable after New returns and safe for concurrent readers.
type Curve[T dual.Number[T]] struct {
	k       int       // number of pieces after splicing
	ada     []T       // rate at the start of each piece, len k
	adb     []T       // log-slope of each piece, len k; adb[k-1] == 0
	ts      []T       // breakpoints, len k+1, ts[0] = 0, ts[k] = horizon
	rrng    []T       // antiderivative at breakpoints, len k+1
	hidden  []float64 // hidden-state times as supplied
	hsIdx   []int     // breakpoint index of each hidden state
	targets []Target  // derivative targets, fixes the gradient length
	horizon float64

	reg           T
	eta, r, rinv  *Evaluator[T]
	logger        l.Wrapper
	trackGradient bool
}

// New builds a curve from a 3×K parameter table.
//
// Rows of params:
//   - params[0] (KindA): population size at the start of each piece (rate = 1/a),
//   - params[1] (KindB): population size at the end of each piece,
//   - params[2] (KindS): duration of each piece.
//
// The curve interpolates exponentially from 1/a to 1/b across each piece,
// the final piece is forced flat and extended to the horizon, and every
// hidden state is spliced in as a breakpoint without changing the curve.
//
// Errors: ErrBadShape, ErrRaggedParams, ErrNonPositiveParam, ErrHorizon,
// ErrBadTarget, ErrUnsortedHiddenStates, ErrHiddenStateRange, ErrNaN.
// No partially built curve escapes on error.
//
// Complexity: O(K·H) for H hidden states plus O(K·RegularizerSamples·log K).
func New[T dual.Number[T]](params [][]float64, opts ...Option) (*Curve[T], error) {
	o := gatherOptions(opts)
	logger := o.logger.WithFields(l.StringField(l.ClsKey, "Curve"))

	c, err := build[T](params, o)
	if err != nil {
		logger.WithFields(l.ErrorField(err)).Error("construction failed")

		return nil, fmt.Errorf("%s: %w", opNew, err)
	}
	c.logger = logger
	logger.WithFields(l.IntField("pieces", c.k), l.IntField("hiddenStates", len(c.hsIdx)),
		l.IntField("derivatives", len(c.targets))).Debug("curve constructed")

	return c, nil
}

// build runs the construction stages in order.
func build[T dual.Number[T]](params [][]float64, o options) (*Curve[T], error) {
	// Stage 1 (Validate): shape and positivity of the raw table.
	k, err := validateParams(params)
	if err != nil {
		return nil, err
	}
	targets, err := resolveTargets[T](o, k)
	if err != nil {
		return nil, err
	}
	if err = validateHiddenStates(o.hiddenStates, o.horizon); err != nil {
		return nil, err
	}

	c := &Curve[T]{
		k:             k,
		hidden:        o.hiddenStates,
		targets:       targets,
		horizon:       o.horizon,
		trackGradient: dual.Tracking[T]() && len(targets) > 0,
	}

	// Stage 2 (Prepare): seed parameters, derive rates, slopes and breakpoints.
	a, b, s := c.seed(params)
	if err = c.initPieces(a, b, s); err != nil {
		return nil, err
	}

	// Stage 3 (Splice): hidden states become breakpoints.
	if err = c.splice(o.hiddenStates); err != nil {
		return nil, err
	}

	// Stage 4 (Finalize): snap near-flat slopes, antiderivative, evaluators, regularizer.
	c.snapSlopes()
	c.computeAntiderivative()
	c.eta = newEvaluator(EvalRate, c)
	c.r = newEvaluator(EvalCumulative, c)
	c.rinv = newEvaluator(EvalInverse, c)
	c.reg = c.computeRegularizer()

	return c, nil
}

// validateParams checks the table is 3×K, rectangular, finite and positive.
func validateParams(params [][]float64) (int, error) {
	if len(params) != numKinds || len(params[0]) == 0 {
		return 0, ErrBadShape
	}
	k := len(params[0])
	for _, row := range params {
		if len(row) != k {
			return 0, ErrRaggedParams
		}
	}
	for kind, row := range params {
		for p, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
				return 0, fmt.Errorf("%s = %g: %w", Target{Kind: ParamKind(kind), Piece: p}, v, ErrNonPositiveParam)
			}
		}
	}

	return k, nil
}

// resolveTargets validates explicit targets or picks the default list.
func resolveTargets[T dual.Number[T]](o options, k int) ([]Target, error) {
	if !o.targetsSet {
		if dual.Tracking[T]() {
			return AllTargets(k), nil
		}

		return nil, nil
	}
	seen := make(map[Target]struct{}, len(o.targets))
	for _, t := range o.targets {
		if t.Kind < 0 || t.Kind >= numKinds || t.Piece < 0 || t.Piece >= k {
			return nil, fmt.Errorf("%s: %w", t, ErrBadTarget)
		}
		if _, dup := seen[t]; dup {
			return nil, fmt.Errorf("duplicate %s: %w", t, ErrBadTarget)
		}
		seen[t] = struct{}{}
	}

	return o.targets, nil
}

// validateHiddenStates checks order and range before anything is allocated.
func validateHiddenStates(hs []float64, horizon float64) error {
	if !slices.IsSorted(hs) {
		return ErrUnsortedHiddenStates
	}
	for _, h := range hs {
		if math.IsNaN(h) || h < 0 || (h > horizon && !math.IsInf(h, 1)) {
			return fmt.Errorf("%g: %w", h, ErrHiddenStateRange)
		}
	}

	return nil
}

// seed lifts the raw table into T, activating gradients for targets.
func (c *Curve[T]) seed(params [][]float64) (a, b, s []T) {
	var zero T
	index := make(map[Target]int, len(c.targets))
	for i, t := range c.targets {
		index[t] = i
	}
	nd := len(c.targets)
	rows := make([][]T, numKinds)
	for kind := range rows {
		rows[kind] = make([]T, c.k)
		for p, v := range params[kind] {
			if i, ok := index[Target{Kind: ParamKind(kind), Piece: p}]; ok {
				rows[kind][p] = zero.Seed(v, i, nd)
			} else {
				rows[kind][p] = zero.Const(v)
			}
		}
	}

	return rows[KindA], rows[KindB], rows[KindS]
}

// initPieces converts sizes to rates and derives log-slopes so that piece k
// runs from 1/a[k] to 1/b[k] over s[k]. The last piece is flat and ends at
// the horizon.
func (c *Curve[T]) initPieces(a, b, s []T) error {
	var zero T
	one := zero.Const(1)
	c.ada = make([]T, c.k)
	c.adb = make([]T, c.k)
	c.ts = make([]T, c.k+1)
	c.ts[0] = zero.Const(0)
	for k := 0; k < c.k; k++ {
		c.ada[k] = one.Div(a[k])
		end := one.Div(b[k])
		c.ts[k+1] = c.ts[k].Add(s[k])
		c.adb[k] = end.Log().Sub(c.ada[k].Log()).Div(s[k])
	}
	if c.ts[c.k-1].Value() >= c.horizon {
		return fmt.Errorf("ts[%d] = %g ≥ %g: %w", c.k-1, c.ts[c.k-1].Value(), c.horizon, ErrHorizon)
	}
	c.adb[c.k-1] = zero.Const(0)
	c.ts[c.k] = zero.Const(c.horizon)

	return nil
}

// splice inserts a breakpoint at every hidden state that does not already
// coincide with one. Hidden states are sorted, so recorded indices never
// shift after they are taken.
func (c *Curve[T]) splice(hs []float64) error {
	var zero T
	c.hsIdx = make([]int, 0, len(hs))
	for _, h := range hs {
		last := len(c.ts) - 1
		if h >= c.horizon {
			c.hsIdx = append(c.hsIdx, last)
			continue
		}
		ip := insertionPoint(c.ts, h)
		if c.ts[ip].Value() == h {
			c.hsIdx = append(c.hsIdx, ip)
			continue
		}

		ht := zero.Const(h)
		c.ts = slices.Insert(c.ts, ip+1, ht)
		if c.adb[ip].Value() == 0 {
			c.ada = slices.Insert(c.ada, ip+1, c.ada[ip])
			c.adb = slices.Insert(c.adb, ip+1, c.adb[ip])
		} else {
			// Rate at h, then the slope that reaches the old right end of the
			// piece from there: value and antiderivative stay continuous.
			c.ada = slices.Insert(c.ada, ip+1, c.ada[ip].Mul(c.adb[ip].Mul(ht.Sub(c.ts[ip])).Exp()))
			right := c.ts[ip+2]
			slope := c.ada[ip].Div(c.ada[ip+1]).Log().Add(c.adb[ip].Mul(right.Sub(c.ts[ip]))).Div(right.Sub(ht))
			c.adb = slices.Insert(c.adb, ip+1, slope)
		}
		for _, x := range []T{c.ada[ip+1], c.adb[ip+1], c.ts[ip+1]} {
			if dual.IsNaN(x) {
				return fmt.Errorf("%s at %g: %w", opSplice, h, ErrNaN)
			}
		}
		c.hsIdx = append(c.hsIdx, ip+1)
	}
	c.k = len(c.ada)

	return nil
}

// snapSlopes forces |adb| < SlopeSnap to exactly zero so the flat-piece
// formulas are used.
func (c *Curve[T]) snapSlopes() {
	var zero T
	for k := range c.adb {
		if math.Abs(c.adb[k].Value()) < SlopeSnap {
			c.adb[k] = zero.Const(0)
		}
	}
}

// computeAntiderivative fills rrng from the closed-form piece integrals.
func (c *Curve[T]) computeAntiderivative() {
	var zero T
	c.rrng = make([]T, c.k+1)
	c.rrng[0] = zero.Const(0)
	for k := 0; k < c.k; k++ {
		dt := c.ts[k+1].Sub(c.ts[k])
		if c.adb[k].Value() == 0 {
			c.rrng[k+1] = c.rrng[k].Add(c.ada[k].Mul(dt))
		} else {
			c.rrng[k+1] = c.rrng[k].Add(c.ada[k].Div(c.adb[k]).Mul(c.adb[k].Mul(dt).Expm1()))
		}
	}
}

// insertionPoint returns the piece index ip with axis[ip] ≤ x < axis[ip+1],
// clamped to [0, len(axis)−2] so that queries beyond the last breakpoint
// land in the final piece.
func insertionPoint[T dual.Number[T]](axis []T, x float64) int {
	i, found := slices.BinarySearchFunc(axis, x, func(e T, t float64) int {
		switch v := e.Value(); {
		case v < t:
			return -1
		case v > t:
			return 1
		}

		return 0
	})
	ip := i - 1
	if found {
		ip = i
	}
	if ip > len(axis)-2 {
		ip = len(axis) - 2
	}
	if ip < 0 {
		ip = 0
	}

	return ip
}

// K returns the number of pieces after splicing.
func (c *Curve[T]) K() int { return c.k }

// Horizon returns the finite stand-in for +∞ at the end of the final piece.
func (c *Curve[T]) Horizon() float64 { return c.horizon }

// Breakpoints returns a copy of ts (len K+1).
func (c *Curve[T]) Breakpoints() []T { return slices.Clone(c.ts) }

// Rates returns a copy of ada (len K).
func (c *Curve[T]) Rates() []T { return slices.Clone(c.ada) }

// Slopes returns a copy of adb (len K).
func (c *Curve[T]) Slopes() []T { return slices.Clone(c.adb) }

// Antiderivatives returns a copy of Rrng (len K+1).
func (c *Curve[T]) Antiderivatives() []T { return slices.Clone(c.rrng) }

// HiddenStates returns the hidden-state times as supplied.
func (c *Curve[T]) HiddenStates() []float64 { return slices.Clone(c.hidden) }

// HiddenStateIndices returns the breakpoint index of each hidden state.
func (c *Curve[T]) HiddenStateIndices() []int { return slices.Clone(c.hsIdx) }

// Targets returns the derivative-target list.
func (c *Curve[T]) Targets() []Target { return slices.Clone(c.targets) }

// NumDerivatives returns the gradient length of values produced by this curve.
func (c *Curve[T]) NumDerivatives() int {
	if !c.trackGradient {
		return 0
	}

	return len(c.targets)
}

// Eta returns the instantaneous-rate evaluator.
func (c *Curve[T]) Eta() *Evaluator[T] { return c.eta }

// R returns the antiderivative evaluator.
func (c *Curve[T]) R() *Evaluator[T] { return c.r }

// Rinv returns the inverse-antiderivative evaluator.
func (c *Curve[T]) Rinv() *Evaluator[T] { return c.rinv }

// String prints ts, ada and adb, one line each.
func (c *Curve[T]) String() string {
	var sb strings.Builder
	for _, row := range [][]T{c.ts, c.ada, c.adb} {
		for i, x := range row {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%g", x.Value())
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

// Dump logs every internal array with gradients at debug level.
func (c *Curve[T]) Dump() {
	arrays := []struct {
		name string
		xs   []T
	}{{"ada", c.ada}, {"adb", c.adb}, {"ts", c.ts}, {"Rrng", c.rrng}}
	for _, a := range arrays {
		for i, x := range a.xs {
			c.logger.WithFields(l.StringField("array", a.name), l.IntField("index", i)).
				Debug(fmt.Sprintf("%g :: %v", x.Value(), x.Grad()))
		}
	}
	c.logger.WithFields(l.StringField("array", "reg")).Debug(fmt.Sprintf("%g :: %v", c.reg.Value(), c.reg.Grad()))
}
