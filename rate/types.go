// SPDX-License-Identifier: MIT

package rate

import "fmt"

// Numeric policy. These constants are part of the model definition.
const (
	// DefaultHorizon is T_MAX, the finite breakpoint standing in for +∞ at
	// the end of the final (flat) piece, in coalescent time units.
	DefaultHorizon = 15.0

	// SlopeSnap is the |log-slope| below which a piece is treated as flat.
	SlopeSnap = 1e-2

	// SmallInterval is the x below which RIntegral uses x·e^y.
	SmallInterval = 1e-6

	// SanityBound caps any single per-piece RIntegral contribution.
	SanityBound = 100.0

	// LogSpaceThreshold is the |exponent| above which the moment builder
	// evaluates interval factors in log space.
	LogSpaceThreshold = 20.0

	// RegularizerSamples is the number of samples per piece in the regularizer.
	RegularizerSamples = 50

	// negativeTolerance absorbs round-off in closed forms that are ≥ 0 exactly.
	negativeTolerance = 1e-10
)

// ParamKind selects one of the three rows of the parameter table.
type ParamKind int

const (
	// KindA is the population size (inverse rate) at the start of a piece.
	KindA ParamKind = iota
	// KindB is the population size at the end of a piece.
	KindB
	// KindS is the duration of a piece.
	KindS

	numKinds = 3
)

// String returns "a", "b" or "s".
func (k ParamKind) String() string {
	switch k {
	case KindA:
		return "a"
	case KindB:
		return "b"
	case KindS:
		return "s"
	}

	return fmt.Sprintf("ParamKind(%d)", int(k))
}

// Target names one scalar parameter receiving gradient tracking.
type Target struct {
	Kind  ParamKind // row of the parameter table
	Piece int       // column (piece index, before splicing)
}

// String returns e.g. "a[3]".
func (t Target) String() string {
	return fmt.Sprintf("%s[%d]", t.Kind, t.Piece)
}

// AllTargets lists every (kind, piece) pair, kind-major.
func AllTargets(k int) []Target {
	out := make([]Target, 0, numKinds*k)
	for kind := ParamKind(0); kind < numKinds; kind++ {
		for p := 0; p < k; p++ {
			out = append(out, Target{Kind: kind, Piece: p})
		}
	}

	return out
}

// nC2 returns the number of unordered pairs among j lineages.
func nC2(j int) int {
	return j * (j - 1) / 2
}
