// SPDX-License-Identifier: MIT
// Package rate: sentinel error set.
// Every message is prefixed with "rate: ". Functions wrap these with an
// operation tag (fmt.Errorf("%s: %w", op, err)); callers match with errors.Is.
//
// Numerical invariant violations (ErrNaN, ErrNegative, ErrSanityBound) are
// never clamped: they mean the parameters drove a formula out of its stable
// regime or a wrong branch was selected, and the caller must reject the
// parameter set.

package rate

import "errors"

var (
	// ErrBadShape is returned when the parameter table does not have exactly
	// three rows or has zero pieces.
	ErrBadShape = errors.New("rate: parameter table must have 3 non-empty rows")

	// ErrRaggedParams is returned when the parameter rows differ in length.
	ErrRaggedParams = errors.New("rate: all params must have same size")

	// ErrNonPositiveParam is returned for a parameter that is not finite and > 0.
	ErrNonPositiveParam = errors.New("rate: parameters must be finite and positive")

	// ErrHorizon is returned when the breakpoints reach the horizon before the
	// final piece, or the horizon itself is invalid.
	ErrHorizon = errors.New("rate: breakpoints exceed the time horizon")

	// ErrBadTarget is returned for an unknown, out-of-range or duplicate
	// derivative target.
	ErrBadTarget = errors.New("rate: invalid derivative target")

	// ErrUnsortedHiddenStates is returned when hidden-state times are not ascending.
	ErrUnsortedHiddenStates = errors.New("rate: hidden states must be sorted ascending")

	// ErrHiddenStateRange is returned for a hidden-state time that is negative,
	// NaN, or beyond the horizon (other than +Inf).
	ErrHiddenStateRange = errors.New("rate: hidden state outside [0, horizon]")

	// ErrUnsortedQuery is returned by Evaluator.Batch for unsorted input.
	ErrUnsortedQuery = errors.New("rate: batch query must be sorted ascending")

	// ErrBadArgument is returned for an invalid sample size, piece index or
	// lineage count passed to a kernel or moment builder.
	ErrBadArgument = errors.New("rate: invalid argument")

	// ErrNaN signals a NaN or infinite intermediate where a finite value is required.
	ErrNaN = errors.New("rate: NaN or Inf encountered")

	// ErrNegative signals a negative value where a rate integral must be ≥ 0.
	ErrNegative = errors.New("rate: negative value in non-negative quantity")

	// ErrSanityBound signals a per-piece integral above the sanity bound.
	ErrSanityBound = errors.New("rate: integral exceeds sanity bound")
)
