// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single source of truth for the shape checks performed by
//    producers that write into caller-supplied targets.
//  - Return sentinel errors wrapped with a validator tag so call sites can
//    match them with errors.Is.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing.

package matrix

import "fmt"

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil.
//
// Returns ErrNilMatrix if m == nil.
// Complexity: O(1).
func ValidateNotNil[T any](m *Dense[T]) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateAtLeast ensures m is non-nil and has at least rows×cols cells.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(1).
func ValidateAtLeast[T any](m *Dense[T], rows, cols int) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateAtLeast", err)
	}
	if m.Rows() < rows {
		return validatorErrorf("ValidateAtLeast: Rows", ErrDimensionMismatch)
	}
	if m.Cols() < cols {
		return validatorErrorf("ValidateAtLeast: Columns", ErrDimensionMismatch)
	}

	return nil
}

// ValidateAllAtLeast applies ValidateAtLeast to the first count targets and
// requires len(ms) ≥ count.
//
// Errors: ErrDimensionMismatch (too few targets), plus ValidateAtLeast errors.
// Complexity: O(count).
func ValidateAllAtLeast[T any](ms []*Dense[T], count, rows, cols int) error {
	if len(ms) < count {
		return validatorErrorf("ValidateAllAtLeast: Count", ErrDimensionMismatch)
	}
	for i := 0; i < count; i++ {
		if err := ValidateAtLeast(ms[i], rows, cols); err != nil {
			return validatorErrorf(fmt.Sprintf("ValidateAllAtLeast[%d]", i), err)
		}
	}

	return nil
}
