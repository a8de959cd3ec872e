// SPDX-License-Identifier: MIT
// Package model: sentinel error set.

package model

import "errors"

var (
	// ErrEmptyModel is returned when a model file has no parameter table.
	ErrEmptyModel = errors.New("model: no parameters")

	// ErrUnknownKind is returned for a derivative kind other than a, b or s.
	ErrUnknownKind = errors.New("model: unknown parameter kind")

	// ErrShape is returned when the a, b and s rows differ in length.
	ErrShape = errors.New("model: a, b and s must have the same length")
)
