// SPDX-License-Identifier: MIT

// Package rate: functional configuration for curve construction.
// This file defines:
//   - Option / options (functional options with internal state),
//   - WithX constructors (panic only on nonsensical values),
//   - gatherOptions helper that resolves defaults.
//
// Design goals:
//   - Deterministic behavior: no global state. The derivative count lives on
//     the curve, set once at construction.
//   - Safe by construction: runtime-dependent problems (unsorted hidden
//     states, out-of-range targets) are reported as errors by New.
package rate

import (
	"math"

	"github.com/sgostarter/i/l"
)

const (
	panicHorizonInvalid = "rate: WithHorizon: horizon must be finite and > 0"
	panicLoggerNil      = "rate: WithLogger: logger must not be nil"
)

// Option mutates internal options.
type Option func(*options)

// options stores the effective configuration after applying Option setters.
type options struct {
	hiddenStates []float64 // sorted hidden-state boundaries
	targets      []Target  // explicit derivative targets
	targetsSet   bool      // true once WithDerivatives was applied
	horizon      float64   // T_MAX
	logger       l.Wrapper // never nil after gatherOptions
}

// WithHiddenStates sets the hidden-state boundary times to splice into the
// curve. The slice is copied. Sortedness and range are checked by New.
func WithHiddenStates(hs []float64) Option {
	cp := make([]float64, len(hs))
	copy(cp, hs)

	return func(o *options) { o.hiddenStates = cp }
}

// WithDerivatives sets the ordered derivative-target list. It fixes the
// gradient length of every value produced by a dual-typed curve. An empty
// list disables gradient tracking even for dual.Dual.
func WithDerivatives(targets []Target) Option {
	cp := make([]Target, len(targets))
	copy(cp, targets)

	return func(o *options) {
		o.targets = cp
		o.targetsSet = true
	}
}

// WithHorizon overrides DefaultHorizon.
// Panics when h is not finite and positive.
func WithHorizon(h float64) Option {
	if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		panic(panicHorizonInvalid)
	}

	return func(o *options) { o.horizon = h }
}

// WithLogger injects a logger; the default discards everything.
func WithLogger(logger l.Wrapper) Option {
	if logger == nil {
		panic(panicLoggerNil)
	}

	return func(o *options) { o.logger = logger }
}

// gatherOptions applies opts over the defaults.
func gatherOptions(opts []Option) options {
	o := options{horizon: DefaultHorizon}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = l.NewNopLoggerWrapper()
	}

	return o
}
