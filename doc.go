// Package coalrate computes the piecewise-exponential coalescence rate
// function of a coalescent hidden Markov model, together with its integrals
// and moment matrices, in plain values or with gradients.
//
// 🚀 What is coalrate?
//
//	The engine behind the transition model of a coalescent HMM. Given a
//	demographic history as a table of population sizes and durations, it
//	builds a rate curve η(t), splices the HMM's hidden-state boundaries into
//	it, and returns the closed-form quantities the likelihood needs.
//
// ✨ Why choose coalrate?
//
//   - Exact – closed forms on every piece, exponential-integral differences
//     evaluated without catastrophic cancellation
//   - Differentiable – every value can carry its gradient with respect to
//     the parameters you choose
//   - Immutable – a curve never changes after construction and is safe for
//     concurrent readers
//
// Under the hood, everything is organized under these subpackages:
//
//	dual/    — Float and Dual value types sharing one arithmetic contract
//	expint/  — exponential integrals E1, Ei and stable differences
//	matrix/  — small generic row-major storage for moment matrices
//	rate/    — the curve, its evaluators, kernels, moments and regularizer
//	model/   — YAML curve definitions
//	cmd/     — the coalrate command line tool
//
//	go get github.com/katalvlaran/coalrate/rate
package coalrate
