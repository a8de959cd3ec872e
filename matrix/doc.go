// Package matrix offers the dense, row-major storage used for moment matrices.
//
// The matrix package provides:
//
//   - Dense[T], a generic r×c table of numeric values (plain scalars or dual
//     numbers) with bounds-checked At/Set and whole-row access.
//   - Validators shared by producers that fill caller-supplied targets.
//   - ToGonum, which projects the scalar part of any Dense[T] whose element
//     type exposes Value() into a gonum *mat.Dense for downstream linear
//     algebra.
//
// Dense is deliberately small: the rate-function engine writes rows, the
// likelihood side reads them. All arithmetic on elements happens in the
// element type itself.
package matrix
