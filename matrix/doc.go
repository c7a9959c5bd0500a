// Package matrix provides the small dense linear-algebra kernel used by the
// Markov attribution engine.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with safe At/Set accessors that return
//     errors instead of panicking.
//   - Induced sub-matrix extraction by row/column index lists, used to split a
//     transition matrix into its transient (R) and absorbing (Q) blocks.
//   - Sub, Mul, LU and Inverse kernels with deterministic loop orders.
//   - Row helpers (RowSums, NormalizeRowsL1) for building row-stochastic matrices.
//
// Matrices are best for the small state spaces attribution works with
// (tens of channels); every kernel is O(n³) at worst.
//
// See the examples in this package and in markov for usage patterns.
package matrix
