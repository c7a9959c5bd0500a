// SPDX-License-Identifier: MIT

// Package matrix - the kernels an absorbing chain needs: I − R, its inverse N
// and the product N·Q. Foreign Matrix implementations are copied once into a
// Dense; loop orders are fixed so equal inputs give bit-identical outputs.

package matrix

import (
	"fmt"
	"math"
)

// PivotEpsilon is the magnitude under which an LU pivot is treated as zero.
// Rows of a stochastic matrix are O(1), so an absolute bound is adequate.
const PivotEpsilon = 1e-12

const (
	opSub      = "Sub"
	opMul      = "Mul"
	opIdentity = "Identity"
	opInverse  = "Inverse"
	opLU       = "LU"
)

// matrixErrorf tags a non-nil err with the operation name.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// asDense returns m itself when it is a *Dense, otherwise a Dense copy.
// Assumes m has been validated non-nil and non-empty.
func asDense(m Matrix) *Dense {
	if d, ok := m.(*Dense); ok {
		return d
	}
	r, c := m.Rows(), m.Cols()
	d := &Dense{r: r, c: c, data: make([]float64, r*c)}
	var i, j int
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			d.data[i*c+j], _ = m.At(i, j)
		}
	}

	return d
}

// NewIdentity returns the n×n identity matrix.
func NewIdentity(n int) (*Dense, error) {
	id, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opIdentity, err)
	}
	for i := 0; i < n; i++ {
		id.data[i*n+i] = 1.0
	}

	return id, nil
}

// Sub computes a − b elementwise into a fresh Dense. Operands are not mutated.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Sub(a, b Matrix) (*Dense, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	da, db := asDense(a), asDense(b)
	res := &Dense{r: da.r, c: da.c, data: make([]float64, len(da.data))}
	for k := range da.data {
		res.data[k] = da.data[k] - db.data[k]
	}

	return res, nil
}

// Mul computes the matrix product a*b.
// Uses the i-k-j loop order over flat slices and skips zero entries of a,
// which dominates in sparse transition matrices.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (a.Cols != b.Rows).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	da, db := asDense(a), asDense(b)
	aRows, aCols, bCols := da.r, da.c, db.c
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	var (
		i, j, k                            int
		av                                 float64
		rowOffsetA, rowOffsetB, rowOffsetR int
	)
	for i = 0; i < aRows; i++ {
		rowOffsetA = i * aCols
		rowOffsetR = i * bCols
		for k = 0; k < aCols; k++ {
			av = da.data[rowOffsetA+k]
			if av == 0 {
				continue
			}
			rowOffsetB = k * bCols
			for j = 0; j < bCols; j++ {
				res.data[rowOffsetR+j] += av * db.data[rowOffsetB+j]
			}
		}
	}

	return res, nil
}

// LU computes the Doolittle factorization A = L*U with unit diagonal on L (no pivoting).
//
// No pivoting keeps the kernel deterministic. It is exact for the M-matrices
// (I − R) produced by absorbing chains, whose pivots are positive whenever the
// matrix is nonsingular.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular (|U[i,i]| <= PivotEpsilon).
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
func LU(m Matrix) (*Dense, *Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	a := asDense(m)
	n := a.r
	L, _ := NewDense(n, n)
	U, _ := NewDense(n, n)
	for i := 0; i < n; i++ {
		L.data[i*n+i] = 1.0
	}

	var i, j, k, baseI, baseJ int
	var sum, pivot float64
	for i = 0; i < n; i++ {
		baseI = i * n
		// Row i of U.
		for j = i; j < n; j++ {
			sum = 0
			for k = 0; k < i; k++ {
				sum += L.data[baseI+k] * U.data[k*n+j]
			}
			U.data[baseI+j] = a.data[baseI+j] - sum
		}

		pivot = U.data[baseI+i]
		if math.Abs(pivot) <= PivotEpsilon {
			return nil, nil, matrixErrorf(opLU, fmt.Errorf("zero pivot at %d: %w", i, ErrSingular))
		}

		// Column i of L.
		for j = i + 1; j < n; j++ {
			sum = 0
			baseJ = j * n
			for k = 0; k < i; k++ {
				sum += L.data[baseJ+k] * U.data[k*n+i]
			}
			L.data[baseJ+i] = (a.data[baseJ+i] - sum) / pivot
		}
	}

	return L, U, nil
}

// Inverse computes A^{-1} using Doolittle LU factorization.
// For each canonical basis column e_col it solves L*y = e_col (top-down)
// and U*x = y (bottom-up), writing x into column col.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare.
//   - ErrSingular from LU, or when the result is not finite.
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
func Inverse(m Matrix) (*Dense, error) {
	L, U, err := LU(m)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}

	n := L.r
	inv, _ := NewDense(n, n)
	var (
		col, i, k int
		sum       float64
		y         = make([]float64, n) // forward substitution workspace
		x         = make([]float64, n) // backward substitution workspace
	)
	for col = 0; col < n; col++ {
		// L*y = e_col
		for i = 0; i < n; i++ {
			sum = 0
			for k = 0; k < i; k++ {
				sum += L.data[i*n+k] * y[k]
			}
			if i == col {
				y[i] = 1.0 - sum
			} else {
				y[i] = -sum
			}
		}
		// U*x = y
		for i = n - 1; i >= 0; i-- {
			sum = 0
			for k = i + 1; k < n; k++ {
				sum += U.data[i*n+k] * x[k]
			}
			x[i] = (y[i] - sum) / U.data[i*n+i]
			if math.IsNaN(x[i]) || math.IsInf(x[i], 0) {
				return nil, matrixErrorf(opInverse, ErrSingular)
			}
		}
		for i = 0; i < n; i++ {
			inv.data[i*n+col] = x[i]
		}
	}

	return inv, nil
}
