// Package matrix_test contains unit tests for the dense kernel.
package matrix_test

import (
	"testing"

	"github.com/katalvlaran/touchpath/matrix"
	"github.com/stretchr/testify/require"
)

// hide wraps a Dense so kernels see a foreign Matrix implementation.
type hide struct{ matrix.Matrix }

// NewFilledDense builds an r×c Dense from a row-major slice.
func NewFilledDense(t *testing.T, r, c int, vals []float64) *matrix.Dense {
	t.Helper()
	require.Len(t, vals, r*c, "NewFilledDense: value count")
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		rows[i] = vals[i*c : (i+1)*c]
	}
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)

	return m
}

// MustAt reads m[i,j] or fails the test.
func MustAt(t *testing.T, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err, "At(%d,%d)", i, j)

	return v
}

// RequireApproxEqual compares every element of got against want within tol.
func RequireApproxEqual(t *testing.T, want [][]float64, got matrix.Matrix, tol float64) {
	t.Helper()
	require.Equal(t, len(want), got.Rows(), "rows")
	for i := range want {
		require.Equal(t, len(want[i]), got.Cols(), "cols")
		for j := range want[i] {
			require.InDelta(t, want[i][j], MustAt(t, got, i, j), tol, "[%d,%d]", i, j)
		}
	}
}
