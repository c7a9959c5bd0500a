// SPDX-License-Identifier: MIT

// Package matrix - row reductions.
//
// RowSums and NormalizeRowsL1 are the two reductions a row-stochastic
// transition matrix needs: checking that every row sums to one, and turning a
// row of raw counts into probabilities.

package matrix

const opNormalizeRowsL1 = "NormalizeRowsL1"

// RowSums returns the sum of each row of m.
// Complexity: O(r*c).
func RowSums(m Matrix) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf("RowSums", err)
	}
	d := asDense(m)
	sums := make([]float64, d.r)
	var i, j, base int
	for i = 0; i < d.r; i++ {
		base = i * d.c
		for j = 0; j < d.c; j++ {
			sums[i] += d.data[base+j]
		}
	}

	return sums, nil
}

// NormalizeRowsL1 scales each row of m to have L1-norm == 1 when possible.
// Rows with zero norm are left untouched (absorbing states keep their zero
// rows). Returns the normalized copy and the original per-row norms.
//
// Complexity: O(r*c).
func NormalizeRowsL1(m Matrix) (*Dense, []float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, nil, matrixErrorf(opNormalizeRowsL1, err)
	}
	src := asDense(m)
	out := &Dense{r: src.r, c: src.c, data: make([]float64, len(src.data))}
	copy(out.data, src.data)

	norms := make([]float64, src.r)
	var i, j, base int
	var s, v float64
	for i = 0; i < src.r; i++ {
		s = 0.0
		base = i * src.c
		for j = 0; j < src.c; j++ {
			v = src.data[base+j]
			if v < 0 {
				v = -v
			}
			s += v
		}
		norms[i] = s
		if s == 0 {
			continue
		}
		for j = 0; j < src.c; j++ {
			out.data[base+j] /= s
		}
	}

	return out, norms, nil
}
