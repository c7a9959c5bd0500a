package shapley

// Coalitions enumerates every non-empty subset of u: sizes 1..n, and within a
// size in lexicographic order of the sorted channel indices (the order of
// itertools-style combinations).
//
// Time complexity:  O(n · 2ⁿ)
// Memory complexity: O(2ⁿ)
func (u *Universe) Coalitions() []Coalition {
	n := u.Len()
	out := make([]Coalition, 0, (1<<uint(n))-1)
	idx := make([]int, n)
	for k := 1; k <= n; k++ {
		// first combination of size k: 0..k-1
		for i := 0; i < k; i++ {
			idx[i] = i
		}
		for {
			var c Coalition
			for i := 0; i < k; i++ {
				c |= 1 << uint(idx[i])
			}
			out = append(out, c)

			// advance to the next combination in lexicographic order
			i := k - 1
			for i >= 0 && idx[i] == n-k+i {
				i--
			}
			if i < 0 {
				break
			}
			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}
		}
	}

	return out
}

// Orderings returns all n! grand-coalition orderings as channel-index
// permutations, in lexicographic order. Intended for inspection and small n;
// Allocate streams orderings instead of materializing them.
//
// Time and memory complexity: O(n · n!).
func (u *Universe) Orderings() [][]int {
	n := u.Len()
	perm := identity(n)
	out := make([][]int, 0, factorial(n))
	for {
		out = append(out, append([]int(nil), perm...))
		if !nextPermutation(perm) {
			return out
		}
	}
}

// identity returns [0, 1, ..., n-1].
func identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}

	return p
}

// nextPermutation rearranges p into its lexicographic successor.
// Returns false (leaving p as the last permutation) when p is already last.
//
// Complexity: O(n) worst case, O(1) amortized.
func nextPermutation(p []int) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	for l, r := i+1, len(p)-1; l < r; l, r = l+1, r-1 {
		p[l], p[r] = p[r], p[l]
	}

	return true
}

// factorial returns n! for 0 <= n <= 20 (the largest that fits an int64).
func factorial(n int) int {
	f := 1
	for i := 2; i <= n; i++ {
		f *= i
	}

	return f
}
