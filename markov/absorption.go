package markov

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/touchpath/matrix"
)

// transient returns the indices of every state except Null and Conversion,
// in matrix order.
func (t *TransitionMatrix) transient() []int {
	idx := make([]int, 0, len(t.states)-2)
	for i, st := range t.states {
		if st != Null && st != Conversion {
			idx = append(idx, i)
		}
	}

	return idx
}

// ConversionProbabilities returns, for every transient state, the
// probability of eventually being absorbed in Conversion.
//
// With R the transient block and Q the transient→{Null, Conversion} block,
// N = (I − R)⁻¹ and B = N·Q; the result is B's Conversion column.
//
// Errors:
//   - ErrSingularMatrix when I − R cannot be inverted. The message lists the
//     states from which no absorbing state is reachable.
func (t *TransitionMatrix) ConversionProbabilities() (map[string]float64, error) {
	tr := t.transient()
	R, err := t.probs.Induced(tr, tr)
	if err != nil {
		return nil, fmt.Errorf("markov: absorption: %w", err)
	}
	Q, err := t.probs.Induced(tr, []int{t.index[Null], t.index[Conversion]})
	if err != nil {
		return nil, fmt.Errorf("markov: absorption: %w", err)
	}
	I, err := matrix.NewIdentity(len(tr))
	if err != nil {
		return nil, fmt.Errorf("markov: absorption: %w", err)
	}
	A, err := matrix.Sub(I, R)
	if err != nil {
		return nil, fmt.Errorf("markov: absorption: %w", err)
	}
	N, err := matrix.Inverse(A)
	if errors.Is(err, matrix.ErrSingular) {
		return nil, fmt.Errorf("%w: states never absorbed: %v", ErrSingularMatrix, t.trapped())
	}
	if err != nil {
		return nil, fmt.Errorf("markov: absorption: %w", err)
	}
	B, err := matrix.Mul(N, Q)
	if err != nil {
		return nil, fmt.Errorf("markov: absorption: %w", err)
	}

	out := make(map[string]float64, len(tr))
	for i, si := range tr {
		out[t.states[si]], _ = B.At(i, 1)
	}

	return out, nil
}

// ConversionRate returns the probability of reaching Conversion from Start.
func (t *TransitionMatrix) ConversionRate() (float64, error) {
	probs, err := t.ConversionProbabilities()
	if err != nil {
		return 0, err
	}

	return probs[Start], nil
}

// trapped returns the transient states from which neither Null nor
// Conversion is reachable, found by a backward breadth-first search from the
// absorbing states over positive transitions.
func (t *TransitionMatrix) trapped() []string {
	n := len(t.states)
	reach := make([]bool, n)
	queue := []int{t.index[Null], t.index[Conversion]}
	for _, q := range queue {
		reach[q] = true
	}
	for len(queue) > 0 {
		to := queue[0]
		queue = queue[1:]
		for from := 0; from < n; from++ {
			if reach[from] {
				continue
			}
			if p, _ := t.probs.At(from, to); p > 0 {
				reach[from] = true
				queue = append(queue, from)
			}
		}
	}

	var out []string
	for i, st := range t.states {
		if !reach[i] {
			out = append(out, st)
		}
	}

	return out
}
