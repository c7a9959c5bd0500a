package markov

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/katalvlaran/touchpath/matrix"
	"github.com/katalvlaran/touchpath/paths"
	"github.com/katalvlaran/touchpath/touchpoint"
)

// Synthetic states.
const (
	Start      = touchpoint.StartState
	Null       = touchpoint.NullState
	Conversion = touchpoint.ConversionState
)

// TransitionMatrix is a square row-stochastic matrix over named states.
// Rows of Null and Conversion are all-zero; every other row sums to 1.
// A TransitionMatrix is immutable: Remove returns a new one.
type TransitionMatrix struct {
	states   []string
	index    map[string]int
	probs    *matrix.Dense
	channels []string // real channels mentioned by the states, sorted
}

// Build tallies the state transitions of every journey into a
// TransitionMatrix of the given order. States are ordered
// Start, channel states (sorted), Null, Conversion.
//
// Errors:
//   - ErrInvalidOrder, ErrNoPaths, ErrMalformedPath.
func Build(seqs []paths.Sequence, order int) (*TransitionMatrix, error) {
	if order < MinOrder || order > MaxOrder {
		return nil, fmt.Errorf("order %d: %w", order, ErrInvalidOrder)
	}
	if len(seqs) == 0 {
		return nil, ErrNoPaths
	}

	tally := make(map[string]map[string]float64)
	add := func(from, to string) {
		row, ok := tally[from]
		if !ok {
			row = make(map[string]float64)
			tally[from] = row
		}
		row[to]++
	}

	seen := make(map[string]struct{})
	var channels []string
	for i, s := range seqs {
		if len(s.Channels) == 0 {
			return nil, fmt.Errorf("path %d is empty: %w", i, ErrMalformedPath)
		}
		prev := Start
		for j, ch := range s.Channels {
			if !validChannel(ch) {
				return nil, fmt.Errorf("path %d step %d: channel %q: %w", i, j, ch, ErrMalformedPath)
			}
			if _, ok := seen[ch]; !ok {
				seen[ch] = struct{}{}
				channels = append(channels, ch)
			}
			st := composite(s.Channels, j, order)
			add(prev, st)
			prev = st
		}
		if s.Converted {
			add(prev, Conversion)
		} else {
			add(prev, Null)
		}
	}
	sort.Strings(channels)

	inner := make([]string, 0, len(tally))
	for from := range tally {
		if from != Start {
			inner = append(inner, from)
		}
	}
	sort.Strings(inner)
	states := make([]string, 0, len(inner)+3)
	states = append(states, Start)
	states = append(states, inner...)
	states = append(states, Null, Conversion)

	t := newTransition(states, channels)
	rows := make([][]float64, len(states))
	for i, from := range states {
		rows[i] = make([]float64, len(states))
		for to, n := range tally[from] {
			rows[i][t.index[to]] = n
		}
	}
	counts, err := matrix.NewDenseFrom(rows)
	if err != nil {
		return nil, fmt.Errorf("markov: build: %w", err)
	}
	if t.probs, _, err = matrix.NormalizeRowsL1(counts); err != nil {
		return nil, fmt.Errorf("markov: build: %w", err)
	}

	return t, nil
}

// NewTransitionMatrix wraps an explicit matrix. states must contain Start,
// Null and Conversion exactly once; rows[i] holds the outgoing probabilities
// of states[i] in the order of states.
//
// Errors:
//   - ErrMalformedPath for a missing, duplicated or invalid state name.
//   - ErrNotStochastic for negative entries, a transient row not summing to
//     1 ± RowTolerance, or a non-empty absorbing row.
//   - matrix errors for ragged or non-finite rows.
func NewTransitionMatrix(states []string, rows [][]float64) (*TransitionMatrix, error) {
	if len(rows) != len(states) {
		return nil, fmt.Errorf("markov: %d rows for %d states: %w", len(rows), len(states), matrix.ErrDimensionMismatch)
	}
	seen := make(map[string]struct{})
	var channels []string
	for _, st := range states {
		if _, dup := seen[st]; dup {
			return nil, fmt.Errorf("markov: duplicate state %q: %w", st, ErrMalformedPath)
		}
		seen[st] = struct{}{}
		if st == Start || st == Null || st == Conversion {
			continue
		}
		for _, ch := range paths.Split(st) {
			if !validChannel(ch) {
				return nil, fmt.Errorf("markov: state %q: %w", st, ErrMalformedPath)
			}
			channels = append(channels, ch)
		}
	}
	for _, must := range []string{Start, Null, Conversion} {
		if _, ok := seen[must]; !ok {
			return nil, fmt.Errorf("markov: missing state %q: %w", must, ErrMalformedPath)
		}
	}

	m, err := matrix.NewDenseFrom(rows)
	if err != nil {
		return nil, fmt.Errorf("markov: %w", err)
	}
	if m.Cols() != len(states) {
		return nil, fmt.Errorf("markov: %d columns for %d states: %w", m.Cols(), len(states), matrix.ErrDimensionMismatch)
	}
	sums, err := matrix.RowSums(m)
	if err != nil {
		return nil, fmt.Errorf("markov: %w", err)
	}
	for i, st := range states {
		for j, p := range rows[i] {
			if p < 0 {
				return nil, fmt.Errorf("markov: %s→%s = %g: %w", st, states[j], p, ErrNotStochastic)
			}
		}
		want := 1.0
		if st == Null || st == Conversion {
			want = 0
		}
		if math.Abs(sums[i]-want) > RowTolerance {
			return nil, fmt.Errorf("markov: row %s sums to %g: %w", st, sums[i], ErrNotStochastic)
		}
	}

	t := newTransition(states, paths.SortedSet(channels))
	t.probs = m

	return t, nil
}

func newTransition(states, channels []string) *TransitionMatrix {
	t := &TransitionMatrix{
		states:   states,
		index:    make(map[string]int, len(states)),
		channels: channels,
	}
	for i, st := range states {
		t.index[st] = i
	}

	return t
}

// composite returns the state of step j: the last min(order, j+1) channels.
func composite(chs []string, j, order int) string {
	lo := j - order + 1
	if lo < 0 {
		lo = 0
	}

	return paths.Key(chs[lo : j+1])
}

func validChannel(ch string) bool {
	return ch != "" && ch != Start && ch != Null && ch != Conversion &&
		!strings.Contains(ch, paths.Separator)
}

// Len returns the number of states.
func (t *TransitionMatrix) Len() int { return len(t.states) }

// States returns a copy of the state names in matrix order.
func (t *TransitionMatrix) States() []string {
	out := make([]string, len(t.states))
	copy(out, t.states)

	return out
}

// Channels returns the real channels of the chain, sorted.
func (t *TransitionMatrix) Channels() []string {
	out := make([]string, len(t.channels))
	copy(out, t.channels)

	return out
}

// Matrix returns a copy of the probabilities.
func (t *TransitionMatrix) Matrix() *matrix.Dense {
	return t.probs.Clone().(*matrix.Dense)
}

// Prob returns P(from → to).
func (t *TransitionMatrix) Prob(from, to string) (float64, error) {
	i, ok := t.index[from]
	if !ok {
		return 0, fmt.Errorf("markov: %q: %w", from, ErrUnknownState)
	}
	j, ok := t.index[to]
	if !ok {
		return 0, fmt.Errorf("markov: %q: %w", to, ErrUnknownState)
	}

	return t.probs.At(i, j)
}

// Row returns the non-zero outgoing probabilities of from.
func (t *TransitionMatrix) Row(from string) (map[string]float64, error) {
	i, ok := t.index[from]
	if !ok {
		return nil, fmt.Errorf("markov: %q: %w", from, ErrUnknownState)
	}
	row, err := t.probs.Row(i)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for j, p := range row {
		if p != 0 {
			out[t.states[j]] = p
		}
	}

	return out, nil
}

// String lists the non-zero transitions, one source state per line.
func (t *TransitionMatrix) String() string {
	var b strings.Builder
	for i, from := range t.states {
		row, _ := t.probs.Row(i)
		first := true
		for j, p := range row {
			if p == 0 {
				continue
			}
			if first {
				b.WriteString(from)
				b.WriteString(":")
				first = false
			}
			fmt.Fprintf(&b, " %s=%.4g", t.states[j], p)
		}
		if !first {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// Remove returns the chain without channel c: every state mentioning c is
// dropped and, for each remaining transient row, the missing probability
// mass is added to Null.
//
// Errors:
//   - ErrUnknownState if c is not a channel of the chain.
func (t *TransitionMatrix) Remove(c string) (*TransitionMatrix, error) {
	pos := sort.SearchStrings(t.channels, c)
	if pos == len(t.channels) || t.channels[pos] != c {
		return nil, fmt.Errorf("markov: remove %q: %w", c, ErrUnknownState)
	}

	keep := make([]int, 0, len(t.states))
	states := make([]string, 0, len(t.states))
	for i, st := range t.states {
		if mentions(st, c) {
			continue
		}
		keep = append(keep, i)
		states = append(states, st)
	}
	channels := make([]string, 0, len(t.channels)-1)
	channels = append(channels, t.channels[:pos]...)
	channels = append(channels, t.channels[pos+1:]...)

	out := newTransition(states, channels)
	reduced, err := t.probs.Induced(keep, keep)
	if err != nil {
		return nil, fmt.Errorf("markov: remove %q: %w", c, err)
	}
	sums, err := matrix.RowSums(reduced)
	if err != nil {
		return nil, fmt.Errorf("markov: remove %q: %w", c, err)
	}
	nullCol := out.index[Null]
	for i, st := range states {
		if st == Null || st == Conversion {
			continue
		}
		if shortfall := 1 - sums[i]; shortfall != 0 {
			v, _ := reduced.At(i, nullCol)
			if err = reduced.Set(i, nullCol, v+shortfall); err != nil {
				return nil, fmt.Errorf("markov: remove %q: %w", c, err)
			}
		}
	}
	out.probs = reduced

	return out, nil
}

// mentions reports whether state st involves channel c.
func mentions(st, c string) bool {
	if st == Start || st == Null || st == Conversion {
		return false
	}
	for _, ch := range paths.Split(st) {
		if ch == c {
			return true
		}
	}

	return false
}
