// Package heuristic implements the rule-based attribution models:
// first touch, last touch and linear.
//
// Each converting journey carries one conversion. By default a journey is
// reduced to its sorted, deduplicated channel set, the same path key the
// Shapley model uses: First and Last credit the lexicographically first and
// last channel of that set, Linear splits the conversion evenly across it.
//
// WithChronologicalPaths keeps the journey as touched instead. First and Last
// then mean the earliest and latest touch, and Linear gives one share per
// touch (a channel touched twice receives two shares).
package heuristic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/touchpath/credit"
	"github.com/katalvlaran/touchpath/paths"
)

// Rule selects a heuristic.
type Rule string

const (
	First  Rule = "first_touch"
	Last   Rule = "last_touch"
	Linear Rule = "linear"
)

// Rules lists every rule in reporting order.
var Rules = []Rule{First, Last, Linear}

// ErrUnknownRule is returned for a rule name that is not one of Rules.
var ErrUnknownRule = errors.New("heuristic: unknown rule")

// ParseRule maps a name to a Rule. Accepts the canonical names plus the
// short forms "first", "last".
func ParseRule(s string) (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first_touch", "first":
		return First, nil
	case "last_touch", "last":
		return Last, nil
	case "linear":
		return Linear, nil
	}

	return "", fmt.Errorf("%q: %w", s, ErrUnknownRule)
}

// Option configures Attribute.
type Option func(*options)

type options struct {
	chronological bool
}

// WithChronologicalPaths credits each journey in touch order with duplicates
// kept, instead of its sorted channel set.
func WithChronologicalPaths() Option {
	return func(o *options) { o.chronological = true }
}

// Attribute credits every converting journey of seqs according to rule.
// Non-converting journeys are ignored. Every channel of channels is present
// in the result.
//
// With no converting journey it returns an all-zero allocation and
// credit.ErrNoConversions.
func Attribute(seqs []paths.Sequence, channels []string, rule Rule, opts ...Option) (credit.Allocation, error) {
	var o options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	switch rule {
	case First, Last, Linear:
	default:
		return nil, fmt.Errorf("%q: %w", rule, ErrUnknownRule)
	}

	out := credit.Zero(paths.SortedSet(channels))
	var converted int
	for _, s := range seqs {
		if !s.Converted || len(s.Channels) == 0 {
			continue
		}
		converted++
		touches := s.Channels
		if !o.chronological {
			touches = paths.SortedSet(touches)
		}
		switch rule {
		case First:
			out[touches[0]]++
		case Last:
			out[touches[len(touches)-1]]++
		case Linear:
			share := 1 / float64(len(touches))
			for _, ch := range touches {
				out[ch] += share
			}
		}
	}
	if converted == 0 {
		return out, credit.ErrNoConversions
	}

	return out, nil
}

// All runs every rule of Rules over the same journeys. With no converting
// journey every allocation is all-zero and credit.ErrNoConversions is returned.
func All(seqs []paths.Sequence, channels []string, opts ...Option) (map[Rule]credit.Allocation, error) {
	out := make(map[Rule]credit.Allocation, len(Rules))
	var degenerate error
	for _, r := range Rules {
		a, err := Attribute(seqs, channels, r, opts...)
		switch {
		case errors.Is(err, credit.ErrNoConversions):
			degenerate = err
		case err != nil:
			return nil, err
		}
		out[r] = a
	}

	return out, degenerate
}
