package attribution

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/touchpath/heuristic"
)

// Method names an attribution model.
type Method string

const (
	FirstTouch = Method(heuristic.First)
	LastTouch  = Method(heuristic.Last)
	Linear     = Method(heuristic.Linear)
	Shapley    Method = "shapley"
	Markov     Method = "markov"
)

// Methods lists every method in reporting order.
var Methods = []Method{FirstTouch, LastTouch, Linear, Shapley, Markov}

// ParseMethod maps a method name (any case) to a Method.
func ParseMethod(s string) (Method, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, m := range Methods {
		if string(m) == name {
			return m, nil
		}
	}
	if r, err := heuristic.ParseRule(name); err == nil {
		return Method(r), nil
	}

	return "", fmt.Errorf("%w: unknown method %q", ErrInvalidParameter, s)
}

// ParseMethods parses a list of names, rejecting duplicates.
func ParseMethods(names []string) ([]Method, error) {
	out := make([]Method, 0, len(names))
	seen := make(map[Method]bool, len(names))
	for _, n := range names {
		m, err := ParseMethod(n)
		if err != nil {
			return nil, err
		}
		if seen[m] {
			return nil, fmt.Errorf("%w: duplicate method %q", ErrInvalidParameter, m)
		}
		seen[m] = true
		out = append(out, m)
	}

	return out, nil
}

// rule returns the heuristic rule behind m, if any.
func (m Method) rule() (heuristic.Rule, bool) {
	switch m {
	case FirstTouch, LastTouch, Linear:
		return heuristic.Rule(m), true
	}

	return "", false
}
