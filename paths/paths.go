package paths

import (
	"sort"
	"strings"

	"github.com/katalvlaran/touchpath/touchpoint"
)

// Separator joins channels into a path key.
const Separator = touchpoint.PathSeparator

// Sequence is one ordered journey and its outcome.
type Sequence struct {
	Channels  []string
	Converted bool
}

// Key returns the journey joined by Separator.
func (s Sequence) Key() string { return Key(s.Channels) }

// Counts maps an order-insensitive path key to its number of occurrences.
type Counts map[string]int

// Keys returns the keys in lexicographic order.
func (c Counts) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// Total returns the sum of all occurrences.
func (c Counts) Total() int {
	var n int
	for _, v := range c {
		n += v
	}

	return n
}

// Key joins channels with Separator.
func Key(channels []string) string { return strings.Join(channels, Separator) }

// Split is the inverse of Key. The empty key yields nil.
func Split(key string) []string {
	if key == "" {
		return nil
	}

	return strings.Split(key, Separator)
}

// SortedSet returns the distinct channels in lexicographic order.
func SortedSet(channels []string) []string {
	seen := make(map[string]struct{}, len(channels))
	out := make([]string, 0, len(channels))
	for _, ch := range channels {
		if _, ok := seen[ch]; ok {
			continue
		}
		seen[ch] = struct{}{}
		out = append(out, ch)
	}
	sort.Strings(out)

	return out
}

// Converting extracts order-insensitive converting paths with counts.
//
// Complexity: O(rows · log k) where k is the longest journey.
func Converting(t *touchpoint.Table) Counts {
	counts := make(Counts)
	for _, seq := range Ordered(t) {
		counts[Key(SortedSet(seq.Channels))]++
	}

	return counts
}

// Ordered extracts converting journeys in chronological order, duplicates
// kept. Trailing non-converting touches are dropped.
func Ordered(t *touchpoint.Table) []Sequence {
	var out []Sequence
	for _, s := range Markov(t) {
		if s.Converted {
			out = append(out, s)
		}
	}

	return out
}

// Markov extracts every journey, converting or not, in user then row order.
// Sequences are not aggregated: the transition builder consumes raw journeys.
func Markov(t *touchpoint.Table) []Sequence {
	var out []Sequence
	for _, group := range t.Groups() {
		var buf []string
		for _, r := range group {
			buf = append(buf, r.Channel)
			if r.Converted {
				out = append(out, Sequence{Channels: buf, Converted: true})
				buf = nil
			}
		}
		if len(buf) > 0 {
			out = append(out, Sequence{Channels: buf})
		}
	}

	return out
}
