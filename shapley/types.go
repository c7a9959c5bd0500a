package shapley

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/touchpath/paths"
)

// MaxChannels bounds the universe size: the characteristic function keeps one
// value per subset, i.e. 2ⁿ float64s.
const MaxChannels = 20

var (
	// ErrEmptyUniverse is returned when no channel is given.
	ErrEmptyUniverse = errors.New("shapley: empty channel universe")

	// ErrTooManyChannels is returned when the universe exceeds MaxChannels, or
	// when exact allocation is requested above the configured exact limit.
	ErrTooManyChannels = errors.New("shapley: too many channels")

	// ErrUnknownChannel is returned when an observed path mentions a channel
	// outside the universe.
	ErrUnknownChannel = errors.New("shapley: path channel not in universe")

	// ErrEmptyPath is returned when an observed path has no channels.
	ErrEmptyPath = errors.New("shapley: empty path")
)

// Coalition is a subset of a Universe, bit i set ⇔ channel i is a member.
type Coalition uint64

// Has reports whether channel index i is a member.
func (c Coalition) Has(i int) bool { return c&(1<<uint(i)) != 0 }

// Size returns the number of members.
func (c Coalition) Size() int {
	var n int
	for x := c; x != 0; x &= x - 1 {
		n++
	}

	return n
}

// Universe is the sorted, deduplicated set of channels of one run.
type Universe struct {
	channels []string
	index    map[string]int
}

// NewUniverse builds a Universe from channels (any order, duplicates allowed).
func NewUniverse(channels []string) (*Universe, error) {
	set := paths.SortedSet(channels)
	if len(set) == 0 {
		return nil, ErrEmptyUniverse
	}
	if len(set) > MaxChannels {
		return nil, fmt.Errorf("shapley: %d channels, limit %d: %w", len(set), MaxChannels, ErrTooManyChannels)
	}
	u := &Universe{channels: set, index: make(map[string]int, len(set))}
	for i, ch := range set {
		u.index[ch] = i
	}

	return u, nil
}

// Len returns the number of channels.
func (u *Universe) Len() int { return len(u.channels) }

// Channels returns a copy of the sorted channel list.
func (u *Universe) Channels() []string {
	out := make([]string, len(u.channels))
	copy(out, u.channels)

	return out
}

// Channel returns the name of channel index i.
func (u *Universe) Channel(i int) string { return u.channels[i] }

// Grand returns the coalition of all channels.
func (u *Universe) Grand() Coalition { return Coalition(1)<<uint(len(u.channels)) - 1 }

// CoalitionOf maps channel names to a Coalition. Order and duplicates do not
// matter, so equal sets always give equal coalitions.
func (u *Universe) CoalitionOf(channels []string) (Coalition, error) {
	var c Coalition
	for _, ch := range channels {
		i, ok := u.index[ch]
		if !ok {
			return 0, fmt.Errorf("%q: %w", ch, ErrUnknownChannel)
		}
		c |= 1 << uint(i)
	}

	return c, nil
}

// Members returns the channel names of c in lexicographic order.
func (u *Universe) Members(c Coalition) []string {
	out := make([]string, 0, c.Size())
	for i, ch := range u.channels {
		if c.Has(i) {
			out = append(out, ch)
		}
	}

	return out
}

// Key returns the canonical key of c: members sorted and joined by ">".
func (u *Universe) Key(c Coalition) string { return strings.Join(u.Members(c), paths.Separator) }

// ParseKey is the inverse of Key.
func (u *Universe) ParseKey(key string) (Coalition, error) {
	return u.CoalitionOf(paths.Split(key))
}
