package credit

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrNoConversions is returned (with an all-zero Allocation) when the input
	// has no conversions to attribute.
	ErrNoConversions = errors.New("credit: no conversions to attribute")

	// ErrZeroMass is returned when normalizing or rescaling an allocation whose
	// values sum to zero.
	ErrZeroMass = errors.New("credit: allocation sums to zero")

	// ErrNegativePlaces is returned by Round for a negative precision.
	ErrNegativePlaces = errors.New("credit: negative rounding precision")
)

// Allocation maps a channel to its attributed conversions (or share).
type Allocation map[string]float64

// Zero returns an allocation with every channel present at 0.
func Zero(channels []string) Allocation {
	a := make(Allocation, len(channels))
	for _, ch := range channels {
		a[ch] = 0
	}

	return a
}

// Channels returns the channels in lexicographic order.
func (a Allocation) Channels() []string {
	out := make([]string, 0, len(a))
	for ch := range a {
		out = append(out, ch)
	}
	sort.Strings(out)

	return out
}

// Sum adds all values in channel order, so the result is reproducible.
func (a Allocation) Sum() float64 {
	var s float64
	for _, ch := range a.Channels() {
		s += a[ch]
	}

	return s
}

// Clone returns an independent copy.
func (a Allocation) Clone() Allocation {
	out := make(Allocation, len(a))
	for ch, v := range a {
		out[ch] = v
	}

	return out
}

// Scale returns a copy with every value multiplied by f.
func (a Allocation) Scale(f float64) Allocation {
	out := make(Allocation, len(a))
	for ch, v := range a {
		out[ch] = v * f
	}

	return out
}

// Normalize returns a copy whose values sum to 1.
func (a Allocation) Normalize() (Allocation, error) {
	s := a.Sum()
	if s == 0 {
		return nil, ErrZeroMass
	}

	return a.Scale(1 / s), nil
}

// Rescale redistributes total proportionally to the current values.
func (a Allocation) Rescale(total float64) (Allocation, error) {
	n, err := a.Normalize()
	if err != nil {
		return nil, fmt.Errorf("rescale to %g: %w", total, err)
	}

	return n.Scale(total), nil
}

// Round returns a copy rounded half away from zero to the given decimal places.
func (a Allocation) Round(places int) (Allocation, error) {
	if places < 0 {
		return nil, ErrNegativePlaces
	}
	p := math.Pow(10, float64(places))
	out := make(Allocation, len(a))
	for ch, v := range a {
		out[ch] = math.Round(v*p) / p
	}

	return out, nil
}

// Fill returns a copy that also carries every channel in channels, at 0 where
// it was absent.
func (a Allocation) Fill(channels []string) Allocation {
	out := a.Clone()
	for _, ch := range channels {
		if _, ok := out[ch]; !ok {
			out[ch] = 0
		}
	}

	return out
}
