package shapley

import (
	"fmt"

	"github.com/katalvlaran/touchpath/paths"
)

// Characteristic is the characteristic function of the attribution game:
// one value per coalition, indexed directly by the Coalition bitmask.
// The empty coalition is always worth 0.
type Characteristic struct {
	u      *Universe
	values []float64 // len == 2ⁿ
}

// NewCharacteristic returns a characteristic function over u with every
// coalition seeded at 0.
func NewCharacteristic(u *Universe) *Characteristic {
	return &Characteristic{u: u, values: make([]float64, 1<<uint(u.Len()))}
}

// Universe returns the underlying channel universe.
func (ch *Characteristic) Universe() *Universe { return ch.u }

// Value returns v(c).
func (ch *Characteristic) Value(c Coalition) float64 { return ch.values[c] }

// ValueOf returns the value of the coalition with the given canonical key.
func (ch *Characteristic) ValueOf(key string) (float64, error) {
	c, err := ch.u.ParseKey(key)
	if err != nil {
		return 0, err
	}

	return ch.values[c], nil
}

// Overlay adds observed path counts onto their coalitions. A coalition's
// value is exactly the number of conversions whose channel set equals it;
// nothing is inherited from subsets.
//
// Errors:
//   - ErrUnknownChannel if a path mentions a channel outside the universe,
//     ErrEmptyPath for an empty key; the characteristic is left unchanged.
func (ch *Characteristic) Overlay(counts paths.Counts) error {
	add := make(map[Coalition]float64, len(counts))
	for _, key := range counts.Keys() {
		c, err := ch.u.ParseKey(key)
		if err != nil {
			return fmt.Errorf("overlay path %q: %w", key, err)
		}
		if c == 0 {
			return fmt.Errorf("overlay: %w", ErrEmptyPath)
		}
		add[c] += float64(counts[key])
	}
	for c, v := range add {
		ch.values[c] += v
	}

	return nil
}

// Inherited returns a copy in which every coalition is worth the sum of the
// observed values of all its subsets: v'(S) = Σ_{∅≠T⊆S} v(T).
// The result is monotone, so the exact Shapley values of it sum to v'(grand).
//
// Implemented as a subset-sum (zeta) transform over the bitmasks.
// Time complexity: O(n · 2ⁿ).
func (ch *Characteristic) Inherited() *Characteristic {
	out := &Characteristic{u: ch.u, values: append([]float64(nil), ch.values...)}
	n := ch.u.Len()
	for i := 0; i < n; i++ {
		bit := Coalition(1) << uint(i)
		for mask := Coalition(0); int(mask) < len(out.values); mask++ {
			if mask&bit != 0 {
				out.values[mask] += out.values[mask^bit]
			}
		}
	}

	return out
}
