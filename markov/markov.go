package markov

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/touchpath/credit"
	"github.com/katalvlaran/touchpath/paths"
)

// Attribute builds the chain from journeys, computes removal effects and
// distributes totalConversions proportionally to them (or returns the
// normalized effects with WithProportions). Every channel of channels is
// present in the result, at 0 when it never appears in a journey.
//
// Degenerate input returns an all-zero allocation with an explicit error:
// credit.ErrNoConversions when nothing converted, ErrNoRemovalEffect when no
// channel's removal changes the conversion rate.
func Attribute(ctx context.Context, seqs []paths.Sequence, channels []string, totalConversions int, opts ...Option) (credit.Allocation, error) {
	o := gatherOptions(opts...)
	if o.order < MinOrder || o.order > MaxOrder {
		return nil, fmt.Errorf("order %d: %w", o.order, ErrInvalidOrder)
	}
	zero := credit.Zero(paths.SortedSet(channels))
	if totalConversions == 0 {
		return zero, credit.ErrNoConversions
	}

	t, err := Build(seqs, o.order)
	if err != nil {
		return nil, err
	}
	effects, err := RemovalEffects(ctx, t, opts...)
	if errors.Is(err, credit.ErrNoConversions) {
		return zero.Fill(t.channels), err
	}
	if err != nil {
		return nil, err
	}

	out, err := effects.Normalize()
	if errors.Is(err, credit.ErrZeroMass) {
		return zero.Fill(t.channels), ErrNoRemovalEffect
	}
	if err != nil {
		return nil, err
	}
	if !o.proportions {
		out = out.Scale(float64(totalConversions))
	}

	return out.Fill(channels).Round(o.precision)
}
